package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/internal/usecase"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type authUseCase interface {
	Register(ctx context.Context, email, password string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

type linkUseCase interface {
	ShortenURL(ctx context.Context, in usecase.ShortenInput) (*entity.Link, error)
	ResolveSlug(ctx context.Context, slug string) (*entity.Link, error)
	RecordVisit(ctx context.Context, linkID, ip, userAgent string) error
	ListLinks(ctx context.Context, userID string) ([]*entity.Link, error)
	GetLink(ctx context.Context, id, userID string) (*entity.Link, error)
	ModifyCustomSlug(ctx context.Context, id, userID, customSlug string) (*entity.Link, error)
	DeleteLink(ctx context.Context, id, userID string) error
}

func newValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// decodeRequest decodes and validates the JSON body into v. On failure it
// writes the error response and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, validate *validator.Validate, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return false
	}

	if err := validate.Struct(v); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validationErrorMessage, response.FieldErrors(err)...))
		return false
	}

	return true
}

// writeError maps use case errors to the API error envelope. Unexpected
// errors are attached to the request log entry.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *entity.ValidationError

	switch {
	case errors.As(err, &vErr):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validationErrorMessage, response.FieldError{
			Field:   vErr.Field,
			Message: vErr.Message,
		}))
	case errors.Is(err, entity.ErrSlugTaken):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, slugTakenResponse)
	case errors.Is(err, entity.ErrEmailTaken):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, userExistsResponse)
	case errors.Is(err, entity.ErrInvalidCredentials):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, invalidCredentialsResponse)
	case errors.Is(err, entity.ErrInvalidToken):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, invalidTokenResponse)
	case errors.Is(err, entity.ErrLinkNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
	}
}

// clientIP returns the request's remote address without the port. RealIP has
// already replaced it with the forwarded address when one is present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
