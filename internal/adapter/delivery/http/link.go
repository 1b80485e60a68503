package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/skip2/go-qrcode"
	"github.com/vadimbarashkov/shortlink/internal/usecase"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

type linkHandler struct {
	useCase  linkUseCase
	validate *validator.Validate
}

func newLinkHandler(useCase linkUseCase, validate *validator.Validate) *linkHandler {
	return &linkHandler{
		useCase:  useCase,
		validate: validate,
	}
}

func (h *linkHandler) shortenPublicURL(w http.ResponseWriter, r *http.Request) {
	h.shorten(w, r, "")
}

func (h *linkHandler) shortenURL(w http.ResponseWriter, r *http.Request, userID string) {
	h.shorten(w, r, userID)
}

func (h *linkHandler) shorten(w http.ResponseWriter, r *http.Request, userID string) {
	var req shortenRequest

	if !decodeRequest(w, r, h.validate, &req) {
		return
	}

	link, err := h.useCase.ShortenURL(r.Context(), usecase.ShortenInput{
		OriginalURL: req.URL,
		CustomSlug:  req.CustomSlug,
		UserID:      userID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Success(toLinkResponse(link)))
}

func (h *linkHandler) redirect(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	link, err := h.useCase.ResolveSlug(r.Context(), slug)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.useCase.RecordVisit(r.Context(), link.ID, clientIP(r), r.UserAgent()); err != nil {
		httplog.LogEntrySetField(r.Context(), "visit_err", slog.AnyValue(err))
	}

	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}

func (h *linkHandler) listLinks(w http.ResponseWriter, r *http.Request, userID string) {
	links, err := h.useCase.ListLinks(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]linkWithVisitsResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, toLinkWithVisitsResponse(link))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.Success(resp))
}

func (h *linkHandler) modifyLink(w http.ResponseWriter, r *http.Request, userID string) {
	var req modifyLinkRequest

	if !decodeRequest(w, r, h.validate, &req) {
		return
	}

	link, err := h.useCase.ModifyCustomSlug(r.Context(), chi.URLParam(r, "id"), userID, req.CustomSlug)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.Success(toLinkResponse(link)))
}

func (h *linkHandler) deleteLink(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.useCase.DeleteLink(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *linkHandler) qrCode(w http.ResponseWriter, r *http.Request, userID string) {
	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < minQRSize || n > maxQRSize {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validationErrorMessage, response.FieldError{
				Field:   "size",
				Message: fmt.Sprintf("must be a number between %d and %d", minQRSize, maxQRSize),
			}))
			return
		}
		size = n
	}

	link, err := h.useCase.GetLink(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	png, err := qrcode.Encode(link.ShortURL, qrcode.Medium, size)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to encode qr code: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
