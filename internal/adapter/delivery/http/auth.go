package http

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

type authHandler struct {
	useCase  authUseCase
	validate *validator.Validate
}

func newAuthHandler(useCase authUseCase, validate *validator.Validate) *authHandler {
	return &authHandler{
		useCase:  useCase,
		validate: validate,
	}
}

func (h *authHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest

	if !decodeRequest(w, r, h.validate, &req) {
		return
	}

	user, token, err := h.useCase.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Success(toAuthResponse(user, token)))
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest

	if !decodeRequest(w, r, h.validate, &req) {
		return
	}

	user, token, err := h.useCase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.Success(toAuthResponse(user, token)))
}
