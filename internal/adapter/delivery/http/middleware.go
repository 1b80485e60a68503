package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

// authenticatedHandlerFunc is a handler that receives the id of the
// authenticated caller.
type authenticatedHandlerFunc func(w http.ResponseWriter, r *http.Request, userID string)

type authenticator struct {
	useCase authUseCase
}

func newAuthenticator(useCase authUseCase) *authenticator {
	return &authenticator{useCase: useCase}
}

// require rejects requests without a valid bearer token with 401 and passes
// the caller's id to next otherwise.
func (a *authenticator) require(next authenticatedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, authRequiredResponse)
			return
		}

		userID, err := a.useCase.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		next(w, r, userID)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
