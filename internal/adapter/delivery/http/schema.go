package http

import (
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

// credentialsRequest is the body of register and login requests. Formats are
// checked by the use case.
type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// shortenRequest is the body of a request to shorten a URL.
type shortenRequest struct {
	URL        string `json:"url" validate:"required"`
	CustomSlug string `json:"customSlug"`
}

type modifyLinkRequest struct {
	CustomSlug string `json:"customSlug" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toAuthResponse(user *entity.User, token string) authResponse {
	return authResponse{
		User: userResponse{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
		Token: token,
	}
}

// linkResponse represents a short link. CustomSlug and UserID are omitted
// when unset.
type linkResponse struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"originalUrl"`
	Slug        string    `json:"shortSlug"`
	CustomSlug  string    `json:"customSlug,omitempty"`
	ShortURL    string    `json:"shortUrl"`
	UserID      string    `json:"userId,omitempty"`
	VisitCount  int64     `json:"visitCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toLinkResponse(link *entity.Link) linkResponse {
	return linkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		Slug:        link.Slug,
		CustomSlug:  link.CustomSlug,
		ShortURL:    link.ShortURL,
		UserID:      link.UserID,
		VisitCount:  link.VisitCount,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

type visitResponse struct {
	ID        string    `json:"id"`
	VisitedAt time.Time `json:"visitedAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// linkWithVisitsResponse is a listing entry. Analytics is always present.
type linkWithVisitsResponse struct {
	linkResponse
	Analytics []visitResponse `json:"analytics"`
}

func toLinkWithVisitsResponse(link *entity.Link) linkWithVisitsResponse {
	visits := make([]visitResponse, 0, len(link.Visits))
	for _, v := range link.Visits {
		visits = append(visits, visitResponse{
			ID:        v.ID,
			VisitedAt: v.VisitedAt,
			IPAddress: v.IP,
			UserAgent: v.UserAgent,
		})
	}

	return linkWithVisitsResponse{
		linkResponse: toLinkResponse(link),
		Analytics:    visits,
	}
}

const validationErrorMessage = "validation error"

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse   = response.Error("empty request body")
	invalidRequestBodyResponse = response.Error("invalid request body")
	authRequiredResponse       = response.Error("authentication required")
	invalidTokenResponse       = response.Error("invalid or expired token")
	invalidCredentialsResponse = response.Error("invalid credentials")
	userExistsResponse         = response.Error("user already exists")
	slugTakenResponse          = response.Error("custom slug is already taken")
	urlNotFoundResponse        = response.Error("url not found")
	resourceNotFoundResponse   = response.Error("resource not found")
	methodNotAllowedResponse   = response.Error("method not allowed")
	tooManyRequestsResponse    = response.Error("too many requests, please try again later")
	serverErrorResponse        = response.Error("server error occurred")
)
