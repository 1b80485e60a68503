package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/pkg/password"
)

type userRepository interface {
	Save(ctx context.Context, user *entity.User) (*entity.User, error)
	RetrieveByEmail(ctx context.Context, email string) (*entity.User, error)
}

type tokenManager interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// AuthUseCase registers users, logs them in and authenticates bearer tokens.
type AuthUseCase struct {
	userRepo userRepository
	tokens   tokenManager
	validate *validator.Validate
}

// NewAuthUseCase creates an AuthUseCase.
func NewAuthUseCase(userRepo userRepository, tokens tokenManager) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		validate: newValidate(),
	}
}

// Register creates an account and returns it with a fresh token.
func (uc *AuthUseCase) Register(ctx context.Context, email, plainPassword string) (*entity.User, string, error) {
	const op = "usecase.AuthUseCase.Register"

	email = strings.TrimSpace(email)

	if err := checkVar(uc.validate, "email", email, "required,email"); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := checkVar(uc.validate, "password", plainPassword, "required,password"); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	_, err := uc.userRepo.RetrieveByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", fmt.Errorf("%s: %w", op, entity.ErrEmailTaken)
	case !errors.Is(err, entity.ErrUserNotFound):
		return nil, "", fmt.Errorf("%s: failed to look up user: %w", op, err)
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := uc.userRepo.Save(ctx, &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	tok, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return user, tok, nil
}

// Login checks the credentials and returns the user with a fresh token.
// Unknown emails and wrong passwords both yield entity.ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, email, plainPassword string) (*entity.User, string, error) {
	const op = "usecase.AuthUseCase.Login"

	user, err := uc.userRepo.RetrieveByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, entity.ErrInvalidCredentials)
		}

		return nil, "", fmt.Errorf("%s: failed to look up user: %w", op, err)
	}

	if err := password.Verify(plainPassword, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, "", fmt.Errorf("%s: %w", op, entity.ErrInvalidCredentials)
		}

		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	tok, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return user, tok, nil
}

// Authenticate returns the user id carried by a valid token.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (string, error) {
	const op = "usecase.AuthUseCase.Authenticate"

	userID, err := uc.tokens.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, entity.ErrInvalidToken)
	}

	return userID, nil
}
