package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/pkg/password"

	mocks "github.com/vadimbarashkov/shortlink/mocks/usecase"
)

const (
	testUserID   = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testEmail    = "jane@example.com"
	testPassword = "Secret123"
	testToken    = "header.payload.signature"
)

type AuthUseCaseTestSuite struct {
	suite.Suite
	errUnknown   error
	passwordHash string
	userRepoMock *mocks.MockUserRepository
	tokensMock   *mocks.MockTokenManager
	uc           *AuthUseCase
}

func (suite *AuthUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")

	hash, err := password.Hash(testPassword)
	suite.Require().NoError(err)
	suite.passwordHash = hash
}

func (suite *AuthUseCaseTestSuite) SetupSubTest() {
	suite.userRepoMock = mocks.NewMockUserRepository(suite.T())
	suite.tokensMock = mocks.NewMockTokenManager(suite.T())
	suite.uc = NewAuthUseCase(suite.userRepoMock, suite.tokensMock)
}

func (suite *AuthUseCaseTestSuite) TearDownSubTest() {
	suite.userRepoMock.AssertExpectations(suite.T())
	suite.tokensMock.AssertExpectations(suite.T())
}

func (suite *AuthUseCaseTestSuite) TestRegister() {
	ctx := context.Background()

	suite.Run("invalid email", func() {
		user, tok, err := suite.uc.Register(ctx, "not-an-email", testPassword)

		var vErr *entity.ValidationError
		suite.ErrorAs(err, &vErr)
		suite.Equal("email", vErr.Field)
		suite.Nil(user)
		suite.Empty(tok)
	})

	suite.Run("weak password", func() {
		for _, p := range []string{"", "short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
			user, tok, err := suite.uc.Register(ctx, testEmail, p)

			var vErr *entity.ValidationError
			suite.ErrorAs(err, &vErr)
			suite.Equal("password", vErr.Field)
			suite.Nil(user)
			suite.Empty(tok)
		}
	})

	suite.Run("email taken", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(&entity.User{ID: testUserID, Email: testEmail}, nil)

		user, tok, err := suite.uc.Register(ctx, testEmail, testPassword)

		suite.ErrorIs(err, entity.ErrEmailTaken)
		suite.Nil(user)
		suite.Empty(tok)
		suite.userRepoMock.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
	})

	suite.Run("lookup error", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(nil, suite.errUnknown)

		user, tok, err := suite.uc.Register(ctx, testEmail, testPassword)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(user)
		suite.Empty(tok)
	})

	suite.Run("email taken on save", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(nil, entity.ErrUserNotFound)
		suite.userRepoMock.
			On("Save", ctx, mock.Anything).
			Once().
			Return(nil, entity.ErrEmailTaken)

		user, tok, err := suite.uc.Register(ctx, testEmail, testPassword)

		suite.ErrorIs(err, entity.ErrEmailTaken)
		suite.Nil(user)
		suite.Empty(tok)
	})

	suite.Run("token error", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(nil, entity.ErrUserNotFound)
		suite.userRepoMock.
			On("Save", ctx, mock.Anything).
			Once().
			Return(&entity.User{ID: testUserID, Email: testEmail}, nil)
		suite.tokensMock.
			On("Issue", testUserID).
			Once().
			Return("", suite.errUnknown)

		user, tok, err := suite.uc.Register(ctx, testEmail, testPassword)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(user)
		suite.Empty(tok)
	})

	suite.Run("success", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(nil, entity.ErrUserNotFound)
		suite.userRepoMock.
			On("Save", ctx, mock.MatchedBy(func(u *entity.User) bool {
				return u.Email == testEmail &&
					isID(u.ID) &&
					u.PasswordHash != testPassword &&
					password.Verify(testPassword, u.PasswordHash) == nil
			})).
			Once().
			Return(&entity.User{ID: testUserID, Email: testEmail}, nil)
		suite.tokensMock.
			On("Issue", testUserID).
			Once().
			Return(testToken, nil)

		user, tok, err := suite.uc.Register(ctx, "  "+testEmail+" ", testPassword)

		suite.NoError(err)
		suite.Equal(testUserID, user.ID)
		suite.Equal(testEmail, user.Email)
		suite.Equal(testToken, tok)
	})
}

func (suite *AuthUseCaseTestSuite) TestLogin() {
	ctx := context.Background()

	suite.Run("unknown email", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(nil, entity.ErrUserNotFound)

		user, tok, err := suite.uc.Login(ctx, testEmail, testPassword)

		suite.ErrorIs(err, entity.ErrInvalidCredentials)
		suite.Nil(user)
		suite.Empty(tok)
	})

	suite.Run("wrong password", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(&entity.User{ID: testUserID, Email: testEmail, PasswordHash: suite.passwordHash}, nil)

		user, tok, err := suite.uc.Login(ctx, testEmail, "Wrong1234")

		suite.ErrorIs(err, entity.ErrInvalidCredentials)
		suite.Nil(user)
		suite.Empty(tok)
	})

	suite.Run("lookup error", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(nil, suite.errUnknown)

		user, tok, err := suite.uc.Login(ctx, testEmail, testPassword)

		suite.ErrorIs(err, suite.errUnknown)
		suite.NotErrorIs(err, entity.ErrInvalidCredentials)
		suite.Nil(user)
		suite.Empty(tok)
	})

	suite.Run("success", func() {
		suite.userRepoMock.
			On("RetrieveByEmail", ctx, testEmail).
			Once().
			Return(&entity.User{ID: testUserID, Email: testEmail, PasswordHash: suite.passwordHash}, nil)
		suite.tokensMock.
			On("Issue", testUserID).
			Once().
			Return(testToken, nil)

		user, tok, err := suite.uc.Login(ctx, testEmail, testPassword)

		suite.NoError(err)
		suite.Equal(testUserID, user.ID)
		suite.Equal(testToken, tok)
	})
}

func (suite *AuthUseCaseTestSuite) TestAuthenticate() {
	ctx := context.Background()

	suite.Run("invalid token", func() {
		suite.tokensMock.
			On("Verify", "garbage").
			Once().
			Return("", suite.errUnknown)

		userID, err := suite.uc.Authenticate(ctx, "garbage")

		suite.ErrorIs(err, entity.ErrInvalidToken)
		suite.Empty(userID)
	})

	suite.Run("success", func() {
		suite.tokensMock.
			On("Verify", testToken).
			Once().
			Return(testUserID, nil)

		userID, err := suite.uc.Authenticate(ctx, testToken)

		suite.NoError(err)
		suite.Equal(testUserID, userID)
	})
}

func TestAuthUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUseCaseTestSuite))
}
