package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const (
	testUserID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testEmail  = "jane@example.com"
	testHash   = "00112233445566778899aabbccddeeff:abcdef"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	errUnknown error
	columns    []string
	mock       sqlmock.Sqlmock
	repo       *UserRepository
}

func (suite *UserRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.columns = []string{"id", "email", "password_hash", "created_at"}
}

func (suite *UserRepositoryTestSuite) SetupSubTest() {
	db, mock := newMockDB(suite.T())
	suite.mock = mock
	suite.repo = NewUserRepository(db)
}

func (suite *UserRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *UserRepositoryTestSuite) TestSave() {
	user := &entity.User{ID: testUserID, Email: testEmail, PasswordHash: testHash}

	suite.Run("email taken", func() {
		suite.mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(testUserID, testEmail, testHash).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		u, err := suite.repo.Save(context.Background(), user)

		suite.ErrorIs(err, entity.ErrEmailTaken)
		suite.Nil(u)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(testUserID, testEmail, testHash).
			WillReturnError(suite.errUnknown)

		u, err := suite.repo.Save(context.Background(), user)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(u)
	})

	suite.Run("success", func() {
		createdAt := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(suite.columns).
			AddRow(testUserID, testEmail, testHash, createdAt)

		suite.mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(testUserID, testEmail, testHash).
			WillReturnRows(rows)

		u, err := suite.repo.Save(context.Background(), user)

		suite.NoError(err)
		suite.Equal(testUserID, u.ID)
		suite.Equal(testEmail, u.Email)
		suite.Equal(testHash, u.PasswordHash)
		suite.Equal(createdAt, u.CreatedAt)
	})
}

func (suite *UserRepositoryTestSuite) TestRetrieveByEmail() {
	suite.Run("user not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(testEmail).
			WillReturnError(sql.ErrNoRows)

		u, err := suite.repo.RetrieveByEmail(context.Background(), testEmail)

		suite.ErrorIs(err, entity.ErrUserNotFound)
		suite.Nil(u)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(testEmail).
			WillReturnError(suite.errUnknown)

		u, err := suite.repo.RetrieveByEmail(context.Background(), testEmail)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(u)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(testUserID, testEmail, testHash, time.Time{})

		suite.mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(testEmail).
			WillReturnRows(rows)

		u, err := suite.repo.RetrieveByEmail(context.Background(), testEmail)

		suite.NoError(err)
		suite.Equal(testUserID, u.ID)
		suite.Equal(testHash, u.PasswordHash)
	})
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
