package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(New())
	ctx := context.Background()

	_, err := repo.RetrieveByEmail(ctx, "test@example.com")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)

	user, err := repo.Save(ctx, &entity.User{ID: "u1", Email: "test@example.com", PasswordHash: "salt:hash"})
	require.NoError(t, err)
	assert.False(t, user.CreatedAt.IsZero())

	_, err = repo.Save(ctx, &entity.User{ID: "u2", Email: "test@example.com"})
	assert.ErrorIs(t, err, entity.ErrEmailTaken)

	got, err := repo.RetrieveByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestLinkRepository(t *testing.T) {
	db := New()
	links := NewLinkRepository(db)
	visits := NewVisitRepository(db)
	ctx := context.Background()

	first, err := links.Save(ctx, &entity.Link{ID: "l1", OriginalURL: "https://example.com", Slug: "abc123", UserID: "u1"})
	require.NoError(t, err)
	second, err := links.Save(ctx, &entity.Link{ID: "l2", OriginalURL: "https://example.org", Slug: "foo", CustomSlug: "foo", UserID: "u1"})
	require.NoError(t, err)

	t.Run("slug collisions", func(t *testing.T) {
		_, err := links.Save(ctx, &entity.Link{ID: "l3", Slug: "abc123"})
		assert.ErrorIs(t, err, entity.ErrSlugTaken)

		exists, err := links.SlugExists(ctx, "foo", "")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = links.SlugExists(ctx, "foo", second.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("resolve counts visits", func(t *testing.T) {
		got, err := links.RetrieveAndCountVisit(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.VisitCount)

		_, err = links.RetrieveAndCountVisit(ctx, "missing")
		assert.ErrorIs(t, err, entity.ErrLinkNotFound)
	})

	t.Run("ownership", func(t *testing.T) {
		_, err := links.RetrieveByOwner(ctx, first.ID, "u2")
		assert.ErrorIs(t, err, entity.ErrLinkNotFound)

		_, err = links.UpdateCustomSlug(ctx, first.ID, "u2", "bar")
		assert.ErrorIs(t, err, entity.ErrLinkNotFound)

		err = links.Remove(ctx, first.ID, "u2")
		assert.ErrorIs(t, err, entity.ErrLinkNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		got, err := links.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	})

	t.Run("remove cascades visits", func(t *testing.T) {
		_, err := visits.Save(ctx, &entity.Visit{ID: "v1", LinkID: first.ID, IP: "127.0.0.1"})
		require.NoError(t, err)
		_, err = visits.Save(ctx, &entity.Visit{ID: "v2", LinkID: second.ID})
		require.NoError(t, err)

		require.NoError(t, links.Remove(ctx, first.ID, "u1"))

		assert.Zero(t, visits.countVisits(first.ID))
		assert.Equal(t, 1, visits.countVisits(second.ID))

		owned, err := visits.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, "v2", owned[0].ID)
	})
}
