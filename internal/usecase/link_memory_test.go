package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const (
	ownerID   = "9b2f8f40-1b7d-4a55-a1f4-4c1e4e7d2f01"
	strangeID = "1a6e4c3e-88b5-4b8c-9d0d-52f0d7c7a2aa"
)

func newMemoryLinkUseCase() (*LinkUseCase, *memory.VisitRepository) {
	db := memory.New()
	visitRepo := memory.NewVisitRepository(db)
	return NewLinkUseCase(memory.NewLinkRepository(db), visitRepo, testBaseURL, 6), visitRepo
}

func TestLinkUseCase_GeneratedSlugs(t *testing.T) {
	uc, _ := newMemoryLinkUseCase()
	ctx := context.Background()
	seen := make(map[string]struct{})

	for i := 0; i < 200; i++ {
		link, err := uc.ShortenURL(ctx, ShortenInput{OriginalURL: "https://example.com"})
		require.NoError(t, err)

		assert.Regexp(t, generatedSlugRegexp, link.Slug)
		assert.Equal(t, testBaseURL+"/"+link.Slug, link.ShortURL)
		assert.Zero(t, link.VisitCount)

		_, dup := seen[link.Slug]
		assert.False(t, dup, "slug %q allocated twice", link.Slug)
		seen[link.Slug] = struct{}{}
	}
}

func TestLinkUseCase_CustomSlugConflict(t *testing.T) {
	uc, _ := newMemoryLinkUseCase()
	ctx := context.Background()

	first, err := uc.ShortenURL(ctx, ShortenInput{OriginalURL: "https://a.example", CustomSlug: "foo", UserID: ownerID})
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/foo", first.ShortURL)

	_, err = uc.ShortenURL(ctx, ShortenInput{OriginalURL: "https://b.example", CustomSlug: "foo", UserID: ownerID})
	assert.ErrorIs(t, err, entity.ErrSlugTaken)

	second, err := uc.ShortenURL(ctx, ShortenInput{OriginalURL: "https://b.example", UserID: ownerID})
	require.NoError(t, err)

	_, err = uc.ModifyCustomSlug(ctx, second.ID, ownerID, "foo")
	assert.ErrorIs(t, err, entity.ErrSlugTaken)

	// A generated slug is taken as well.
	_, err = uc.ModifyCustomSlug(ctx, first.ID, ownerID, second.Slug)
	assert.ErrorIs(t, err, entity.ErrSlugTaken)

	links, err := uc.ListLinks(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, second.ID, links[0].ID)
	assert.Empty(t, links[0].CustomSlug)
	assert.Equal(t, "foo", links[1].CustomSlug)

	// Re-applying a link's own slug is not a conflict.
	updated, err := uc.ModifyCustomSlug(ctx, first.ID, ownerID, "foo")
	require.NoError(t, err)
	assert.Equal(t, "foo", updated.CustomSlug)
}

func TestLinkUseCase_ResolveCountsVisits(t *testing.T) {
	uc, visitRepo := newMemoryLinkUseCase()
	ctx := context.Background()

	created, err := uc.ShortenURL(ctx, ShortenInput{OriginalURL: "https://example.com", UserID: ownerID})
	require.NoError(t, err)

	updated, err := uc.ModifyCustomSlug(ctx, created.ID, ownerID, "abc123")
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/abc123", updated.ShortURL)

	for i, slug := range []string{created.Slug, "abc123", "abc123"} {
		link, err := uc.ResolveSlug(ctx, slug)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", link.OriginalURL)
		assert.Equal(t, int64(i+1), link.VisitCount)

		require.NoError(t, uc.RecordVisit(ctx, link.ID, "10.0.0.1", "curl/8.0"))
	}
	visits, err := visitRepo.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, visits, 3)

	_, err = uc.ResolveSlug(ctx, "doesnotexist")
	assert.ErrorIs(t, err, entity.ErrLinkNotFound)

	links, err := uc.ListLinks(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, int64(3), links[0].VisitCount)
	assert.Len(t, links[0].Visits, 3)
}

func TestLinkUseCase_Ownership(t *testing.T) {
	uc, visitRepo := newMemoryLinkUseCase()
	ctx := context.Background()

	link, err := uc.ShortenURL(ctx, ShortenInput{OriginalURL: "https://example.com", UserID: ownerID})
	require.NoError(t, err)

	anonymous, err := uc.ShortenURL(ctx, ShortenInput{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	_, err = uc.ResolveSlug(ctx, link.Slug)
	require.NoError(t, err)
	require.NoError(t, uc.RecordVisit(ctx, link.ID, "", ""))

	_, err = uc.GetLink(ctx, link.ID, strangeID)
	assert.ErrorIs(t, err, entity.ErrLinkNotFound)

	_, err = uc.ModifyCustomSlug(ctx, link.ID, strangeID, "stolen")
	assert.ErrorIs(t, err, entity.ErrLinkNotFound)

	assert.ErrorIs(t, uc.DeleteLink(ctx, link.ID, strangeID), entity.ErrLinkNotFound)
	assert.ErrorIs(t, uc.DeleteLink(ctx, anonymous.ID, strangeID), entity.ErrLinkNotFound)

	links, err := uc.ListLinks(ctx, strangeID)
	require.NoError(t, err)
	assert.Empty(t, links)

	visits, err := visitRepo.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, visits, 1)

	require.NoError(t, uc.DeleteLink(ctx, link.ID, ownerID))

	visits, err = visitRepo.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, visits)

	_, err = uc.ResolveSlug(ctx, link.Slug)
	assert.ErrorIs(t, err, entity.ErrLinkNotFound)

	assert.ErrorIs(t, uc.DeleteLink(ctx, link.ID, ownerID), entity.ErrLinkNotFound)
}
