package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/shortlink/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrMaxRetriesExceeded is returned when every generated slug collided with an existing one.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating slug")

const maxSlugRetries = 5

type linkRepository interface {
	Save(ctx context.Context, link *entity.Link) (*entity.Link, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	RetrieveAndCountVisit(ctx context.Context, slug string) (*entity.Link, error)
	RetrieveByOwner(ctx context.Context, id, userID string) (*entity.Link, error)
	ListByOwner(ctx context.Context, userID string) ([]*entity.Link, error)
	UpdateCustomSlug(ctx context.Context, id, userID, customSlug string) (*entity.Link, error)
	Remove(ctx context.Context, id, userID string) error
}

type visitRepository interface {
	Save(ctx context.Context, visit *entity.Visit) (*entity.Visit, error)
	ListByOwner(ctx context.Context, userID string) ([]entity.Visit, error)
}

// ShortenInput holds the parameters of a short link request.
type ShortenInput struct {
	OriginalURL string
	CustomSlug  string // optional
	UserID      string // optional, empty for anonymous links
}

// LinkUseCase allocates, resolves and manages short links.
type LinkUseCase struct {
	linkRepo   linkRepository
	visitRepo  visitRepository
	baseURL    string
	slugLength int
	validate   *validator.Validate
}

// NewLinkUseCase creates a LinkUseCase building short URLs on top of baseURL
// with generated slugs of slugLength characters.
func NewLinkUseCase(linkRepo linkRepository, visitRepo visitRepository, baseURL string, slugLength int) *LinkUseCase {
	return &LinkUseCase{
		linkRepo:   linkRepo,
		visitRepo:  visitRepo,
		baseURL:    strings.TrimRight(baseURL, "/"),
		slugLength: slugLength,
		validate:   newValidate(),
	}
}

// ShortenURL persists a new link for the input URL. A custom slug is used as
// is and fails with entity.ErrSlugTaken when another link already uses it;
// otherwise a random slug is generated.
func (uc *LinkUseCase) ShortenURL(ctx context.Context, in ShortenInput) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ShortenURL"

	if err := checkVar(uc.validate, "url", in.OriginalURL, "required,http_url"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if in.CustomSlug != "" {
		link, err := uc.shortenWithCustomSlug(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return uc.withShortURL(link), nil
	}

	for i := 0; i < maxSlugRetries; i++ {
		slug, err := gonanoid.New(uc.slugLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate slug: %w", op, err)
		}

		link, err := uc.linkRepo.Save(ctx, &entity.Link{
			ID:          uuid.NewString(),
			OriginalURL: in.OriginalURL,
			Slug:        slug,
			UserID:      in.UserID,
		})
		if err != nil {
			if errors.Is(err, entity.ErrSlugTaken) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to save link: %w", op, err)
		}

		return uc.withShortURL(link), nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

func (uc *LinkUseCase) shortenWithCustomSlug(ctx context.Context, in ShortenInput) (*entity.Link, error) {
	if err := checkVar(uc.validate, "customSlug", in.CustomSlug, "slug,unreserved"); err != nil {
		return nil, err
	}

	exists, err := uc.linkRepo.SlugExists(ctx, in.CustomSlug, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return nil, entity.ErrSlugTaken
	}

	link, err := uc.linkRepo.Save(ctx, &entity.Link{
		ID:          uuid.NewString(),
		OriginalURL: in.OriginalURL,
		Slug:        in.CustomSlug,
		CustomSlug:  in.CustomSlug,
		UserID:      in.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	return link, nil
}

// ResolveSlug returns the link matching slug by its generated or custom slug
// and counts the visit.
func (uc *LinkUseCase) ResolveSlug(ctx context.Context, slug string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ResolveSlug"

	link, err := uc.linkRepo.RetrieveAndCountVisit(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve slug: %w", op, err)
	}

	return uc.withShortURL(link), nil
}

// RecordVisit appends a visit event for the link. ip and userAgent may be empty.
func (uc *LinkUseCase) RecordVisit(ctx context.Context, linkID, ip, userAgent string) error {
	const op = "usecase.LinkUseCase.RecordVisit"

	_, err := uc.visitRepo.Save(ctx, &entity.Visit{
		ID:        uuid.NewString(),
		LinkID:    linkID,
		IP:        ip,
		UserAgent: userAgent,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to record visit: %w", op, err)
	}

	return nil
}

// ListLinks returns the links owned by userID, newest first, with their visits.
func (uc *LinkUseCase) ListLinks(ctx context.Context, userID string) ([]*entity.Link, error) {
	const op = "usecase.LinkUseCase.ListLinks"

	links, err := uc.linkRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	visits, err := uc.visitRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list visits: %w", op, err)
	}

	byLink := make(map[string][]entity.Visit, len(links))
	for _, v := range visits {
		byLink[v.LinkID] = append(byLink[v.LinkID], v)
	}

	for _, link := range links {
		link.Visits = byLink[link.ID]
		uc.withShortURL(link)
	}

	return links, nil
}

// GetLink returns a link owned by userID.
func (uc *LinkUseCase) GetLink(ctx context.Context, id, userID string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.GetLink"

	if !isID(id) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	link, err := uc.linkRepo.RetrieveByOwner(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	return uc.withShortURL(link), nil
}

// ModifyCustomSlug sets a new custom slug on a link owned by userID.
func (uc *LinkUseCase) ModifyCustomSlug(ctx context.Context, id, userID, customSlug string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ModifyCustomSlug"

	if err := checkVar(uc.validate, "customSlug", customSlug, "required,slug,unreserved"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !isID(id) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	exists, err := uc.linkRepo.SlugExists(ctx, customSlug, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check slug: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrSlugTaken)
	}

	link, err := uc.linkRepo.UpdateCustomSlug(ctx, id, userID, customSlug)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to modify link: %w", op, err)
	}

	return uc.withShortURL(link), nil
}

// DeleteLink removes a link owned by userID together with its visits.
func (uc *LinkUseCase) DeleteLink(ctx context.Context, id, userID string) error {
	const op = "usecase.LinkUseCase.DeleteLink"

	if !isID(id) {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	if err := uc.linkRepo.Remove(ctx, id, userID); err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return nil
}

func (uc *LinkUseCase) withShortURL(link *entity.Link) *entity.Link {
	link.ShortURL = uc.baseURL + "/" + link.PublicSlug()
	return link
}

func isID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
