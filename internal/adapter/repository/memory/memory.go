// Package memory provides in-process implementations of the repositories.
// They back local runs configured with the memory storage and the use case
// tests. Data is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

// DB is the shared state of the in-memory repositories.
type DB struct {
	mu     sync.RWMutex
	now    func() time.Time
	seq    uint64
	order  map[string]uint64 // insertion order of links and visits
	users  map[string]entity.User
	links  map[string]entity.Link
	visits map[string]entity.Visit
}

// New creates an empty DB.
func New() *DB {
	return &DB{
		now:    time.Now,
		order:  make(map[string]uint64),
		users:  make(map[string]entity.User),
		links:  make(map[string]entity.Link),
		visits: make(map[string]entity.Visit),
	}
}

// UserRepository stores users in a DB.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(_ context.Context, user *entity.User) (*entity.User, error) {
	const op = "adapter.repository.memory.UserRepository.Save"

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrEmailTaken)
		}
	}

	u := *user
	u.CreatedAt = r.db.now()
	r.db.users[u.ID] = u

	return &u, nil
}

func (r *UserRepository) RetrieveByEmail(_ context.Context, email string) (*entity.User, error) {
	const op = "adapter.repository.memory.UserRepository.RetrieveByEmail"

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
}

// LinkRepository stores links in a DB.
type LinkRepository struct {
	db *DB
}

func NewLinkRepository(db *DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// remember must be called with the write lock held.
func (db *DB) remember(id string) {
	db.seq++
	db.order[id] = db.seq
}

// slugInUse must be called with the lock held.
func (db *DB) slugInUse(slug, excludeID string) bool {
	for id, l := range db.links {
		if id == excludeID {
			continue
		}
		if l.Slug == slug || (l.CustomSlug != "" && l.CustomSlug == slug) {
			return true
		}
	}
	return false
}

func (r *LinkRepository) Save(_ context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.Save"

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.slugInUse(link.Slug, "") || (link.CustomSlug != "" && r.db.slugInUse(link.CustomSlug, "")) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrSlugTaken)
	}

	l := *link
	l.VisitCount = 0
	l.Visits = nil
	l.CreatedAt = r.db.now()
	l.UpdatedAt = l.CreatedAt
	r.db.links[l.ID] = l
	r.db.remember(l.ID)

	return &l, nil
}

func (r *LinkRepository) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.db.slugInUse(slug, excludeID), nil
}

func (r *LinkRepository) RetrieveAndCountVisit(_ context.Context, slug string) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.RetrieveAndCountVisit"

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for id, l := range r.db.links {
		if l.Slug == slug || (l.CustomSlug != "" && l.CustomSlug == slug) {
			l.VisitCount++
			r.db.links[id] = l
			return &l, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
}

func (r *LinkRepository) RetrieveByOwner(_ context.Context, id, userID string) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.RetrieveByOwner"

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	l, ok := r.db.links[id]
	if !ok || l.UserID == "" || l.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return &l, nil
}

func (r *LinkRepository) ListByOwner(_ context.Context, userID string) ([]*entity.Link, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	links := make([]*entity.Link, 0)
	for _, l := range r.db.links {
		if l.UserID != "" && l.UserID == userID {
			l := l
			links = append(links, &l)
		}
	}

	sort.Slice(links, func(i, j int) bool {
		return r.db.order[links[i].ID] > r.db.order[links[j].ID]
	})

	return links, nil
}

func (r *LinkRepository) UpdateCustomSlug(_ context.Context, id, userID, customSlug string) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.UpdateCustomSlug"

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.links[id]
	if !ok || l.UserID == "" || l.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	if r.db.slugInUse(customSlug, id) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrSlugTaken)
	}

	l.CustomSlug = customSlug
	l.UpdatedAt = r.db.now()
	r.db.links[id] = l

	return &l, nil
}

// Remove deletes the link and its visits under a single lock.
func (r *LinkRepository) Remove(_ context.Context, id, userID string) error {
	const op = "adapter.repository.memory.LinkRepository.Remove"

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.links[id]
	if !ok || l.UserID == "" || l.UserID != userID {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	for visitID, v := range r.db.visits {
		if v.LinkID == id {
			delete(r.db.visits, visitID)
			delete(r.db.order, visitID)
		}
	}
	delete(r.db.links, id)
	delete(r.db.order, id)

	return nil
}

// VisitRepository stores visits in a DB.
type VisitRepository struct {
	db *DB
}

func NewVisitRepository(db *DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func (r *VisitRepository) Save(_ context.Context, visit *entity.Visit) (*entity.Visit, error) {
	const op = "adapter.repository.memory.VisitRepository.Save"

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.links[visit.LinkID]; !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	v := *visit
	v.VisitedAt = r.db.now()
	r.db.visits[v.ID] = v
	r.db.remember(v.ID)

	return &v, nil
}

func (r *VisitRepository) ListByOwner(_ context.Context, userID string) ([]entity.Visit, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	visits := make([]entity.Visit, 0)
	for _, v := range r.db.visits {
		if l, ok := r.db.links[v.LinkID]; ok && l.UserID != "" && l.UserID == userID {
			visits = append(visits, v)
		}
	}

	sort.Slice(visits, func(i, j int) bool {
		return r.db.order[visits[i].ID] > r.db.order[visits[j].ID]
	})

	return visits, nil
}

// countVisits returns the number of visits stored for linkID.
func (r *VisitRepository) countVisits(linkID string) int {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, v := range r.db.visits {
		if v.LinkID == linkID {
			n++
		}
	}
	return n
}
