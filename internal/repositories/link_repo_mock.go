package repositories

import (
	"fmt"
	"sync"

	"shortly/internal/models"

	"github.com/google/uuid"
)

// MockLinkRepository is an in-memory implementation of LinkRepository.
type MockLinkRepository struct {
	links map[string]models.Link
	mu    sync.RWMutex
}

// NewMockLinkRepository creates a new instance of MockLinkRepository.
func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		links: make(map[string]models.Link),
	}
}

// Create adds a new link, rejecting duplicate short codes.
func (r *MockLinkRepository) Create(link *models.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.links {
		if l.ShortCode == link.ShortCode {
			return fmt.Errorf("link with code %s: %w", link.ShortCode, ErrDuplicateKey)
		}
	}
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	r.links[link.ID] = *link
	return nil
}

// GetByCode returns the link with the given short code.
func (r *MockLinkRepository) GetByCode(code string) (*models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.links {
		if l.ShortCode == code {
			link := l
			return &link, nil
		}
	}
	return nil, fmt.Errorf("link with code %s: %w", code, ErrNotFound)
}

// GetAllByOwner returns every link owned by the given user.
func (r *MockLinkRepository) GetAllByOwner(ownerID string) ([]models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]models.Link, 0)
	for _, l := range r.links {
		if l.UserID == ownerID {
			links = append(links, l)
		}
	}
	return links, nil
}

// DeleteByIDAndOwner removes a link only when id and owner both match.
func (r *MockLinkRepository) DeleteByIDAndOwner(id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[id]
	if !ok || link.UserID != ownerID {
		return fmt.Errorf("link with ID %s: %w", id, ErrNotFound)
	}
	delete(r.links, id)
	return nil
}

// DeleteByOwner removes every link owned by the given user.
func (r *MockLinkRepository) DeleteByOwner(ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.links {
		if l.UserID == ownerID {
			delete(r.links, id)
		}
	}
	return nil
}
