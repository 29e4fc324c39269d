package repositories

import "shortly/internal/models"

// LinkRepository defines the interface for short-link data access.
type LinkRepository interface {
	Create(link *models.Link) error
	GetByCode(code string) (*models.Link, error)
	GetAllByOwner(ownerID string) ([]models.Link, error)
	// DeleteByIDAndOwner removes a link only when both id and owner match,
	// so a wrong owner is indistinguishable from a missing link.
	DeleteByIDAndOwner(id, ownerID string) error
	DeleteByOwner(ownerID string) error
}
