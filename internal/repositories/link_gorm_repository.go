package repositories

import (
	"errors"
	"fmt"

	"shortly/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMLinkRepository is a GORM implementation of LinkRepository.
type GORMLinkRepository struct {
	db *gorm.DB
}

// NewGORMLinkRepository creates a new instance of GORMLinkRepository.
func NewGORMLinkRepository(db *gorm.DB) *GORMLinkRepository {
	return &GORMLinkRepository{
		db: db,
	}
}

// Create inserts a new link, generating an id when none is set.
func (r *GORMLinkRepository) Create(link *models.Link) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if err := r.db.Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("link with code %s: %w", link.ShortCode, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

// GetByCode retrieves a link by its short code.
func (r *GORMLinkRepository) GetByCode(code string) (*models.Link, error) {
	var link models.Link
	if err := r.db.First(&link, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("link with code %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get link by code %s: %w", code, err)
	}
	return &link, nil
}

// GetAllByOwner retrieves every link owned by the given user.
func (r *GORMLinkRepository) GetAllByOwner(ownerID string) ([]models.Link, error) {
	var links []models.Link
	if err := r.db.Find(&links, "user_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get links for owner %s: %w", ownerID, err)
	}
	return links, nil
}

// DeleteByIDAndOwner removes a link only when id and owner both match.
func (r *GORMLinkRepository) DeleteByIDAndOwner(id, ownerID string) error {
	res := r.db.Delete(&models.Link{}, "id = ? AND user_id = ?", id, ownerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete link: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("link with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByOwner removes every link owned by the given user. Deleting
// nothing is not an error.
func (r *GORMLinkRepository) DeleteByOwner(ownerID string) error {
	if err := r.db.Delete(&models.Link{}, "user_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to delete links for owner %s: %w", ownerID, err)
	}
	return nil
}
