package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"

	"shortly/internal/models"
	"shortly/internal/repositories"
	"shortly/pkg/rabbitmq"
)

// codeAlphabet is the URL-safe alphabet used for generated short codes.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// codeLength is the length of a generated short code.
const codeLength = 6

// LinkService handles business logic for short links.
type LinkService struct {
	linkRepo repositories.LinkRepository
	mqClient *rabbitmq.Client
}

// NewLinkService creates a new LinkService. The RabbitMQ client may be
// nil, in which case link events are not published.
func NewLinkService(linkRepo repositories.LinkRepository, mqClient *rabbitmq.Client) *LinkService {
	return &LinkService{
		linkRepo: linkRepo,
		mqClient: mqClient,
	}
}

// Create persists a new short link owned by ownerID. When code is
// empty a random one is generated. A code already in use yields
// ErrCodeTaken; a generator collision is reported the same way rather
// than silently retried.
func (s *LinkService) Create(ownerID, targetURL, code string) (*models.Link, error) {
	if code == "" {
		generated, err := generateShortCode(codeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}
		code = generated
	}

	link := &models.Link{
		ShortCode: code,
		TargetURL: targetURL,
		UserID:    ownerID,
	}
	if err := s.linkRepo.Create(link); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("code '%s': %w", code, ErrCodeTaken)
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	s.publishEvent("link.created", map[string]interface{}{
		"linkId":    link.ID,
		"shortCode": link.ShortCode,
		"userId":    link.UserID,
	})
	return link, nil
}

// ListOwned returns every link owned by the caller.
func (s *LinkService) ListOwned(ownerID string) ([]models.Link, error) {
	return s.linkRepo.GetAllByOwner(ownerID)
}

// Delete removes a link owned by the caller and returns the deleted id.
// A link owned by someone else yields ErrLinkNotFound, identical to a
// link that does not exist.
func (s *LinkService) Delete(ownerID, id string) (string, error) {
	if err := s.linkRepo.DeleteByIDAndOwner(id, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrLinkNotFound
		}
		return "", fmt.Errorf("failed to delete link: %w", err)
	}
	return id, nil
}

// Resolve looks up a short code and returns the link it maps to.
func (s *LinkService) Resolve(code string) (*models.Link, error) {
	link, err := s.linkRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to resolve code %s: %w", code, err)
	}

	s.publishEvent("link.resolved", map[string]interface{}{
		"linkId":    link.ID,
		"shortCode": link.ShortCode,
	})
	return link, nil
}

// publishEvent sends a link lifecycle event. Publish failures are
// logged, never surfaced to the caller.
func (s *LinkService) publishEvent(kind string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(kind, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", kind, err)
	}
}

// generateShortCode draws n characters from the URL-safe alphabet using
// crypto/rand.
func generateShortCode(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	code := make([]byte, n)
	for i, b := range raw {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code), nil
}
