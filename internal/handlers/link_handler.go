package handlers

import (
	"errors"
	"log"

	"shortly/internal/middleware"
	"shortly/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// LinkHandler handles HTTP requests for short links.
type LinkHandler struct {
	links    *services.LinkService
	validate *validator.Validate
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(links *services.LinkService) *LinkHandler {
	return &LinkHandler{
		links:    links,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the link routes with the Fiber app.
// The catch-all resolver must come last so it cannot shadow the
// fixed paths.
func (h *LinkHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/shorten", middleware.AuthRequired(), h.HandleShorten)
	router.Get("/codes", middleware.AuthRequired(), h.HandleListCodes)
	router.Delete("/:id", middleware.AuthRequired(), h.HandleDelete)
	router.Get("/:shortCode", h.HandleResolve)
}

// ShortenRequest represents the request body for creating a short link.
type ShortenRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Code string `json:"code" validate:"omitempty,max=30"`
}

// HandleShorten creates a short link owned by the caller.
func (h *LinkHandler) HandleShorten(c *fiber.Ctx) error {
	var req ShortenRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing shorten request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessages(err),
		})
	}

	link, err := h.links.Create(middleware.UserID(c), req.URL, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrCodeTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Short code already exists",
			})
		}
		log.Printf("Error creating short link: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create short URL",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        link.ID,
		"shortCode": link.ShortCode,
		"targetURL": link.TargetURL,
	})
}

// HandleListCodes returns every link owned by the caller.
func (h *LinkHandler) HandleListCodes(c *fiber.Ctx) error {
	links, err := h.links.ListOwned(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing links: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve codes",
		})
	}

	return c.JSON(fiber.Map{"codes": links})
}

// HandleDelete removes a link owned by the caller. A link owned by
// someone else is reported as not found.
func (h *LinkHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")

	deletedID, err := h.links.Delete(middleware.UserID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "URL not found",
			})
		}
		log.Printf("Error deleting link %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete URL",
		})
	}

	return c.JSON(fiber.Map{"deleted": true, "id": deletedID})
}

// HandleResolve redirects a short code to its target URL. Public.
func (h *LinkHandler) HandleResolve(c *fiber.Ctx) error {
	code := c.Params("shortCode")

	link, err := h.links.Resolve(code)
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Invalid URL",
			})
		}
		log.Printf("Error resolving code %s: %v", code, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not resolve URL",
		})
	}

	return c.Redirect(link.TargetURL, fiber.StatusFound)
}
