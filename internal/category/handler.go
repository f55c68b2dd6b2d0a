package category

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	return &Handler{service: s, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/categories", h.getCategories)
	app.Get("/api/v1/categories/:id", h.getCategory)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/categories", h.createCategory)
	app.Put("/api/v1/categories/:id", h.updateCategory)
	app.Delete("/api/v1/categories/:id", h.deleteCategory)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	// ?active=true hides categories explicitly switched off
	if c.QueryBool("active", false) {
		active := make([]Category, 0, len(items))
		for _, it := range items {
			if it.Active() {
				active = append(active, it)
			}
		}
		items = active
	}
	return c.JSON(items)
}

func (h *Handler) getCategory(c *fiber.Ctx) error {
	item, err := h.service.GetByID(c.UserContext(), utils.CopyString(c.Params("id")))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(item)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	payload := new(Category)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	created, err := h.service.Create(c.UserContext(), *payload)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	payload := new(Category)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	updated, err := h.service.Update(c.UserContext(), utils.CopyString(c.Params("id")), *payload)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), utils.CopyString(c.Params("id"))); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNameRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"name": err.Error()}})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Category not found"})
	case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrDuplicateID):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		h.log.Error("category request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
