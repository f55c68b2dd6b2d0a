package menu

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

type availabilityRequest struct {
	IDs       []string `json:"ids"`
	Available *bool    `json:"available"`
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterPublicRoutes registers read-only routes. best-sellers is registered
// before :id so the literal path wins.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/menu", h.getMenuItems)
	app.Get("/api/v1/menu/best-sellers", h.getBestSellers)
	app.Get("/api/v1/menu/:id", h.getMenuItem)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/menu", h.createMenuItem)
	app.Patch("/api/v1/menu/availability", h.setAvailability)
	app.Put("/api/v1/menu/:id", h.updateMenuItem)
	app.Delete("/api/v1/menu/:id", h.deleteMenuItem)
}

func parseBoolQuery(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New(key + " must be true or false")
	}
	return &v, nil
}

// idParam copies :id out of the request buffer Fiber reuses.
func idParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func parseLimit(c *fiber.Ctx, fallback int) (int, error) {
	l := c.Query("limit")
	if l == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(l)
	if err != nil || v < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return v, nil
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	f := Filter{Category: c.Query("category")}
	var err error
	if f.Available, err = parseBoolQuery(c, "available"); err != nil {
		return f, err
	}
	if f.Vegetarian, err = parseBoolQuery(c, "vegetarian"); err != nil {
		return f, err
	}
	if f.Spicy, err = parseBoolQuery(c, "spicy"); err != nil {
		return f, err
	}
	if f.BestSeller, err = parseBoolQuery(c, "bestSeller"); err != nil {
		return f, err
	}
	if f.Limit, err = parseLimit(c, 0); err != nil {
		return f, err
	}
	return f, nil
}

func (h *Handler) getMenuItems(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	items, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(items)
}

func (h *Handler) getBestSellers(c *fiber.Ctx) error {
	limit, err := parseLimit(c, 10)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	items, err := h.service.BestSellers(c.UserContext(), limit)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(items)
}

func (h *Handler) getMenuItem(c *fiber.Ctx) error {
	m, err := h.service.GetByID(c.UserContext(), idParam(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(m)
}

func (h *Handler) createMenuItem(c *fiber.Ctx) error {
	m := new(MenuItem)
	if err := c.BodyParser(m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	created, err := h.service.Create(c.UserContext(), *m)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateMenuItem(c *fiber.Ctx) error {
	m := new(MenuItem)
	if err := c.BodyParser(m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	updated, err := h.service.Update(c.UserContext(), idParam(c), *m)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteMenuItem(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), idParam(c)); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) setAvailability(c *fiber.Ctx) error {
	req := new(availabilityRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if req.Available == nil || len(req.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "ids and available are required"})
	}
	n, err := h.service.SetAvailability(c.UserContext(), req.IDs, *req.Available)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Menu item not found"})
	case errors.Is(err, ErrDuplicateID):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		h.log.Error("menu request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
