package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/menu-dashboard/internal/category"
	"github.com/wichananm65/menu-dashboard/internal/layout"
	"github.com/wichananm65/menu-dashboard/internal/menu"
)

type MenuLister interface {
	List(ctx context.Context, f menu.Filter) ([]menu.MenuItem, error)
}

type CategoryLister interface {
	List(ctx context.Context) ([]category.Category, error)
}

// Section is one category block of the dashboard.
type Section struct {
	Name   string
	Active bool
	Items  []menu.MenuItem
}

type Handler struct {
	items      MenuLister
	categories CategoryLister
	log        *zap.Logger
}

func NewHandler(items MenuLister, categories CategoryLister, log *zap.Logger) *Handler {
	return &Handler{items: items, categories: categories, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/dashboard", h.getDashboard)
}

var sectionsTmpl = template.Must(template.New("sections").Funcs(template.FuncMap{
	"price": formatPrice,
	"on":    func(b *bool) bool { return b != nil && *b },
}).Parse(`<main class="dashboard">
<h1>Menu</h1>
{{- range .}}
<section class="category{{if not .Active}} inactive{{end}}">
<h2>{{.Name}} <small>({{len .Items}})</small></h2>
<ul>
{{- range .Items}}
<li class="menu-item{{if not .Available}} unavailable{{end}}">
<span class="name">{{.Name}}</span>
<span class="price">{{price .Price}}</span>
{{- if on .IsVegetarian}} <span class="tag">vegetarian</span>{{end}}
{{- if on .IsSpicy}} <span class="tag">spicy</span>{{end}}
{{- if on .IsBestSeller}} <span class="tag">best seller</span>{{end}}
<p>{{.Description}}</p>
</li>
{{- end}}
</ul>
</section>
{{- else}}
<p class="empty">No menu items yet.</p>
{{- end}}
</main>`))

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// BuildSections groups items by category, keeping category order and
// appending items whose category is not registered under their own name.
func BuildSections(cats []category.Category, items []menu.MenuItem) []Section {
	sections := make([]Section, 0, len(cats))
	index := make(map[string]int, len(cats))
	for _, c := range cats {
		index[strings.ToLower(c.Name)] = len(sections)
		sections = append(sections, Section{Name: c.Name, Active: c.Active()})
	}
	for _, it := range items {
		key := strings.ToLower(it.Category)
		i, ok := index[key]
		if !ok {
			i = len(sections)
			index[key] = i
			sections = append(sections, Section{Name: it.Category, Active: true})
		}
		sections[i].Items = append(sections[i].Items, it)
	}

	out := sections[:0]
	for _, s := range sections {
		if len(s.Items) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (h *Handler) getDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cats, err := h.categories.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	items, err := h.items.List(ctx, menu.Filter{Category: c.Query("category")})
	if err != nil {
		return h.fail(c, err)
	}

	var body bytes.Buffer
	if err := sectionsTmpl.Execute(&body, BuildSections(cats, items)); err != nil {
		return h.fail(c, err)
	}

	var page bytes.Buffer
	if err := layout.Render(&page, layout.Page{Title: "Menu dashboard", Content: template.HTML(body.String())}); err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page.Bytes())
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	h.log.Error("render dashboard", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).SendString("dashboard unavailable")
}
