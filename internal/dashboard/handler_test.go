package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/menu-dashboard/internal/category"
	"github.com/wichananm65/menu-dashboard/internal/layout"
	"github.com/wichananm65/menu-dashboard/internal/menu"
)

func yes() *bool { b := true; return &b }

func TestBuildSections(t *testing.T) {
	off := false
	cats := []category.Category{{Name: "Curry"}, {Name: "Seasonal", IsActive: &off}, {Name: "Empty"}}
	items := []menu.MenuItem{
		{ID: "1", Name: "Green Curry", Category: "curry"},
		{ID: "2", Name: "Iced Tea", Category: "Drinks"},
		{ID: "3", Name: "Pumpkin Soup", Category: "Seasonal"},
	}

	sections := BuildSections(cats, items)
	if len(sections) != 3 {
		t.Fatalf("expected 3 non-empty sections, got %+v", sections)
	}
	if sections[0].Name != "Curry" || len(sections[0].Items) != 1 {
		t.Fatalf("curry section wrong: %+v", sections[0])
	}
	if sections[1].Name != "Seasonal" || sections[1].Active {
		t.Fatalf("seasonal section should be inactive: %+v", sections[1])
	}
	if sections[2].Name != "Drinks" {
		t.Fatalf("unregistered category should be appended: %+v", sections[2])
	}
}

func TestDashboardRendersInsideLayout(t *testing.T) {
	at := time.Now()
	menuSvc := menu.NewService(menu.NewInMemoryRepository([]menu.MenuItem{
		{ID: "1", Name: "Pad <Thai>", Description: "Noodles", Price: 8.5, Category: "Noodles", IsBestSeller: yes(), CreatedAt: at, UpdatedAt: at},
	}))
	catSvc := category.NewService(category.NewInMemoryRepository([]category.Category{{ID: "c", Name: "Noodles"}}), menuSvc, time.Minute)

	app := fiber.New()
	NewHandler(menuSvc, catSvc, zap.NewNop()).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/dashboard", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	b, _ := io.ReadAll(res.Body)
	body := string(b)

	if strings.Count(body, `class="`+layout.ContainerClass+`"`) != 1 {
		t.Fatalf("dashboard must be wrapped exactly once:\n%s", body)
	}
	for _, want := range []string{"Pad &lt;Thai&gt;", "8.50", "best seller", "Noodles <small>(1)</small>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body:\n%s", want, body)
		}
	}
}

type failingCategories struct{}

func (failingCategories) List(context.Context) ([]category.Category, error) {
	return nil, errors.New("db down")
}

func TestDashboardReportsFailures(t *testing.T) {
	app := fiber.New()
	NewHandler(menu.NewService(menu.NewInMemoryRepository(nil)), failingCategories{}, zap.NewNop()).RegisterPublicRoutes(app)

	res, _ := app.Test(httptest.NewRequest("GET", "/dashboard", nil))
	if res.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.StatusCode)
	}
}
