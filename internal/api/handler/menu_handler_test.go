package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type stubMenuService struct {
	lastFilter ports.MenuFilter
	lastInput  ports.MenuItemInput
	items      []*domain.MenuItem
}

func (s *stubMenuService) ListMenu(ctx context.Context, filter ports.MenuFilter) ([]*domain.MenuItem, error) {
	s.lastFilter = filter
	return s.items, nil
}

func (s *stubMenuService) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, domain.ErrMenuItemNotFound
}

func (s *stubMenuService) CreateItem(ctx context.Context, in ports.MenuItemInput) (*domain.MenuItem, error) {
	s.lastInput = in
	return &domain.MenuItem{ID: "new", Name: in.Name, Category: in.Category, Price: in.Price, Available: in.Available}, nil
}

func (s *stubMenuService) UpdateItem(ctx context.Context, id string, in ports.MenuItemInput) (*domain.MenuItem, error) {
	s.lastInput = in
	return &domain.MenuItem{ID: id, Name: in.Name, Category: in.Category, Price: in.Price, Available: in.Available}, nil
}

func (s *stubMenuService) DeleteItem(ctx context.Context, id string) error {
	_, err := s.GetItem(ctx, id)
	return err
}

func (s *stubMenuService) ListCategories(ctx context.Context) ([]string, error) {
	return []string{"drinks", "mains"}, nil
}

func TestMenuHandler_List_IncludeUnavailableIsManagerOnly(t *testing.T) {
	svc := &stubMenuService{items: []*domain.MenuItem{{ID: "soda", Name: "Soda", Category: "drinks", Price: dec("2.5"), Available: true}}}
	h := NewMenuHandler(svc)

	c, rec := newContext(http.MethodGet, "/v1/menu?category=drinks&include_unavailable=true", "")
	asActor(c, "emp-1", domain.RoleStaff)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastFilter.IncludeUnavailable || svc.lastFilter.Category != "drinks" {
		t.Fatalf("staff filter wrong: %+v", svc.lastFilter)
	}
	var resp []menuItemResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp) != 1 || resp[0].Price != "2.50" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	c, _ = newContext(http.MethodGet, "/v1/menu?include_unavailable=true", "")
	asActor(c, "mgr-1", domain.RoleManager)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !svc.lastFilter.IncludeUnavailable {
		t.Fatalf("manager must be able to include unavailable items")
	}
}

func TestMenuHandler_Create(t *testing.T) {
	svc := &stubMenuService{}
	h := NewMenuHandler(svc)

	c, rec := newContext(http.MethodPost, "/v1/menu",
		`{"name":"Burger","category":"mains","price":"9.50","extras":[{"name":"Cheese","price":1.25}]}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !svc.lastInput.Available {
		t.Fatalf("available must default to true")
	}
	if len(svc.lastInput.Extras) != 1 || !svc.lastInput.Extras[0].Price.Equal(dec("1.25")) {
		t.Fatalf("unexpected extras: %+v", svc.lastInput.Extras)
	}
}

func TestMenuHandler_Create_Validation(t *testing.T) {
	h := NewMenuHandler(&stubMenuService{})

	for _, body := range []string{
		`{"category":"mains","price":"1"}`,
		`{"name":"Burger","price":"1"}`,
		`{"name":"Burger","category":"mains","price":"-1"}`,
		`{"name":"Burger","category":"mains","price":"1","extras":[{"name":"Cheese","price":"-0.5"}]}`,
	} {
		c, _ := newContext(http.MethodPost, "/v1/menu", body)
		requireHTTPCode(t, h.Create(c), http.StatusBadRequest)
	}
}

func TestMenuHandler_Update_Unavailable(t *testing.T) {
	svc := &stubMenuService{}
	h := NewMenuHandler(svc)

	c, _ := newContext(http.MethodPut, "/v1/menu/burger", `{"name":"Burger","category":"mains","price":"9","available":false}`)
	withParams(c, "id", "burger")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastInput.Available {
		t.Fatalf("explicit available=false must be kept")
	}
}

func TestMenuHandler_GetAndDelete(t *testing.T) {
	svc := &stubMenuService{items: []*domain.MenuItem{{ID: "soda", Name: "Soda", Price: dec("2")}}}
	h := NewMenuHandler(svc)

	c, _ := newContext(http.MethodGet, "/v1/menu/ghost", "")
	withParams(c, "id", "ghost")
	if err := h.Get(c); err != domain.ErrMenuItemNotFound {
		t.Fatalf("expected ErrMenuItemNotFound, got %v", err)
	}

	c, rec := newContext(http.MethodDelete, "/v1/menu/soda", "")
	withParams(c, "id", "soda")
	if err := h.Delete(c); err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (%v)", rec.Code, err)
	}
}

func TestMenuHandler_Categories(t *testing.T) {
	h := NewMenuHandler(&stubMenuService{})

	c, rec := newContext(http.MethodGet, "/v1/menu/categories", "")
	if err := h.Categories(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var cats []string
	_ = json.Unmarshal(rec.Body.Bytes(), &cats)
	if len(cats) != 2 || cats[0] != "drinks" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}
