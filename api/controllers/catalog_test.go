package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/internal/catalog"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
)

type stubCatalogService struct {
	item      *catalog.ItemDTO
	listOut   *catalog.ListItemsOutput
	fabrics   []catalog.FabricDTO
	err       error
	listInput catalog.ListItemsInput
}

func (s *stubCatalogService) ListItems(ctx context.Context, in catalog.ListItemsInput) (*catalog.ListItemsOutput, error) {
	s.listInput = in
	return s.listOut, s.err
}

func (s *stubCatalogService) GetItem(ctx context.Context, id uuid.UUID) (*catalog.ItemDTO, error) {
	return s.item, s.err
}

func (s *stubCatalogService) CreateItem(ctx context.Context, in catalog.UpsertItemInput) (*catalog.ItemDTO, error) {
	return s.item, s.err
}

func (s *stubCatalogService) UpdateItem(ctx context.Context, id uuid.UUID, in catalog.UpsertItemInput) (*catalog.ItemDTO, error) {
	return s.item, s.err
}

func (s *stubCatalogService) DeactivateItem(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubCatalogService) ListFabrics(ctx context.Context, includeInactive bool) ([]catalog.FabricDTO, error) {
	return s.fabrics, s.err
}

func (s *stubCatalogService) CreateFabric(ctx context.Context, label string) (*catalog.FabricDTO, error) {
	return &catalog.FabricDTO{ID: uuid.New(), Label: label, IsActive: true}, s.err
}

func (s *stubCatalogService) SetFabricActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.err
}

func TestCatalogListItemsAppliesFilters(t *testing.T) {
	svc := &stubCatalogService{listOut: &catalog.ListItemsOutput{Items: []catalog.ItemDTO{}}}
	handler := CatalogListItems(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/items?category=dresses&q=ankara&limit=5", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.listInput.Filters.Category == nil || *svc.listInput.Filters.Category != "dresses" {
		t.Fatalf("category filter not applied")
	}
	if svc.listInput.Filters.Query != "ankara" {
		t.Fatalf("unexpected query filter: %q", svc.listInput.Filters.Query)
	}
	if svc.listInput.Pagination.Limit != 5 {
		t.Fatalf("unexpected limit: %d", svc.listInput.Pagination.Limit)
	}
}

func TestCatalogGetItemRejectsMalformedID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/catalog/items/{itemID}", CatalogGetItem(&stubCatalogService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/items/nope", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogGetItemSuccess(t *testing.T) {
	item := &catalog.ItemDTO{ID: uuid.New(), Name: "Ankara Shift Dress", BasePrice: decimal.NewFromInt(699)}

	r := chi.NewRouter()
	r.Get("/api/v1/catalog/items/{itemID}", CatalogGetItem(&stubCatalogService{item: item}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/items/"+item.ID.String(), nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data catalog.ItemDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != item.Name {
		t.Fatalf("unexpected item name: %q", envelope.Data.Name)
	}
}

func TestAdminCreateItemSuccess(t *testing.T) {
	item := &catalog.ItemDTO{ID: uuid.New(), Name: "Kitenge Blazer"}
	handler := AdminCreateItem(&stubCatalogService{item: item}, nil)

	body, _ := json.Marshal(map[string]any{
		"name":       "Kitenge Blazer",
		"category":   "jackets",
		"base_price": "899",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog/items", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestAdminCreateItemRejectsMissingName(t *testing.T) {
	handler := AdminCreateItem(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog/items", bytes.NewReader([]byte(`{"category": "jackets"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogListItemsSurfacesDependencyFailure(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeDependency, "catalog temporarily unavailable")}
	handler := CatalogListItems(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/items", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
