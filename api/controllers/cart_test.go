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

	"github.com/sewnstudio/atelier-backend/api/middleware"
	cartsvc "github.com/sewnstudio/atelier-backend/internal/cart"
	pkgAuth "github.com/sewnstudio/atelier-backend/pkg/auth"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
)

type stubCartService struct {
	cart     *cartsvc.CartDTO
	err      error
	addInput cartsvc.AddItemInput
	setInput cartsvc.SetQuantityInput
}

func (s *stubCartService) Get(ctx context.Context, identity pkgAuth.Identity) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, identity pkgAuth.Identity, in cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	s.addInput = in
	return s.cart, s.err
}

func (s *stubCartService) RemoveLine(ctx context.Context, identity pkgAuth.Identity, index int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) SetQuantity(ctx context.Context, identity pkgAuth.Identity, in cartsvc.SetQuantityInput) (*cartsvc.CartDTO, error) {
	s.setInput = in
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, identity pkgAuth.Identity) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func withTestIdentity(req *http.Request) *http.Request {
	identity := pkgAuth.Identity{UserID: uuid.New(), Role: enums.MemberRoleCustomer}
	return req.WithContext(middleware.WithIdentity(req.Context(), identity))
}

func TestCartGetSuccess(t *testing.T) {
	cart := &cartsvc.CartDTO{ID: uuid.New(), Total: decimal.Zero, Count: 0}
	handler := CartGet(&stubCartService{cart: cart}, nil)

	req := withTestIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != cart.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
}

func TestCartGetRequiresIdentity(t *testing.T) {
	handler := CartGet(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemPassesPayload(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{ID: uuid.New()}}
	handler := CartAddItem(svc, nil)

	itemID := uuid.New()
	body, _ := json.Marshal(map[string]any{
		"item_id":             itemID,
		"measurement_ref":     "default",
		"material_by_shopper": true,
		"quantity":            2,
	})
	req := withTestIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.addInput.ItemID != itemID {
		t.Fatalf("unexpected item id: %s", svc.addInput.ItemID)
	}
	if !svc.addInput.MaterialByShopper {
		t.Fatalf("expected shopper provision to pass through")
	}
	if svc.addInput.Quantity != 2 {
		t.Fatalf("unexpected quantity: %d", svc.addInput.Quantity)
	}
}

func TestCartAddItemRejectsMissingFields(t *testing.T) {
	handler := CartAddItem(&stubCartService{}, nil)

	req := withTestIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{}`))))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartSetQuantityParsesIndex(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{ID: uuid.New()}}

	r := chi.NewRouter()
	r.Put("/api/v1/cart/items/{index}/quantity", CartSetQuantity(svc, nil))

	body := []byte(`{"quantity": 0}`)
	req := withTestIdentity(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/3/quantity", bytes.NewReader(body)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.setInput.Index != 3 {
		t.Fatalf("unexpected index: %d", svc.setInput.Index)
	}
	if svc.setInput.Quantity != 0 {
		t.Fatalf("unexpected quantity: %d", svc.setInput.Quantity)
	}
}

func TestCartSetQuantityRejectsBadIndex(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/api/v1/cart/items/{index}/quantity", CartSetQuantity(&stubCartService{}, nil))

	req := withTestIdentity(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/abc/quantity", bytes.NewReader([]byte(`{"quantity": 1}`))))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveLineSurfacesNotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/v1/cart/items/{index}", CartRemoveLine(&stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no such line")}, nil))

	req := withTestIdentity(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/0", nil))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
