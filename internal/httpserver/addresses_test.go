package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sapphirus/internal/domain"
)

func TestCreateAddress_ReturnsResolvedCost(t *testing.T) {
	shipping := &stubShippingSvc{
		address: &domain.ShippingAddress{ID: "addr-1", State: "Chihuahua"},
	}
	router := newTestRouter(t, Deps{AuthSvc: clientAuth(), ShippingSvc: shipping})

	body := `{"fullName":"Test","streetAddress":"Calle 1","city":"Chihuahua","state":"Chihuahua","postalCode":"31000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/addresses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer client-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"shippingCost":120`) {
		t.Fatalf("expected local rate in response, got %s", rec.Body.String())
	}
}

func TestAddressShippingCost_Quote(t *testing.T) {
	shipping := &stubShippingSvc{cost: 200}
	router := newTestRouter(t, Deps{AuthSvc: clientAuth(), ShippingSvc: shipping})

	req := httptest.NewRequest(http.MethodGet, "/api/addresses/addr-1/shipping-cost", nil)
	req.Header.Set("Authorization", "Bearer client-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"shippingCost":200`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAddressShippingCost_NotFound(t *testing.T) {
	shipping := &stubShippingSvc{err: domain.ErrNotFound}
	router := newTestRouter(t, Deps{AuthSvc: clientAuth(), ShippingSvc: shipping})

	req := httptest.NewRequest(http.MethodGet, "/api/addresses/missing/shipping-cost", nil)
	req.Header.Set("Authorization", "Bearer client-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListAddresses_RequiresSession(t *testing.T) {
	router := newTestRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/api/addresses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
