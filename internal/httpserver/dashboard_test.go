package httpserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sapphirus/internal/domain"
)

func TestDashboardCreateProduct_AdminOnly(t *testing.T) {
	catalog := &stubCatalogSvc{product: &domain.Product{ID: "p1", Name: "Playera"}}
	router := newTestRouter(t, Deps{AuthSvc: adminAuth(), CatalogSvc: catalog})

	body := `{"name":"Playera","price":349,"stock":10}`
	req := httptest.NewRequest(http.MethodPost, "/dashboard/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "admin-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDashboardCreateProduct_ClientRedirected(t *testing.T) {
	catalog := &stubCatalogSvc{}
	router := newTestRouter(t, Deps{AuthSvc: clientAuth(), CatalogSvc: catalog})

	body := `{"name":"Playera","price":349,"stock":10}`
	req := httptest.NewRequest(http.MethodPost, "/dashboard/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "client-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 for client on admin route, got %d", rec.Code)
	}
}

func TestDashboardUpdateOrderStatus(t *testing.T) {
	orderSvc := &stubOrderSvc{order: &domain.Order{ID: "ord-1", Status: domain.OrderStatusShipped}}
	router := newTestRouter(t, Deps{AuthSvc: adminAuth(), OrderSvc: orderSvc})

	body := `{"status":"shipped"}`
	req := httptest.NewRequest(http.MethodPatch, "/dashboard/orders/ord-1/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "admin-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"shipped"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDashboardUpdateOrderStatus_NotFound(t *testing.T) {
	orderSvc := &stubOrderSvc{err: domain.ErrNotFound}
	router := newTestRouter(t, Deps{AuthSvc: adminAuth(), OrderSvc: orderSvc})

	body := `{"status":"shipped"}`
	req := httptest.NewRequest(http.MethodPatch, "/dashboard/orders/missing/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "admin-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) Upload(_ context.Context, _ io.Reader) (string, error) {
	return s.url, s.err
}

func uploadRequest(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "product.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestDashboardUpload_ReturnsHostedURL(t *testing.T) {
	uploader := &stubUploader{url: "https://cdn.example.com/products/p1.jpg"}
	router := newTestRouter(t, Deps{AuthSvc: adminAuth(), Uploader: uploader})

	buf, contentType := uploadRequest(t)
	req := httptest.NewRequest(http.MethodPost, "/dashboard/uploads", buf)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "admin-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"url":"https://cdn.example.com/products/p1.jpg"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDashboardUpload_NotConfigured(t *testing.T) {
	router := newTestRouter(t, Deps{AuthSvc: adminAuth()})

	buf, contentType := uploadRequest(t)
	req := httptest.NewRequest(http.MethodPost, "/dashboard/uploads", buf)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "admin-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without uploader, got %d", rec.Code)
	}
}

func TestDashboardUpload_HostFailure(t *testing.T) {
	uploader := &stubUploader{err: errors.New("host down")}
	router := newTestRouter(t, Deps{AuthSvc: adminAuth(), Uploader: uploader})

	buf, contentType := uploadRequest(t)
	req := httptest.NewRequest(http.MethodPost, "/dashboard/uploads", buf)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "admin-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on upload failure, got %d", rec.Code)
	}
}

func TestShippingCostQuote(t *testing.T) {
	router := newTestRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/api/shipping-cost?state=Chihuahua", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"shippingCost":120`) {
		t.Fatalf("expected local rate, got %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/shipping-cost?state=Jalisco", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"shippingCost":200`) {
		t.Fatalf("expected national rate, got %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/shipping-cost", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without state, got %d", rec.Code)
	}
}
