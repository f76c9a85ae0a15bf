package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sapphirus/internal/domain"
	"sapphirus/internal/payments"
	ordersvc "sapphirus/internal/service/order"
)

func TestCreatePaymentIntent_StampsMetadata(t *testing.T) {
	gateway := &stubGateway{
		intent: &payments.Intent{ID: "pi_123", ClientSecret: "pi_123_secret"},
	}
	router := newTestRouter(t, Deps{AuthSvc: clientAuth(), Gateway: gateway})

	body := `{"amount":81800,"items":[{"productId":"p1","price":349,"quantity":2}],"shippingAddressId":"addr-1","shippingCost":120}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/payment-intent", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer client-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"clientSecret":"pi_123_secret"`) {
		t.Fatalf("expected client secret in response, got %s", rec.Body.String())
	}

	in := gateway.lastInput
	if in == nil {
		t.Fatal("expected CreateIntent call")
	}
	if in.Amount != 81800 || in.Currency != "mxn" {
		t.Fatalf("unexpected intent input: %+v", in)
	}
	if in.Metadata["userId"] != "client-id" {
		t.Fatalf("expected session user in metadata, got %q", in.Metadata["userId"])
	}
	if in.Metadata["shippingAddressId"] != "addr-1" || in.Metadata["shippingCost"] != "120.00" {
		t.Fatalf("shipping metadata missing: %v", in.Metadata)
	}
	if !strings.Contains(in.Metadata["items"], `"productId":"p1"`) {
		t.Fatalf("items metadata missing: %v", in.Metadata)
	}
}

func TestCreatePaymentIntent_AnonymousGetsNoUserID(t *testing.T) {
	gateway := &stubGateway{intent: &payments.Intent{ClientSecret: "secret"}}
	router := newTestRouter(t, Deps{Gateway: gateway})

	body := `{"amount":500,"items":[{"productId":"p1","price":5,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/payment-intent", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if gateway.lastInput.Metadata["userId"] != "" {
		t.Fatalf("expected empty userId for anonymous checkout, got %q", gateway.lastInput.Metadata["userId"])
	}
}

func TestConfirmCheckout_SucceededIntentFinalizesAndClearsCart(t *testing.T) {
	gateway := &stubGateway{
		intent: &payments.Intent{
			ID:     "pi_123",
			Amount: 14000,
			Status: payments.StatusSucceeded,
			Metadata: map[string]string{
				"userId": "client-id",
				"items":  `[{"productId":"p1","price":10,"quantity":2}]`,
			},
		},
	}
	orderSvc := &stubOrderSvc{
		result: &ordersvc.FinalizeResult{Order: &domain.Order{ID: "ord-1"}, Created: true},
	}
	cartSvc := &stubCartSvc{}
	router := newTestRouter(t, Deps{
		AuthSvc:  clientAuth(),
		Gateway:  gateway,
		OrderSvc: orderSvc,
		CartSvc:  cartSvc,
	})

	body := `{"paymentIntentId":"pi_123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/confirm", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer client-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"success"`) {
		t.Fatalf("expected success status, got %s", rec.Body.String())
	}
	if orderSvc.lastInput == nil || orderSvc.lastInput.Source != "client" {
		t.Fatalf("expected client-sourced finalize, got %+v", orderSvc.lastInput)
	}
	if cartSvc.clearedOwner != "client-id" {
		t.Fatalf("expected cart cleared for session user, got %q", cartSvc.clearedOwner)
	}
}

func TestConfirmCheckout_UnpaidIntentConflicts(t *testing.T) {
	gateway := &stubGateway{
		intent: &payments.Intent{ID: "pi_123", Status: "requires_payment_method"},
	}
	orderSvc := &stubOrderSvc{}
	router := newTestRouter(t, Deps{Gateway: gateway, OrderSvc: orderSvc})

	body := `{"paymentIntentId":"pi_123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/confirm", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unpaid intent, got %d", rec.Code)
	}
	if orderSvc.lastInput != nil {
		t.Fatal("unpaid intent must not be finalized")
	}
}

func TestConfirmCheckout_ReplayReportsExistingOrder(t *testing.T) {
	gateway := &stubGateway{
		intent: &payments.Intent{
			ID:     "pi_123",
			Status: payments.StatusSucceeded,
			Metadata: map[string]string{
				"userId": "client-id",
				"items":  `[{"productId":"p1","price":10,"quantity":2}]`,
			},
		},
	}
	orderSvc := &stubOrderSvc{
		result: &ordersvc.FinalizeResult{Order: &domain.Order{ID: "ord-1"}, Created: false},
	}
	router := newTestRouter(t, Deps{AuthSvc: clientAuth(), Gateway: gateway, OrderSvc: orderSvc})

	body := `{"paymentIntentId":"pi_123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/confirm", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer client-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"order_exists"`) {
		t.Fatalf("expected order_exists status, got %s", rec.Body.String())
	}
}
