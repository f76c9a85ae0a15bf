package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sapphirus/internal/domain"
	ordersvc "sapphirus/internal/service/order"
)

const testWebhookSecret = "whsec_test"

// stripeSignature reproduces the gateway's signature scheme: HMAC-SHA256 over
// "<timestamp>.<payload>" with the signing secret.
func stripeSignature(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func succeededEventPayload() string {
	items := `[{\"productId\":\"p1\",\"price\":10,\"quantity\":2}]`
	return fmt.Sprintf(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_123",
				"amount": 14000,
				"currency": "mxn",
				"status": "succeeded",
				"metadata": {
					"userId": "u1",
					"items": "%s",
					"shippingAddressId": "addr-1",
					"shippingCost": "120.00"
				}
			}
		}
	}`, items)
}

func postWebhook(router http.Handler, payload, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set(stripeSignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_ValidSignatureCreatesOrder(t *testing.T) {
	orderSvc := &stubOrderSvc{
		result: &ordersvc.FinalizeResult{Order: &domain.Order{ID: "ord-1"}, Created: true},
	}
	router := newTestRouter(t, Deps{OrderSvc: orderSvc, WebhookSecret: testWebhookSecret})

	payload := succeededEventPayload()
	rec := postWebhook(router, payload, stripeSignature([]byte(payload), testWebhookSecret, time.Now()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	in := orderSvc.lastInput
	if in == nil {
		t.Fatal("expected Finalize call")
	}
	if in.PaymentIntentID != "pi_123" || in.Amount != 14000 || in.UserID != "u1" {
		t.Fatalf("unexpected finalize input: %+v", in)
	}
	if len(in.Items) != 1 || in.Items[0].ProductID != "p1" || in.Items[0].Quantity != 2 {
		t.Fatalf("items not recovered from metadata: %+v", in.Items)
	}
	if in.ShippingAddressID != "addr-1" || in.ShippingCost != 120 {
		t.Fatalf("shipping not recovered from metadata: %+v", in)
	}
	if in.Source != "webhook" {
		t.Fatalf("expected webhook source, got %q", in.Source)
	}
}

func TestWebhook_InvalidSignatureRejected(t *testing.T) {
	orderSvc := &stubOrderSvc{}
	router := newTestRouter(t, Deps{OrderSvc: orderSvc, WebhookSecret: testWebhookSecret})

	payload := succeededEventPayload()
	rec := postWebhook(router, payload, stripeSignature([]byte(payload), "whsec_wrong", time.Now()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad signature, got %d", rec.Code)
	}
	if orderSvc.lastInput != nil {
		t.Fatal("unverified payload must not reach reconciliation")
	}
}

func TestWebhook_MissingSignatureRejected(t *testing.T) {
	router := newTestRouter(t, Deps{WebhookSecret: testWebhookSecret})

	rec := postWebhook(router, succeededEventPayload(), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without signature, got %d", rec.Code)
	}
}

func TestWebhook_StaleTimestampRejected(t *testing.T) {
	router := newTestRouter(t, Deps{WebhookSecret: testWebhookSecret})

	payload := succeededEventPayload()
	stale := time.Now().Add(-time.Hour)
	rec := postWebhook(router, payload, stripeSignature([]byte(payload), testWebhookSecret, stale))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for stale timestamp, got %d", rec.Code)
	}
}

func TestWebhook_IgnoresOtherEventTypes(t *testing.T) {
	orderSvc := &stubOrderSvc{}
	router := newTestRouter(t, Deps{OrderSvc: orderSvc, WebhookSecret: testWebhookSecret})

	payload := `{"id":"evt_2","type":"payment_intent.created","data":{"object":{"id":"pi_123"}}}`
	rec := postWebhook(router, payload, stripeSignature([]byte(payload), testWebhookSecret, time.Now()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orderSvc.lastInput != nil {
		t.Fatal("non-success events must not trigger reconciliation")
	}
}

func TestWebhook_MissingMetadataIsBadRequest(t *testing.T) {
	orderSvc := &stubOrderSvc{err: ordersvc.ErrMissingMetadata}
	router := newTestRouter(t, Deps{OrderSvc: orderSvc, WebhookSecret: testWebhookSecret})

	payload := `{"id":"evt_3","type":"payment_intent.succeeded","data":{"object":{"id":"pi_anon","amount":500,"status":"succeeded"}}}`
	rec := postWebhook(router, payload, stripeSignature([]byte(payload), testWebhookSecret, time.Now()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing metadata, got %d body=%s", rec.Code, rec.Body.String())
	}
}
