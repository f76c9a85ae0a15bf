package httpserver

import (
	"io"
	"log"
	"net/http"

	"sapphirus/internal/payments"
	ordersvc "sapphirus/internal/service/order"
	"github.com/gin-gonic/gin"
)

const stripeSignatureHeader = "Stripe-Signature"

// webhookHandler is the server-confirmed reconciliation trigger. Payloads are
// verified against the gateway's signing secret before anything is trusted.
func webhookHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
			return
		}

		event, err := payments.ParseWebhookEvent(payload, c.GetHeader(stripeSignatureHeader), deps.WebhookSecret)
		if err != nil {
			logger.Printf("webhook: verification failed err=%v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "webhook verification failed"})
			return
		}

		if event.Type != payments.EventPaymentSucceeded || event.Intent == nil {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		result, err := deps.OrderSvc.Finalize(c.Request.Context(), ordersvc.FinalizeInputFromIntent(event.Intent, "webhook"))
		if err != nil {
			finalizeError(c, logger, event.Intent.ID, err)
			return
		}

		resp := finalizeResponse(result)
		resp["received"] = true
		c.JSON(http.StatusOK, resp)
	}
}
