package httpserver

import (
	"errors"
	"log"
	"net/http"

	"sapphirus/internal/domain"
	"sapphirus/internal/payments"
	ordersvc "sapphirus/internal/service/order"
	"github.com/gin-gonic/gin"
)

// Currency for all charges, in minor units on the wire.
const checkoutCurrency = "mxn"

type paymentIntentRequest struct {
	Amount            int64             `json:"amount" binding:"required"`
	Items             []domain.CartItem `json:"items"`
	ShippingAddressID string            `json:"shippingAddressId"`
	ShippingCost      float64           `json:"shippingCost"`
}

// createPaymentIntentHandler stamps the intent with the order-construction
// inputs so the reconciliation flow can recover them from the success signal.
// Anonymous checkout is tolerated: the intent then carries no userId and
// reconciliation rejects it later.
func createPaymentIntentHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in paymentIntentRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		meta, err := ordersvc.IntentMetadata(currentUserID(c), in.Items, in.ShippingAddressID, in.ShippingCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode metadata"})
			return
		}

		intent, err := deps.Gateway.CreateIntent(c.Request.Context(), payments.IntentInput{
			Amount:   in.Amount,
			Currency: checkoutCurrency,
			Metadata: meta,
		})
		if err != nil {
			logger.Printf("checkout: create intent error=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment intent"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
	}
}

type confirmRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

// confirmCheckoutHandler is the client-confirmed reconciliation trigger. The
// intent is re-fetched from the gateway so a caller cannot assert success on
// someone else's behalf.
func confirmCheckoutHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in confirmRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		intent, err := deps.Gateway.GetIntent(c.Request.Context(), in.PaymentIntentID)
		if err != nil {
			logger.Printf("checkout: fetch intent=%s error=%v", in.PaymentIntentID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to verify payment"})
			return
		}
		if intent.Status != payments.StatusSucceeded {
			c.JSON(http.StatusConflict, gin.H{"error": "payment not completed"})
			return
		}

		result, err := deps.OrderSvc.Finalize(c.Request.Context(), ordersvc.FinalizeInputFromIntent(intent, "client"))
		if err != nil {
			finalizeError(c, logger, intent.ID, err)
			return
		}

		// Confirmed orders empty the shopper's cart.
		if owner, ok := cartOwner(c); ok {
			if err := deps.CartSvc.Clear(c.Request.Context(), owner); err != nil {
				logger.Printf("checkout: clear cart owner=%s error=%v", owner, err)
			}
		}

		c.JSON(http.StatusOK, finalizeResponse(result))
	}
}

func finalizeError(c *gin.Context, logger *log.Logger, intentID string, err error) {
	if errors.Is(err, ordersvc.ErrMissingMetadata) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required metadata"})
		return
	}
	logger.Printf("checkout: finalize intent=%s error=%v", intentID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "error processing payment"})
}

func finalizeResponse(result *ordersvc.FinalizeResult) gin.H {
	if result.Order == nil {
		return gin.H{"status": "order_exists"}
	}
	if !result.Created {
		return gin.H{"status": "order_exists", "orderId": result.Order.ID}
	}
	return gin.H{"status": "success", "orderId": result.Order.ID}
}
