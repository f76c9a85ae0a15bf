package httpserver

import (
	"errors"
	"net/http"

	"sapphirus/internal/domain"
	cartsvc "sapphirus/internal/service/cart"
	"github.com/gin-gonic/gin"
)

// guestCartHeader carries a client-generated cart id for shoppers without a
// session.
const guestCartHeader = "X-Cart-ID"

func cartOwner(c *gin.Context) (string, bool) {
	if userID := currentUserID(c); userID != "" {
		return userID, true
	}
	if guest := c.GetHeader(guestCartHeader); guest != "" {
		return "guest:" + guest, true
	}
	return "", false
}

func requireCartOwner(c *gin.Context) (string, bool) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session or " + guestCartHeader + " header required"})
	}
	return owner, ok
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := requireCartOwner(c)
		if !ok {
			return
		}
		cart, err := svc.Get(c.Request.Context(), owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func addCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := requireCartOwner(c)
		if !ok {
			return
		}
		var in cartsvc.AddItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), owner, in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func updateCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := requireCartOwner(c)
		if !ok {
			return
		}
		var in struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.UpdateQuantity(c.Request.Context(), owner, c.Param("productId"), in.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func removeCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := requireCartOwner(c)
		if !ok {
			return
		}
		cart, err := svc.RemoveItem(c.Request.Context(), owner, c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func clearCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := requireCartOwner(c)
		if !ok {
			return
		}
		if err := svc.Clear(c.Request.Context(), owner); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": domain.Cart{Items: []domain.CartItem{}}})
	}
}
