package httpserver

import (
	"errors"
	"net/http"

	"sapphirus/internal/domain"
	shippingsvc "sapphirus/internal/service/shipping"
	"github.com/gin-gonic/gin"
)

func listAddressesHandler(svc ShippingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := svc.List(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list addresses"})
			return
		}
		if addresses == nil {
			addresses = []domain.ShippingAddress{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func createAddressHandler(svc ShippingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in shippingsvc.AddressInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		addr, err := svc.Create(c.Request.Context(), currentUserID(c), in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"address": addr, "shippingCost": shippingsvc.ResolveCost(addr.State)})
	}
}

func updateAddressHandler(svc ShippingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in shippingsvc.AddressInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		addr, err := svc.Update(c.Request.Context(), currentUserID(c), c.Param("id"), in)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": addr, "shippingCost": shippingsvc.ResolveCost(addr.State)})
	}
}

func deleteAddressHandler(svc ShippingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// addressShippingCostHandler quotes the fee for one of the caller's saved
// addresses.
func addressShippingCostHandler(svc ShippingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cost, err := svc.CostFor(c.Request.Context(), currentUserID(c), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve shipping cost"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"shippingCost": cost})
	}
}

// shippingCostHandler quotes the fee for a free-text state without touching
// saved addresses.
func shippingCostHandler(c *gin.Context) {
	state := c.Query("state")
	if state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "shippingCost": shippingsvc.ResolveCost(state)})
}
