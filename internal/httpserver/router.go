package httpserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, gate *authGate) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())
	if deps.Metrics != nil {
		router.Use(latencyMiddleware(deps.Metrics))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/statsz", statsHandler(deps.Metrics))

	router.GET(storefrontHome, homeHandler)

	// Navigation prefixes gated by session/role with redirect semantics.
	router.GET(loginPath, gate.pageGate(), loginPageHandler)
	dashboard := router.Group(dashboardHome, gate.pageGate())
	{
		dashboard.GET("", dashboardHomeHandler)
		dashboard.GET("/products", listProductsHandler(deps.CatalogSvc))
		dashboard.POST("/products", createProductHandler(deps.CatalogSvc))
		dashboard.PUT("/products/:id", updateProductHandler(deps.CatalogSvc))
		dashboard.DELETE("/products/:id", deleteProductHandler(deps.CatalogSvc))
		dashboard.GET("/orders", adminListOrdersHandler(deps.OrderSvc))
		dashboard.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
		dashboard.POST("/uploads", uploadImageHandler(deps.Uploader, logger))
	}
	profile := router.Group("/profile", gate.pageGate())
	{
		profile.GET("", profileHandler(deps.AuthSvc))
	}

	// Auth API.
	router.POST("/auth/signup", signupHandler(deps.AuthSvc))
	router.POST("/auth/login", loginHandler(deps.AuthSvc))
	router.POST("/auth/logout", logoutHandler(deps.AuthSvc))

	api := router.Group("/api")
	{
		api.GET("/products", listProductsHandler(deps.CatalogSvc))
		api.GET("/products/:id", getProductHandler(deps.CatalogSvc))

		api.GET("/me", gate.requireSession(), profileHandler(deps.AuthSvc))

		cart := api.Group("/cart", gate.optionalSession())
		{
			cart.GET("", getCartHandler(deps.CartSvc))
			cart.POST("/items", addCartItemHandler(deps.CartSvc))
			cart.PATCH("/items/:productId", updateCartItemHandler(deps.CartSvc))
			cart.DELETE("/items/:productId", removeCartItemHandler(deps.CartSvc))
			cart.DELETE("", clearCartHandler(deps.CartSvc))
		}

		addresses := api.Group("/addresses", gate.requireSession())
		{
			addresses.GET("", listAddressesHandler(deps.ShippingSvc))
			addresses.POST("", createAddressHandler(deps.ShippingSvc))
			addresses.PUT("/:id", updateAddressHandler(deps.ShippingSvc))
			addresses.DELETE("/:id", deleteAddressHandler(deps.ShippingSvc))
			addresses.GET("/:id/shipping-cost", addressShippingCostHandler(deps.ShippingSvc))
		}
		api.GET("/shipping-cost", shippingCostHandler)

		api.POST("/checkout/payment-intent", gate.optionalSession(), createPaymentIntentHandler(deps, logger))
		api.POST("/checkout/confirm", gate.optionalSession(), confirmCheckoutHandler(deps, logger))

		api.GET("/orders", gate.requireSession(), listOrdersHandler(deps.OrderSvc))
		api.GET("/orders/:id", gate.requireSession(), getOrderHandler(deps.OrderSvc))
	}

	router.POST("/api/webhooks/stripe", webhookHandler(deps, logger))

	return router, nil
}

func homeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "storefront"})
}

func loginPageHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

func dashboardHomeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "dashboard"})
}

func latencyMiddleware(rec interface {
	Record(route string, d time.Duration)
}) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.Record(c.Request.Method+" "+route, time.Since(start))
	}
}
