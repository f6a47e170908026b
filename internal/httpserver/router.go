package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/metrics"
	"webhost-storefront/internal/requestid"
)

type handlers struct {
	deps   Deps
	logger logrus.FieldLogger
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, db Pinger, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}

	router := gin.New()
	router.Use(
		gin.LoggerWithWriter(logger.Writer(), "/healthz", "/readyz", "/metrics"),
		gin.Recovery(),
		correlationID(),
		metrics.Middleware(),
		cors.New(corsConfig(opts.AllowedOrigins)),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(readinessCheck{name: "db", dep: db}))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := &handlers{deps: deps, logger: logger}
	limiter := newRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	authed := authMiddleware(deps.Auth)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", limiter.middleware(), h.register)
		auth.POST("/login", limiter.middleware(), h.login)
		auth.POST("/forgot-password", limiter.middleware(), h.forgotPassword)
		auth.POST("/reset-password", limiter.middleware(), h.resetPassword)
		auth.GET("/profile", authed, h.profile)
		auth.PUT("/update-profile", authed, h.updateProfile)
	}

	domains := api.Group("/domain")
	{
		domains.POST("/search", limiter.middleware(), h.searchDomain)
		domains.POST("/register", authed, h.registerDomain)
		domains.GET("/mine", authed, h.myDomains)
	}

	api.GET("/hosting/plans", h.listHosting)
	api.GET("/wordpress/plans", h.listWordpress)
	api.GET("/addon/plans", h.listAddons)

	cart := api.Group("/cart", authed)
	{
		cart.GET("", h.getCart)
		cart.POST("/hosting", h.addHostingToCart)
		cart.POST("/wordpress", h.addWordpressToCart)
		cart.POST("/addon", h.addAddonToCart)
		cart.DELETE("/item/:itemId", h.removeCartItem)
	}

	checkout := api.Group("/checkout")
	{
		checkout.POST("/webhook", h.paymentWebhook)
		checkout.POST("", authed, h.checkout)
		checkout.POST("/create-checkout-session", authed, h.createCheckoutSession)
		checkout.GET("/session-status/:sessionId", authed, h.sessionStatus)
		checkout.GET("/verify-payment/:invoiceId", authed, h.verifyPayment)
	}

	user := api.Group("/user", authed)
	{
		user.GET("/orders", h.myOrders)
		user.GET("/orders/:orderId", h.myOrder)
		user.GET("/invoices", h.myInvoices)
	}

	tickets := api.Group("/tickets", authed)
	{
		tickets.POST("", h.openTicket)
		tickets.GET("", h.myTickets)
		tickets.POST("/:id/message", h.addTicketMessage)
	}

	support := api.Group("/support", authed, requireRole(domain.RoleSupport, domain.RoleAdmin))
	{
		support.GET("/tickets", h.supportAllTickets)
		support.GET("/tickets/mine", h.supportOpenTickets)
		support.GET("/tickets/unresolved", h.supportUnresolvedTickets)
		support.POST("/tickets/reply", h.supportReply)
		support.POST("/tickets/:id/resolve", h.supportResolve)
	}

	admin := api.Group("/admin", authed, requireRole(domain.RoleAdmin))
	{
		admin.GET("/users", h.adminListUsers)
		admin.PATCH("/users/role", h.adminUpdateRole)

		admin.GET("/orders", h.adminListOrders)
		admin.GET("/orders/:id", h.adminGetOrder)
		admin.PUT("/orders/:id", h.adminUpdateOrder)

		admin.GET("/invoices", h.adminListInvoices)
		admin.GET("/invoices/:id", h.adminGetInvoice)
		admin.PUT("/invoices/:id", h.adminUpdateInvoice)

		hosting := admin.Group("/hosting")
		hosting.POST("", h.adminCreateHosting)
		hosting.GET("", h.listHosting)
		hosting.GET("/:id", h.adminGetHosting)
		hosting.PUT("/:id", h.adminUpdateHosting)
		hosting.DELETE("/:id", h.adminDeleteHosting)

		wordpress := admin.Group("/wordpress-hosting")
		wordpress.POST("", h.adminCreateWordpress)
		wordpress.GET("", h.listWordpress)
		wordpress.GET("/:id", h.adminGetWordpress)
		wordpress.PUT("/:id", h.adminUpdateWordpress)
		wordpress.DELETE("/:id", h.adminDeleteWordpress)

		addons := admin.Group("/addons")
		addons.POST("", h.adminCreateAddon)
		addons.GET("", h.listAddons)
		addons.GET("/:id", h.adminGetAddon)
		addons.PUT("/:id", h.adminUpdateAddon)
		addons.DELETE("/:id", h.adminDeleteAddon)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestid.Header},
		ExposeHeaders: []string{requestid.Header},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
