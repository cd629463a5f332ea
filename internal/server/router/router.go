package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Customers  *handlers.CustomerHandler
	Deliveries *handlers.DeliveryHandler
	Stock      *handlers.StockHandler
	Billing    *handlers.BillingHandler
	Dashboard  *handlers.DashboardHandler
	Settings   *handlers.SettingsHandler
	Reports    *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, corsOrigin string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(corsMiddleware(corsOrigin))

	customers := r.Group("/customers")
	customers.GET("", h.Customers.List)
	customers.GET("/:id", h.Customers.Get)
	customers.POST("", h.Customers.Create)
	customers.PUT("/:id", h.Customers.Update)
	customers.DELETE("/:id", h.Customers.Delete)

	deliveries := r.Group("/deliveries")
	deliveries.GET("", h.Deliveries.List)
	deliveries.POST("", h.Deliveries.Upsert)
	deliveries.POST("/bulk", h.Deliveries.Bulk)
	deliveries.POST("/autofill", h.Deliveries.Autofill)
	deliveries.POST("/clear", h.Deliveries.Clear)
	deliveries.GET("/today-total", h.Deliveries.TodayTotal)

	stock := r.Group("/stock")
	stock.GET("", h.Stock.List)
	stock.POST("", h.Stock.Create)
	stock.DELETE("/:id", h.Stock.Delete)
	stock.GET("/inventory", h.Stock.Inventory)
	stock.GET("/sources", h.Stock.ListSources)
	stock.POST("/sources", h.Stock.CreateSource)
	stock.PUT("/sources/:id", h.Stock.UpdateSource)
	stock.DELETE("/sources/:id", h.Stock.DeactivateSource)

	billing := r.Group("/billing")
	billing.GET("/monthly", h.Billing.Monthly)
	billing.GET("/monthly/export", h.Billing.Export)
	billing.GET("/customer/:id", h.Billing.Customer)
	billing.GET("/customer/:id/invoice", h.Billing.Invoice)
	billing.POST("/customer/:id/invoice/send", h.Billing.SendInvoice)
	billing.GET("/today-revenue", h.Billing.TodayRevenue)

	payments := r.Group("/payments")
	payments.GET("", h.Billing.ListPayments)
	payments.POST("", h.Billing.RecordPayment)
	payments.DELETE("/:id", h.Billing.DeletePayment)

	dashboard := r.Group("/dashboard")
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/comparison", h.Dashboard.Comparison)

	settings := r.Group("/settings")
	settings.GET("", h.Settings.Get)
	settings.PUT("", h.Settings.Update)
	settings.POST("/reset", h.Settings.Reset)

	reports := r.Group("/reports")
	reports.GET("/daily", h.Reports.Daily)
	reports.POST("/daily/snapshot", h.Reports.Snapshot)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "Not found", Message: "route not found"})
	})

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition")
		if origin != "*" {
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
