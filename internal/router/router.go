package router

import (
	"fmt"
	"strings"

	"github.com/etiquetas-qr/internal/cache"
	"github.com/etiquetas-qr/internal/config"
	"github.com/etiquetas-qr/internal/constants"
	adminhandlers "github.com/etiquetas-qr/internal/http/handlers/admin"
	publichandlers "github.com/etiquetas-qr/internal/http/handlers/public"
	"github.com/etiquetas-qr/internal/logger"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP engine.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	deliveryRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:delivery", redisPrefix),
		WindowSeconds: cfg.Security.DeliveryRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.DeliveryRateLimit.MaxAttempts,
		Message:       "too many delivery submissions",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Evidence and logo files when the local storage driver is active.
	if strings.EqualFold(cfg.Storage.Driver, constants.StorageDriverLocal) {
		r.Static(cfg.Storage.Local.BaseURL, cfg.Storage.Local.BaseDir)
	}

	apiV1 := r.Group("/api/v1")
	{
		// Public landing and delivery capture.
		public := apiV1.Group("/public")
		{
			public.GET("/landing/:slug", publicHandler.GetLanding)
			public.GET("/delivery", publicHandler.GetDeliveryForm)
			public.POST("/delivery",
				RateLimitMiddleware(redisClient, deliveryRule, KeyByIPAndJSONField("serial_code")),
				publicHandler.SubmitDelivery)
		}

		// Back office.
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIP), adminHandler.AdminLogin)

			authorized := admin.Group("")
			authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// Clients
				authorized.GET("/clients", adminHandler.GetClients)
				authorized.GET("/clients/:id", adminHandler.GetClient)
				authorized.POST("/clients", adminHandler.CreateClient)
				authorized.PUT("/clients/:id", adminHandler.UpdateClient)

				// Landing templates
				authorized.GET("/templates", adminHandler.GetTemplates)
				authorized.POST("/templates", adminHandler.CreateTemplate)
				authorized.PUT("/templates/:id", adminHandler.UpdateTemplate)

				// Products
				authorized.GET("/products", adminHandler.GetProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)

				// Serials
				authorized.POST("/serials/allocate", adminHandler.AllocateSerials)
				authorized.GET("/serials", adminHandler.GetSerials)
				authorized.GET("/serials/export", adminHandler.ExportSerials)
				authorized.GET("/serials/code/:code", adminHandler.GetSerial)
				authorized.PUT("/serials/:id", adminHandler.UpdateSerial)

				// Range association
				authorized.GET("/ranges/validate", adminHandler.ValidateRange)
				authorized.GET("/ranges/resolve", adminHandler.ResolveRange)
				authorized.GET("/ranges/fields", adminHandler.GetRangeFields)
				authorized.POST("/ranges/associate", adminHandler.AssociateRange)

				// Requests
				authorized.GET("/requests", adminHandler.GetRequests)
				authorized.GET("/requests/:id", adminHandler.GetRequest)
				authorized.POST("/requests", adminHandler.CreateRequest)
				authorized.PUT("/requests/:id", adminHandler.UpdateRequest)

				// Deliveries
				authorized.GET("/deliveries", adminHandler.GetDeliveries)
				authorized.GET("/deliveries/:id", adminHandler.GetDelivery)
			}

			// Destructive operations stay with the super role.
			superOnly := authorized.Group("")
			superOnly.Use(RequireRole(models.AdminRoleSuper))
			{
				superOnly.DELETE("/clients/:id", adminHandler.DeleteClient)
				superOnly.DELETE("/templates/:id", adminHandler.DeleteTemplate)
				superOnly.DELETE("/products/:id", adminHandler.DeleteProduct)
				superOnly.DELETE("/requests/:id", adminHandler.DeleteRequest)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
