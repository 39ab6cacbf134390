package routes

import (
	"time"

	"github.com/01moynul/aitools-golang/internal/handlers"
	"github.com/01moynul/aitools-golang/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries what the router needs beyond the handlers.
type Options struct {
	AllowedOrigins  []string
	Tokens          middleware.TokenValidator
	MaintenanceMode bool
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	// --- CORS ---
	router.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// --- Public Routes ---
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Protected Routes (Login Required) ---
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(opts.Tokens, opts.MaintenanceMode))
	{
		// --- AI Tools ---
		api.POST("/conversation", h.Conversation)
		api.POST("/research", h.Research)
		api.POST("/study", h.Study)
		api.POST("/ideas", h.Ideas)
		api.POST("/presentation", h.Presentation)
		api.POST("/image", h.Image)
		api.POST("/voice", h.Voice)
		api.POST("/video", h.Video)

		// --- Conversation History ---
		api.GET("/conversation/history", h.ConversationHistory)
		api.GET("/conversation/:id", h.GetConversation)

		// --- Network Metrics ---
		api.POST("/network-metrics", h.CreateNetworkMetric)
		api.GET("/network-metrics", h.ListNetworkMetrics)

		// --- Account ---
		api.GET("/user/api-usage", h.ApiUsage)
		api.GET("/paypal/client-token", h.PayPalClientToken)
	}

	return router
}
