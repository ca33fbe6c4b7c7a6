package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/safar/shop-admin/internal/config"
)

func NewRouter(h *Handler, cfg config.ServerConfig, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(logger), RequestLogger(), Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/healthz", h.Health)

	admin := r.Group("/api/v1/admin")
	{
		products := admin.Group("/products")
		products.GET("", h.ListProducts)
		products.GET("/detail/:id", h.GetProduct)
		products.GET("/edit/:id", h.GetProduct)
		products.POST("/create", h.CreateProduct)
		products.PATCH("/edit/:id", h.UpdateProduct)
		products.PATCH("/:id/status", h.UpdateProductStatus)
		products.PATCH("/bulk-edit", h.BulkEditProducts)
		products.DELETE("/delete/:id", h.DeleteProduct)

		categories := admin.Group("/categories")
		categories.GET("", h.ListCategories)
		categories.GET("/detail/:id", h.GetCategory)
		categories.GET("/edit/:id", h.GetCategory)
		categories.POST("/create", h.CreateCategory)
		categories.PATCH("/edit/:id", h.UpdateCategory)
		categories.PATCH("/:id/status", h.UpdateCategoryStatus)
		categories.PATCH("/bulk-edit", h.BulkEditCategories)
		categories.DELETE("/delete/:id", h.DeleteCategory)

		users := admin.Group("/users")
		users.GET("", h.ListUsers)
		users.GET("/detail/:id", h.GetUser)
		users.GET("/edit/:id", h.GetUser)
		users.POST("/create", h.CreateUser)
		users.PATCH("/edit/:id", h.UpdateUser)
		users.PATCH("/:id/status", h.UpdateUserStatus)
		users.PATCH("/bulk-edit", h.BulkEditUsers)
		users.DELETE("/delete/:id", h.DeleteUser)

		roles := admin.Group("/roles")
		roles.GET("", h.ListRoles)
		roles.GET("/detail/:id", h.GetRole)
		roles.GET("/edit/:id", h.GetRole)
		roles.POST("/create", h.CreateRole)
		roles.PATCH("/edit/:id", h.UpdateRole)
		roles.DELETE("/delete/:id", h.DeleteRole)
	}

	public := r.Group("/api/v1")
	{
		public.GET("/products", h.PublicProducts)
		public.GET("/products/detail/:slug", h.PublicProduct)
		public.GET("/categories", h.PublicCategories)
		public.GET("/categories/detail/:slug", h.PublicCategory)
	}

	r.NoRoute(func(c *gin.Context) {
		respondMessage(c, http.StatusNotFound, "Route not found")
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
