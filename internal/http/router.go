package http

import (
	"github.com/gin-gonic/gin"

	"estante/internal/auth"
	"estante/internal/database"
	"estante/internal/database/authors"
	"estante/internal/database/books"
	"estante/internal/database/categories"
	"estante/internal/database/comments"
	"estante/internal/database/favorites"
	"estante/internal/database/history"
	"estante/internal/database/series"
	"estante/internal/database/settings"
	"estante/internal/database/users"
)

// RouterConfig carries the constructed dependencies the router needs.
// Everything is injected; the router holds no globals.
type RouterConfig struct {
	Database       *database.Database
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	Version        string
}

// NewRouter builds the Gin engine with all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cfg.SessionManager.SessionLoadSave())

	authMiddleware := auth.NewMiddleware(cfg.SessionManager)
	router.Use(authMiddleware.LoadIdentity())

	db := cfg.Database.DB
	bookRepo := books.NewRepository(db)
	authorRepo := authors.NewRepository(db)
	categoryRepo := categories.NewRepository(db)
	seriesRepo := series.NewRepository(db)
	userRepo := users.NewRepository(db)
	favoriteRepo := favorites.NewRepository(db)
	historyRepo := history.NewRepository(db)
	commentRepo := comments.NewRepository(db)
	settingsRepo := settings.NewRepository(db)

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService, cfg.SessionManager, userRepo)
	booksController := NewBooksController(bookRepo, authorRepo, categoryRepo, seriesRepo)
	categoriesController := NewCategoriesController(categoryRepo)
	authorsController := NewAuthorsController(authorRepo, seriesRepo)
	seriesController := NewSeriesController(seriesRepo, bookRepo)
	commentsController := NewCommentsController(commentRepo)
	favoritesController := NewFavoritesController(favoriteRepo)
	historyController := NewHistoryController(historyRepo)
	settingsController := NewSettingsController(settingsRepo)
	usersController := NewUsersController(userRepo)
	statsController := NewStatsController(cfg.Database)

	router.GET("/health", health.Status)

	api := router.Group("/api")

	// Auth
	api.POST("/auth/register", authController.Register)
	api.POST("/auth/login", authController.Login)
	api.POST("/auth/logout", authMiddleware.RequireAuthenticated(), authController.Logout)
	api.GET("/auth/me", authController.Me)
	api.PUT("/auth/me", authMiddleware.RequireAuthenticated(), authController.UpdateProfile)

	// Public catalog reads
	api.GET("/books", booksController.List)
	api.GET("/books/:id", booksController.Get)
	api.GET("/books/:id/comments", commentsController.ListForBook)
	api.POST("/books/:id/download", booksController.Download)
	api.GET("/categories", categoriesController.List)
	api.GET("/categories/:id", categoriesController.Get)
	api.GET("/authors", authorsController.List)
	api.GET("/authors/:id", authorsController.Get)
	api.GET("/series", seriesController.List)
	api.GET("/series/:id", seriesController.Get)
	api.GET("/settings", settingsController.Get)

	// Session-gated, self-scoped
	authenticated := api.Group("", authMiddleware.RequireAuthenticated())
	authenticated.POST("/books/:id/comments", commentsController.Create)
	authenticated.POST("/comments/:id/helpful", commentsController.MarkHelpful)
	authenticated.GET("/favorites", favoritesController.List)
	authenticated.POST("/favorites", favoritesController.Add)
	authenticated.DELETE("/favorites/:bookId", favoritesController.Remove)
	authenticated.GET("/favorites/:bookId/check", favoritesController.Check)
	authenticated.GET("/reading-history", historyController.List)
	authenticated.POST("/reading-history", historyController.Upsert)
	authenticated.GET("/reading-history/:bookId", historyController.GetForBook)

	// Admin mutations
	admin := api.Group("", authMiddleware.RequireAdmin())
	admin.POST("/books", booksController.Create)
	admin.PUT("/books/:id", booksController.Update)
	admin.DELETE("/books/:id", booksController.Delete)
	admin.POST("/categories", categoriesController.Create)
	admin.PUT("/categories/:id", categoriesController.Update)
	admin.DELETE("/categories/:id", categoriesController.Delete)
	admin.POST("/authors", authorsController.Create)
	admin.PUT("/authors/:id", authorsController.Update)
	admin.DELETE("/authors/:id", authorsController.Delete)
	admin.POST("/series", seriesController.Create)
	admin.PUT("/series/:id", seriesController.Update)
	admin.DELETE("/series/:id", seriesController.Delete)
	admin.PUT("/settings", settingsController.Update)
	admin.GET("/users", usersController.List)
	admin.PUT("/users/:id/role", usersController.UpdateRole)
	admin.DELETE("/users/:id", usersController.Delete)
	admin.GET("/admin/comments", commentsController.ModerationQueue)
	admin.POST("/admin/comments/:id/approve", commentsController.Approve)
	admin.DELETE("/admin/comments/:id", commentsController.Delete)
	admin.GET("/admin/stats", statsController.Stats)

	return router
}
