package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ashapiro/talmud-corpus/internal/database"
	"github.com/ashapiro/talmud-corpus/internal/database/corpus"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(db *database.Database, version string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(db, version)
	corpusController := NewCorpusController(corpus.NewRepository(db.DB))

	api := router.Group("/api")
	api.GET("/health", healthController.Status)
	api.GET("/books", corpusController.GetAllBooks)
	api.GET("/books/:id", corpusController.GetBookByID)
	api.GET("/books/:id/pages", corpusController.GetBookPages)
	api.GET("/pages/:id/passages", corpusController.GetPagePassages)

	return router
}
