package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ashapiro/talmud-corpus/internal/database/corpus"
)

// CorpusController serves the read-only browse API over the ingested
// corpus. Ingestion is the only writer; there are no write endpoints.
type CorpusController struct {
	repo *corpus.Repository
}

func NewCorpusController(repo *corpus.Repository) *CorpusController {
	return &CorpusController{repo: repo}
}

func (controller *CorpusController) GetAllBooks(c *gin.Context) {
	books, err := controller.repo.GetAllBooks()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *CorpusController) GetBookByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	book, err := controller.repo.GetBookByID(id)
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *CorpusController) GetBookPages(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := controller.repo.GetBookByID(id); err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	pages, err := controller.repo.GetPagesForBook(id)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"pages": pages, "count": len(pages)})
}

func (controller *CorpusController) GetPagePassages(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	page, passages, err := controller.repo.GetPageWithPassages(id)
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"page":     page,
		"passages": passages,
		"count":    len(passages),
	})
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
