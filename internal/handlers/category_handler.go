package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalogforge/internal/cache"
	"catalogforge/internal/listing"
	"catalogforge/internal/models"
	"catalogforge/internal/store"
)

type CategoryHandler struct {
	store   *store.Mongo
	fetcher *listing.Fetcher
	cache   *cache.CategoryCache
	log     *slog.Logger
}

func NewCategoryHandler(st *store.Mongo, fetcher *listing.Fetcher, categoryCache *cache.CategoryCache, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		store:   st,
		fetcher: fetcher,
		cache:   categoryCache,
		log:     log,
	}
}

// ListCategories returns all of the owner's categories. Never paginated.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.fetcher.ListCategories(c.Request.Context(), ownerID(c))
	if err != nil {
		h.log.Error("failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// CreateCategory inserts a new category for the owner.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category.OwnerID = ownerID(c)
	if err := h.store.CreateCategory(c.Request.Context(), &category); err != nil {
		h.log.Error("failed to create category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}

	h.cache.Invalidate(category.OwnerID)
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory removes one of the owner's categories. Products keep their
// stored category reference; the decorated label degrades to "Unknown" on
// the next fetch cycle.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	owner := ownerID(c)
	if err := h.store.DeleteCategory(c.Request.Context(), owner, c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.log.Error("failed to delete category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category"})
		return
	}

	h.cache.Invalidate(owner)
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
