package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"catalogforge/internal/listing"
	"catalogforge/internal/models"
	"catalogforge/internal/store"
)

type ProductHandler struct {
	store    *store.Mongo
	fetcher  *listing.Fetcher
	log      *slog.Logger
	pageSize int
}

func NewProductHandler(st *store.Mongo, fetcher *listing.Fetcher, log *slog.Logger, pageSize int) *ProductHandler {
	return &ProductHandler{
		store:    st,
		fetcher:  fetcher,
		log:      log,
		pageSize: pageSize,
	}
}

// ListProducts serves one decorated page for the composed query: optional
// name search and category filter, one of four sort directives, 1-based page.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	query := store.ListQuery{
		OwnerID:    ownerID(c),
		Search:     c.Query("q"),
		CategoryID: c.Query("category"),
		Sort:       store.ParseSort(c.Query("sort")),
		Page:       page,
		PageSize:   h.pageSize,
	}

	result, err := h.fetcher.FetchPage(c.Request.Context(), query)
	if err != nil {
		h.log.Error("failed to list products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        result.Items,
		"total":       result.Total,
		"page":        page,
		"page_size":   h.pageSize,
		"total_pages": listing.PageCount(result.Total, h.pageSize),
	})
}

// CreateProduct inserts a new product for the owner.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := product.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.OwnerID = ownerID(c)
	if err := h.store.CreateProduct(c.Request.Context(), &product); err != nil {
		h.log.Error("failed to create product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct fetches one of the owner's products by id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.store.GetProduct(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.log.Error("failed to get product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct applies a partial update to one of the owner's products.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := update.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updateMap := bson.M{}
	if update.Name != nil {
		updateMap["name"] = *update.Name
	}
	if update.Description != nil {
		updateMap["description"] = *update.Description
	}
	if update.Price != nil {
		updateMap["price"] = *update.Price
	}
	if update.Quantity != nil {
		updateMap["quantity"] = *update.Quantity
	}
	if update.CategoryID != nil {
		updateMap["category_id"] = *update.CategoryID
	}
	if update.ImageURL != nil {
		updateMap["image_url"] = *update.ImageURL
	}

	if len(updateMap) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		return
	}

	if err := h.store.UpdateProduct(c.Request.Context(), ownerID(c), c.Param("id"), updateMap); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.log.Error("failed to update product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

// DeleteProduct removes one of the owner's products. Confirmation happens
// in the client; the API deletes unconditionally.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.store.DeleteProduct(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.log.Error("failed to delete product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
