package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"catalogforge/internal/export"
	"catalogforge/internal/listing"
	"catalogforge/internal/store"
)

type CatalogHandler struct {
	fetcher  *listing.Fetcher
	exporter *export.Exporter
	log      *slog.Logger
	inFlight atomic.Bool
}

func NewCatalogHandler(fetcher *listing.Fetcher, exporter *export.Exporter, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		fetcher:  fetcher,
		exporter: exporter,
		log:      log,
	}
}

type exportRequest struct {
	// ProductIDs lists the selected products in the order they appear on
	// the loaded page; catalog rows keep that order.
	ProductIDs []string `json:"product_ids" binding:"required"`
}

// Export renders the catalog document for the selected products and serves
// it as a downloadable attachment. Only one export runs at a time.
func (h *CatalogHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.ProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": export.ErrEmptySelection.Error()})
		return
	}

	if !h.inFlight.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "an export is already in progress"})
		return
	}
	defer h.inFlight.Store(false)

	products, err := h.fetcher.FetchByIDs(c.Request.Context(), ownerID(c), req.ProductIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("failed to resolve selection", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	data, err := h.exporter.Export(c.Request.Context(), products)
	if err != nil {
		if errors.Is(err, export.ErrEmptySelection) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("catalog export failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("export failed: %v", err)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.CatalogFilename))
	c.Data(http.StatusOK, "application/pdf", data)
}
