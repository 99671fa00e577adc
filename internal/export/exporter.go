package export

import (
	"context"
	"errors"

	"catalogforge/internal/models"
)

// ErrEmptySelection is returned when an export is requested with nothing
// selected. The export refuses to run rather than emit an empty document.
var ErrEmptySelection = errors.New("no products selected")

// Exporter runs the catalog export as one logical transaction: fetch every
// selected product's image, wait for all of them, then render the document.
// A single failed image aborts the whole export; no partial catalog is
// ever produced.
type Exporter struct {
	Images   *ImageFetcher
	Renderer Renderer
}

// Export produces the catalog document for the given products, which must
// be in page order.
func (e *Exporter) Export(ctx context.Context, products []models.DecoratedProduct) ([]byte, error) {
	if len(products) == 0 {
		return nil, ErrEmptySelection
	}

	thumbs, err := e.Images.FetchAll(ctx, products)
	if err != nil {
		return nil, err
	}

	return e.Renderer.Render(products, thumbs)
}
