package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"catalogforge/internal/models"
)

// CatalogFilename is the deterministic name of the exported document.
const CatalogFilename = "product-catalog.pdf"

// Table geometry, in millimeters on a portrait A4 page.
const (
	marginLeft   = 14.0
	titleY       = 16.0
	tableTop     = 20.0
	headerHeight = 10.0
	rowHeight    = 30.0
	imageInset   = 2.0
	pageBottom   = 287.0
)

type column struct {
	title string
	width float64
}

var columns = []column{
	{"Image", 32},
	{"Name", 62},
	{"Category", 38},
	{"Price", 28},
	{"Quantity", 22},
}

// Renderer produces the catalog document from decorated products and their
// pre-fetched thumbnails.
type Renderer struct {
	CurrencySymbol string
}

// Render draws the catalog table: a title, a header row, and one body row
// per product in input order, each with its image drawn square at the left
// of the row.
func (r Renderer) Render(products []models.DecoratedProduct, thumbs [][]byte) ([]byte, error) {
	if len(thumbs) != len(products) {
		return nil, fmt.Errorf("have %d thumbnails for %d products", len(thumbs), len(products))
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginLeft, titleY, "Product Catalog")

	y := r.drawHeader(pdf, tableTop)

	for i, p := range products {
		if y+rowHeight > pageBottom {
			pdf.AddPage()
			y = r.drawHeader(pdf, tableTop)
		}
		r.drawRow(pdf, y, i, p, thumbs[i])
		y += rowHeight
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing catalog document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r Renderer) drawHeader(pdf *gofpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetXY(marginLeft, y)
	for _, col := range columns {
		pdf.CellFormat(col.width, headerHeight, col.title, "1", 0, "LM", true, 0, "")
	}
	return y + headerHeight
}

func (r Renderer) drawRow(pdf *gofpdf.Fpdf, y float64, index int, p models.DecoratedProduct, thumb []byte) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, y)

	cells := []string{
		"", // image cell
		p.Name,
		p.CategoryName,
		r.FormatPrice(p.Price),
		strconv.Itoa(p.Quantity),
	}
	for i, col := range columns {
		pdf.CellFormat(col.width, rowHeight, cells[i], "1", 0, "LM", false, 0, "")
	}

	// Draw the thumbnail square, inset from the image cell edges.
	name := fmt.Sprintf("thumb-%d", index)
	opts := gofpdf.ImageOptions{ImageType: "JPEG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(thumb))
	side := rowHeight - 2*imageInset
	pdf.ImageOptions(name, marginLeft+imageInset, y+imageInset, side, side, false, opts, 0, "")
}

// FormatPrice renders a price as a fixed two-decimal amount with the
// configured currency symbol.
func (r Renderer) FormatPrice(price float64) string {
	return fmt.Sprintf("%s%.2f", r.CurrencySymbol, price)
}
