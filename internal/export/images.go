package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"catalogforge/internal/models"
)

// ThumbMaxDim bounds thumbnail width and height before embedding.
const ThumbMaxDim = 256

// JPEGQuality is the compression quality for thumbnail output.
const JPEGQuality = 85

const maxConcurrentFetches = 8

// AllowedMIME lists the accepted image MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ImageFetcher retrieves product images over HTTP and normalizes them into
// JPEG thumbnails for embedding.
type ImageFetcher struct {
	client *http.Client
}

func NewImageFetcher(timeout time.Duration) *ImageFetcher {
	return &ImageFetcher{client: &http.Client{Timeout: timeout}}
}

// FetchAll retrieves every product's image concurrently and returns
// thumbnails indexed to match the input order. The join is all-or-nothing:
// any failed retrieval aborts the whole batch with an error naming the
// product, and no partial result is returned.
func (f *ImageFetcher) FetchAll(ctx context.Context, products []models.DecoratedProduct) ([][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	thumbs := make([][]byte, len(products))
	for i, p := range products {
		g.Go(func() error {
			if p.ImageURL == "" {
				return fmt.Errorf("product %q has no image", p.Name)
			}
			data, err := f.fetch(ctx, p.ImageURL)
			if err != nil {
				return fmt.Errorf("image for %q: %w", p.Name, err)
			}
			thumb, err := thumbnail(data)
			if err != nil {
				return fmt.Errorf("image for %q: %w", p.Name, err)
			}
			thumbs[i] = thumb
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return thumbs, nil
}

func (f *ImageFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// thumbnail validates the format by sniffing bytes, downscales if larger
// than ThumbMaxDim, and re-encodes as JPEG.
func thumbnail(data []byte) ([]byte, error) {
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img, ThumbMaxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Returns the original if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
