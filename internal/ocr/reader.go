// Package ocr captures a screen region of the trading terminal and turns
// it into text. It sits outside the core pipeline behind the TextSource
// interface; everything downstream of the text blob (field extraction,
// validation) lives in internal/signal.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"
	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
)

// Reader OCRs a fixed screen region once per call.
type Reader struct {
	display int
	region  image.Rectangle
	lang    string
}

// NewReader builds a reader for the configured display region. A zero
// region means the whole display.
func NewReader(cfg *infra.Config) *Reader {
	r := cfg.OCR.Region
	rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	if rect.Empty() {
		rect = screenshot.GetDisplayBounds(cfg.OCR.Display)
	}
	return &Reader{
		display: cfg.OCR.Display,
		region:  rect,
		lang:    cfg.OCR.Lang,
	}
}

// Text captures the region, preprocesses it, and returns the recognized
// text blob for this poll cycle.
func (r *Reader) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := screenshot.CaptureRect(r.region)
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}

	processed, err := preprocess(img)
	if err != nil {
		return "", fmt.Errorf("preprocess: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.lang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImageFromBytes(processed); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}

// preprocess binarizes the capture: grayscale then Otsu threshold. The
// terminal overlay is small anti-aliased text; tesseract misreads far
// less of it on a clean binary image.
func preprocess(img image.Image) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(gray, &bin, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	out, err := bin.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
