//go:build tesseract

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
	"jamtools/internal/logger"
)

// TesseractEngine implements Engine with a local Tesseract installation.
type TesseractEngine struct {
	languages     []string
	clientFactory func() *gosseract.Client
	log           zerolog.Logger
}

// NewTesseractEngine constructs a Tesseract-backed engine.
func NewTesseractEngine(languages []string) (Engine, error) {
	return &TesseractEngine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
		log:           logger.WithComponent("ocr-tesseract"),
	}, nil
}

// Name implements Engine.
func (e *TesseractEngine) Name() string { return EngineTesseract }

// ExtractPage recognizes one image. A fresh client is used per page so that
// pages can be processed from several goroutines.
func (e *TesseractEngine) ExtractPage(ctx context.Context, img []byte) (*PageResult, error) {
	const op = "ExtractPage"

	if len(img) == 0 {
		return nil, NewOCRError(op, ErrEmptyImage, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, NewOCRError(op, err, "")
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(img); err != nil {
		return nil, NewOCRError(op, ErrExternalService, fmt.Sprintf("set image: %v", err))
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, NewOCRError(op, ErrExternalService, fmt.Sprintf("set languages: %v", err))
		}
	}

	text, err := c.Text()
	if err != nil {
		return nil, NewOCRError(op, ErrExternalService, fmt.Sprintf("recognize text: %v", err))
	}
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, NewOCRError(op, ErrExternalService, fmt.Sprintf("word boxes: %v", err))
	}

	result := newPageResult(text)
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(img)); err == nil {
		result.Width = cfg.Width
		result.Height = cfg.Height
	} else {
		e.log.Warn().Err(err).Msg("Could not read image dimensions")
	}

	for _, b := range boxes {
		result.Words = append(result.Words, Word{
			Text:       b.Word,
			BBox:       NewBoundingBox(rectVertices(b.Box)),
			Confidence: float32(b.Confidence / 100.0),
		})
	}

	return result, nil
}

// Close is a no-op; clients are closed after every page.
func (e *TesseractEngine) Close() error {
	return nil
}
