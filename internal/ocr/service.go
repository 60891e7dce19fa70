// Package ocr extracts word-level text and bounding boxes from scanned page
// images.
//
// Recognition is delegated to an Engine. Google Cloud Vision document text
// detection is the default; a Google Document AI OCR processor and a local
// Tesseract engine are available as alternatives. Whatever the engine, a page
// is flattened into a PageResult: the full page text plus one Word per
// detected word, in reading order.
//
// Credentials for the cloud engines (one of):
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file
//
// The Document AI engine additionally needs GOOGLE_CLOUD_PROJECT,
// GOOGLE_CLOUD_LOCATION and DOCUMENT_AI_PROCESSOR_ID. The Tesseract engine is
// only compiled in with the "tesseract" build tag.
package ocr

import (
	"context"
	"image"
)

// Engine recognizes the words on a single page image.
type Engine interface {
	// Name identifies the engine in logs.
	Name() string

	// ExtractPage runs text detection on one encoded image (JPEG, PNG, ...).
	ExtractPage(ctx context.Context, image []byte) (*PageResult, error)

	// Close releases the engine's client connections.
	Close() error
}

// PageResult is the per-page OCR artifact written to the coordinates directory.
type PageResult struct {
	// FullText is the page text as reported by the engine.
	FullText string `json:"full_text"`

	// Words holds every detected word in reading order.
	Words []Word `json:"words"`

	// Width and Height are the page dimensions in pixels, 0 when unknown.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Word is a single detected word.
type Word struct {
	Text       string      `json:"text"`
	BBox       BoundingBox `json:"bbox"`
	Confidence float32     `json:"confidence"`
}

// BoundingBox locates a word on the page. X, Y, Width and Height assume an
// approximately axis-aligned box; Vertices keeps all four corners for rotated
// text.
type BoundingBox struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Vertices []Vertex `json:"vertices"`
}

// Vertex is a point in page pixel coordinates.
type Vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewBoundingBox derives a box from corner vertices ordered top-left,
// top-right, bottom-right, bottom-left. Missing corners count as the origin.
func NewBoundingBox(vertices []Vertex) BoundingBox {
	corner := func(i int) Vertex {
		if i < len(vertices) {
			return vertices[i]
		}
		return Vertex{}
	}
	topLeft, topRight, bottomRight := corner(0), corner(1), corner(2)

	if vertices == nil {
		vertices = []Vertex{}
	}
	return BoundingBox{
		X:        topLeft.X,
		Y:        topLeft.Y,
		Width:    topRight.X - topLeft.X,
		Height:   bottomRight.Y - topLeft.Y,
		Vertices: vertices,
	}
}

// rectVertices returns the corners of r in bounding-box order.
func rectVertices(r image.Rectangle) []Vertex {
	return []Vertex{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

func newPageResult(fullText string) *PageResult {
	return &PageResult{FullText: fullText, Words: []Word{}}
}
