package ocr

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"jamtools/internal/logger"
)

// DocumentProcessor is the subset of the Document AI client used by DocumentAIEngine.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// DocumentAIEngine implements Engine using a Google Document AI OCR processor.
type DocumentAIEngine struct {
	client        DocumentProcessor
	processorName string
	log           zerolog.Logger
}

// NewDocumentAIEngine creates a Document AI engine for the processor in cfg.
func NewDocumentAIEngine(ctx context.Context, cfg EngineConfig) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if cfg.ProjectID == "" {
		return nil, NewOCRError(op, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if cfg.ProcessorID == "" {
		return nil, NewOCRError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	location := cfg.Location
	if location == "" {
		location = "us"
	}

	opts, err := cfg.clientOptions()
	if err != nil {
		return nil, WrapOCRError(op, err, "no credentials found in environment")
	}
	if location != "us" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", location)))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", location))
	}

	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", cfg.ProjectID, location, cfg.ProcessorID)
	return NewDocumentAIEngineWithClient(client, name), nil
}

// NewDocumentAIEngineWithClient creates a Document AI engine with an explicit client (for testing).
func NewDocumentAIEngineWithClient(client DocumentProcessor, processorName string) *DocumentAIEngine {
	return &DocumentAIEngine{
		client:        client,
		processorName: processorName,
		log:           logger.WithComponent("ocr-documentai"),
	}
}

// Name implements Engine.
func (d *DocumentAIEngine) Name() string { return EngineDocumentAI }

// ExtractPage sends one image to the processor and flattens the returned document.
func (d *DocumentAIEngine) ExtractPage(ctx context.Context, image []byte) (*PageResult, error) {
	const op = "ExtractPage"

	if len(image) == 0 {
		return nil, NewOCRError(op, ErrEmptyImage, "")
	}

	req := &documentaipb.ProcessRequest{
		Name: d.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  image,
				MimeType: http.DetectContentType(image),
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, NewOCRError(op, ctxErr, "Document AI call interrupted")
		}
		return nil, NewOCRError(op, ErrExternalService, fmt.Sprintf("Document AI error: %v", err))
	}
	if resp.GetDocument() == nil {
		return nil, NewOCRError(op, ErrExternalService, "no document in response")
	}
	if msg := resp.GetDocument().GetError().GetMessage(); msg != "" {
		return nil, NewOCRError(op, ErrExternalService, fmt.Sprintf("Document AI error: %s", msg))
	}

	result := FlattenDocument(resp.GetDocument())

	d.log.Debug().
		Str("processor", d.processorName).
		Int("words", len(result.Words)).
		Msg("Document AI response flattened")

	return result, nil
}

// FlattenDocument converts Document AI page tokens into a flat word list.
// Token text is resolved through the document text anchors. When a token only
// carries normalized vertices they are scaled by the page dimensions.
func FlattenDocument(doc *documentaipb.Document) *PageResult {
	result := newPageResult(doc.GetText())
	text := []rune(doc.GetText())

	pages := doc.GetPages()
	if len(pages) > 0 {
		result.Width = int(pages[0].GetDimension().GetWidth())
		result.Height = int(pages[0].GetDimension().GetHeight())
	}

	for _, page := range pages {
		width := float64(page.GetDimension().GetWidth())
		height := float64(page.GetDimension().GetHeight())

		for _, token := range page.GetTokens() {
			layout := token.GetLayout()
			result.Words = append(result.Words, Word{
				Text:       strings.TrimSpace(anchorText(layout.GetTextAnchor(), text)),
				BBox:       NewBoundingBox(polyVertices(layout.GetBoundingPoly(), width, height)),
				Confidence: layout.GetConfidence(),
			})
		}
	}

	return result
}

func anchorText(anchor *documentaipb.Document_TextAnchor, text []rune) string {
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start := int(seg.GetStartIndex())
		end := int(seg.GetEndIndex())
		if end > len(text) {
			end = len(text)
		}
		if start < 0 {
			start = 0
		}
		if start > end {
			start = end
		}
		b.WriteString(string(text[start:end]))
	}
	return b.String()
}

func polyVertices(poly *documentaipb.BoundingPoly, width, height float64) []Vertex {
	if raw := poly.GetVertices(); len(raw) > 0 {
		vertices := make([]Vertex, 0, len(raw))
		for _, v := range raw {
			vertices = append(vertices, Vertex{X: int(v.GetX()), Y: int(v.GetY())})
		}
		return vertices
	}

	normalized := poly.GetNormalizedVertices()
	vertices := make([]Vertex, 0, len(normalized))
	for _, v := range normalized {
		vertices = append(vertices, Vertex{
			X: int(math.Round(float64(v.GetX()) * width)),
			Y: int(math.Round(float64(v.GetY()) * height)),
		})
	}
	return vertices
}

// Close closes the underlying Document AI client.
func (d *DocumentAIEngine) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
