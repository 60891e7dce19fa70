package ocr

import (
	"context"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog"
	"jamtools/internal/logger"
)

// ImageAnnotator is the subset of the Vision client used by GoogleVisionEngine.
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// GoogleVisionEngine implements Engine using Google Cloud Vision document text detection.
type GoogleVisionEngine struct {
	client ImageAnnotator
	log    zerolog.Logger
}

// NewGoogleVisionEngine creates a Vision engine with credentials from cfg.
func NewGoogleVisionEngine(ctx context.Context, cfg EngineConfig) (*GoogleVisionEngine, error) {
	const op = "NewGoogleVisionEngine"

	opts, err := cfg.clientOptions()
	if err != nil {
		return nil, WrapOCRError(op, err, "no credentials found in environment")
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to create Vision client")
	}

	return NewGoogleVisionEngineWithClient(client), nil
}

// NewGoogleVisionEngineWithClient creates a Vision engine with an explicit client (for testing).
func NewGoogleVisionEngineWithClient(client ImageAnnotator) *GoogleVisionEngine {
	return &GoogleVisionEngine{
		client: client,
		log:    logger.WithComponent("ocr-vision"),
	}
}

// Name implements Engine.
func (g *GoogleVisionEngine) Name() string { return EngineVision }

// ExtractPage sends one image to Vision and flattens the response.
func (g *GoogleVisionEngine) ExtractPage(ctx context.Context, image []byte) (*PageResult, error) {
	const op = "ExtractPage"

	if len(image) == 0 {
		return nil, NewOCRError(op, ErrEmptyImage, "")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, NewOCRError(op, ctxErr, "Vision API call interrupted")
		}
		return nil, NewOCRError(op, ErrExternalService, fmt.Sprintf("Vision API call failed: %v", err))
	}

	if len(resp.GetResponses()) == 0 {
		return nil, NewOCRError(op, ErrExternalService, "no response from Vision API")
	}

	imageResp := resp.GetResponses()[0]
	if msg := imageResp.GetError().GetMessage(); msg != "" {
		return nil, NewOCRError(op, ErrExternalService, fmt.Sprintf("Vision API error: %s", msg))
	}

	result := FlattenAnnotation(imageResp.GetFullTextAnnotation())

	g.log.Debug().
		Int("words", len(result.Words)).
		Int("width", result.Width).
		Int("height", result.Height).
		Msg("Vision response flattened")

	return result, nil
}

// FlattenAnnotation converts Vision's page→block→paragraph→word hierarchy into
// a flat word list. A word's text is the concatenation of its symbols. Page
// dimensions come from the first page.
func FlattenAnnotation(annotation *visionpb.TextAnnotation) *PageResult {
	result := newPageResult(annotation.GetText())

	pages := annotation.GetPages()
	if len(pages) > 0 {
		result.Width = int(pages[0].GetWidth())
		result.Height = int(pages[0].GetHeight())
	}

	for _, page := range pages {
		for _, block := range page.GetBlocks() {
			for _, paragraph := range block.GetParagraphs() {
				for _, word := range paragraph.GetWords() {
					result.Words = append(result.Words, visionWord(word))
				}
			}
		}
	}

	return result
}

func visionWord(word *visionpb.Word) Word {
	var text string
	for _, symbol := range word.GetSymbols() {
		text += symbol.GetText()
	}

	raw := word.GetBoundingBox().GetVertices()
	vertices := make([]Vertex, 0, len(raw))
	for _, v := range raw {
		vertices = append(vertices, Vertex{X: int(v.GetX()), Y: int(v.GetY())})
	}

	return Word{
		Text:       text,
		BBox:       NewBoundingBox(vertices),
		Confidence: word.GetConfidence(),
	}
}

// Close closes the underlying Vision client.
func (g *GoogleVisionEngine) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
