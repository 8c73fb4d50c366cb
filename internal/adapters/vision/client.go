// Package vision implements domain.OCRClient on the Cloud Vision
// images:annotate API.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

const (
	featureText     = "TEXT_DETECTION"
	featureDocument = "DOCUMENT_TEXT_DETECTION"
	maxResults      = 50

	// detectedConfidence is reported whenever any text came back.
	detectedConfidence = 0.85
)

var ErrNoResponse = errors.New("no response from Vision API")

type Client struct {
	svc *visionapi.Service
}

var _ domain.OCRClient = (*Client)(nil)

type Options struct {
	APIKey string
	// Endpoint overrides the API base URL. Used by tests.
	Endpoint string
}

// NewClient fails with domain.ErrNotConfigured when no API key is set.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("VISION_API_KEY is not set: %w", domain.ErrNotConfigured)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := visionapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating Vision client: %w", err)
	}
	return &Client{svc: svc}, nil
}

// AnalyzeImage requests both sparse and document text detection.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte) (*domain.OCRResult, error) {
	return c.annotate(ctx, image, featureText, featureDocument)
}

// AnalyzeHandwriting requests document text detection only.
func (c *Client) AnalyzeHandwriting(ctx context.Context, image []byte) (*domain.OCRResult, error) {
	return c.annotate(ctx, image, featureDocument)
}

func (c *Client) annotate(ctx context.Context, image []byte, features ...string) (*domain.OCRResult, error) {
	req := &visionapi.AnnotateImageRequest{
		Image: &visionapi.Image{Content: base64.StdEncoding.EncodeToString(image)},
	}
	for _, f := range features {
		req.Features = append(req.Features, &visionapi.Feature{Type: f, MaxResults: maxResults})
	}

	resp, err := c.svc.Images.Annotate(&visionapi.BatchAnnotateImagesRequest{
		Requests: []*visionapi.AnnotateImageRequest{req},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("vision annotate: %w", err)
	}
	if len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return nil, ErrNoResponse
	}

	r := resp.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return nil, fmt.Errorf("vision API error: %s", r.Error.Message)
	}
	return extract(r), nil
}

// extract prefers the document-level annotation over the first sparse one.
func extract(r *visionapi.AnnotateImageResponse) *domain.OCRResult {
	var text string
	if r.FullTextAnnotation != nil {
		text = r.FullTextAnnotation.Text
	}
	if text == "" && len(r.TextAnnotations) > 0 {
		text = r.TextAnnotations[0].Description
	}

	res := &domain.OCRResult{
		Text:         strings.TrimSpace(text),
		DocumentType: DetectDocumentType(text),
	}
	if text != "" {
		res.Confidence = detectedConfidence
	}
	return res
}
