// Package upload validates user files and hands them to the OCR and object
// storage collaborators.
package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

const (
	MsgInvalidImage   = "Please upload a valid image file (JPG, PNG, etc.)"
	MsgNoTextDetected = "No text was detected in the image. Please try a clearer image."
	MsgAnalysisFailed = "Failed to analyze image. Please try again."
)

// ExtractionTarget receives the text recovered from an image.
// *conversation.Session satisfies it.
type ExtractionTarget interface {
	AttachExtractedText(ctx context.Context, text, documentType string) (*domain.Message, error)
}

type ImageAnalyzer struct {
	ocr domain.OCRClient
}

// NewImageAnalyzer accepts a nil client; Analyze then fails with
// domain.ErrNotConfigured.
func NewImageAnalyzer(ocr domain.OCRClient) *ImageAnalyzer {
	return &ImageAnalyzer{ocr: ocr}
}

type AnalyzeInput struct {
	File        domain.Upload
	Handwriting bool
}

// Analyze validates the file and extracts its text. The returned error
// carries a user-facing message (see domain.UserMessage).
func (a *ImageAnalyzer) Analyze(ctx context.Context, in AnalyzeInput) (*domain.OCRResult, error) {
	if !strings.HasPrefix(in.File.ContentType, "image/") {
		return nil, domain.NewValidationError(MsgInvalidImage)
	}
	if a.ocr == nil {
		return nil, fmt.Errorf("image analysis: %w", domain.ErrNotConfigured)
	}

	log := observability.LoggerFromContext(ctx).With(
		"file", in.File.Name,
		"content_type", in.File.ContentType,
		"handwriting", in.Handwriting,
	)

	var (
		res *domain.OCRResult
		err error
	)
	if in.Handwriting {
		res, err = a.ocr.AnalyzeHandwriting(ctx, in.File.Data)
	} else {
		res, err = a.ocr.AnalyzeImage(ctx, in.File.Data)
	}
	if err != nil {
		log.Error("image analysis failed", "error", err)
		return nil, domain.NewCollaboratorError(MsgAnalysisFailed, err)
	}
	if res == nil || strings.TrimSpace(res.Text) == "" {
		log.Info("no text detected")
		return nil, domain.NewValidationError(MsgNoTextDetected)
	}

	log.Info("image analyzed", "document_type", res.DocumentType, "chars", len(res.Text))
	return res, nil
}

// AnalyzeInto runs Analyze and relays the result to target. On failure the
// target is left untouched.
func (a *ImageAnalyzer) AnalyzeInto(ctx context.Context, target ExtractionTarget, in AnalyzeInput) (*domain.OCRResult, *domain.Message, error) {
	res, err := a.Analyze(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	msg, err := target.AttachExtractedText(ctx, res.Text, res.DocumentType)
	if err != nil {
		return nil, nil, err
	}
	return res, msg, nil
}
