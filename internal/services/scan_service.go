package services

import (
	"context"
	"encoding/base64"
	"errors"

	"offerlens/internal/domain"
)

var (
	ErrEmptyImage    = errors.New("no image data")
	ErrBadImage      = errors.New("image is not valid base64")
	ErrImageTooLarge = errors.New("image too large")
)

// maxImageBytes bounds the decoded scan payload (8 MiB).
const maxImageBytes = 8 << 20

// Analyzer is the extraction side of the external AI service.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, imageBase64 string) (domain.OfferDraft, error)
}

// ScanService validates a captured notice photo and forwards it for
// field extraction. This is the one flow where an upstream error is
// surfaced to the user verbatim: the capture blocks on it and there is
// no fallback.
type ScanService struct {
	AI Analyzer
}

func NewScanService(ai Analyzer) *ScanService { return &ScanService{AI: ai} }

func (s *ScanService) Analyze(ctx context.Context, imageBase64 string) (domain.OfferDraft, error) {
	if imageBase64 == "" {
		return domain.OfferDraft{}, ErrEmptyImage
	}
	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return domain.OfferDraft{}, ErrBadImage
	}
	if len(raw) == 0 {
		return domain.OfferDraft{}, ErrEmptyImage
	}
	if len(raw) > maxImageBytes {
		return domain.OfferDraft{}, ErrImageTooLarge
	}
	return s.AI.AnalyzeImage(ctx, imageBase64)
}
