package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
	"github.com/custodia-labs/snapshop/internal/core/ports/driving"
	"github.com/custodia-labs/snapshop/internal/logger"
)

// Ensure GenerateService implements the interface.
var _ driving.GenerateService = (*GenerateService)(nil)

// GenerateService renders text prompts to hosted product images.
type GenerateService struct {
	embeddings driven.EmbeddingService
	assets     driven.AssetHost
	events     driven.EventLog
}

// NewGenerateService creates a new prompt-to-image service.
// The events log is optional; the asset host is required.
func NewGenerateService(
	embeddings driven.EmbeddingService,
	assets driven.AssetHost,
	events driven.EventLog,
) *GenerateService {
	return &GenerateService{
		embeddings: embeddings,
		assets:     assets,
		events:     events,
	}
}

// Generate produces an image from the prompt, publishes it and returns the
// hosted URL. The intermediate temp file is removed on every exit path,
// including upload failure.
func (g *GenerateService) Generate(ctx context.Context, prompt, applicationID, companyID string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", domain.ErrInvalidArgument)
	}

	img, err := g.embeddings.GenerateImage(ctx, prompt)
	if err != nil {
		g.record(ctx, applicationID, companyID, domain.EventPromptImageFail, map[string]string{
			"prompt": prompt,
			"error":  err.Error(),
		})
		return "", fmt.Errorf("generate image: %w", err)
	}
	defer func() {
		if err := os.Remove(img.Path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove temp image %s: %v", img.Path, err)
		}
	}()

	url, err := g.assets.Upload(ctx, img.Path, img.FileName)
	if err != nil {
		g.record(ctx, applicationID, companyID, domain.EventPromptImageFail, map[string]string{
			"prompt": prompt,
			"error":  err.Error(),
		})
		return "", fmt.Errorf("upload image: %w", err)
	}

	g.record(ctx, applicationID, companyID, domain.EventPromptImage, map[string]string{
		"prompt":    prompt,
		"image_url": url,
	})

	logger.Info("Generated image for prompt published at %s", url)
	return url, nil
}

// record writes one analytics event, best effort.
func (g *GenerateService) record(ctx context.Context, applicationID, companyID string, typ domain.EventType, payload any) {
	if g.events == nil {
		return
	}

	summary, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Failed to summarize %s event: %v", typ, err)
		return
	}

	event := domain.Event{
		ApplicationID: applicationID,
		CompanyID:     companyID,
		Type:          typ,
		Query:         string(summary),
	}
	if err := g.events.Record(ctx, event); err != nil {
		logger.Warn("Failed to log %s event: %v", typ, err)
	}
}
