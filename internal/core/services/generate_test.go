package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

func tempImage(t *testing.T) *domain.GeneratedImage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "generated_image_test.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))
	return &domain.GeneratedImage{Path: path, FileName: "generated_image_test.png"}
}

func TestGenerateService_Generate_EmptyPrompt(t *testing.T) {
	g := NewGenerateService(&mockEmbeddingService{}, &mockAssetHost{}, nil)

	_, err := g.Generate(context.Background(), "", "app-1", "company-1")

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGenerateService_Generate_Success(t *testing.T) {
	img := tempImage(t)
	embeddings := &mockEmbeddingService{generated: img}
	assets := &mockAssetHost{url: "file:///assets/generated_image_test.png"}
	events := &mockEventLog{}
	g := NewGenerateService(embeddings, assets, events)

	url, err := g.Generate(context.Background(), "red sneaker on white", "app-1", "company-1")

	require.NoError(t, err)
	assert.Equal(t, "file:///assets/generated_image_test.png", url)
	assert.Equal(t, []string{img.Path}, assets.uploads)

	// The temp file is gone after publishing.
	_, statErr := os.Stat(img.Path)
	assert.True(t, os.IsNotExist(statErr))

	recorded := events.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, domain.EventPromptImage, recorded[0].Type)
	assert.Equal(t, "app-1", recorded[0].ApplicationID)
}

func TestGenerateService_Generate_GenerationFailure(t *testing.T) {
	embeddings := &mockEmbeddingService{
		generateErr: errors.New("model unavailable"),
	}
	events := &mockEventLog{}
	g := NewGenerateService(embeddings, &mockAssetHost{}, events)

	_, err := g.Generate(context.Background(), "red sneaker", "app-1", "company-1")

	require.Error(t, err)

	recorded := events.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, domain.EventPromptImageFail, recorded[0].Type)
}

func TestGenerateService_Generate_UploadFailureRemovesTempFile(t *testing.T) {
	img := tempImage(t)
	embeddings := &mockEmbeddingService{generated: img}
	assets := &mockAssetHost{uploadErr: errors.New("disk full")}
	events := &mockEventLog{}
	g := NewGenerateService(embeddings, assets, events)

	_, err := g.Generate(context.Background(), "red sneaker", "app-1", "company-1")

	require.Error(t, err)

	_, statErr := os.Stat(img.Path)
	assert.True(t, os.IsNotExist(statErr))

	recorded := events.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, domain.EventPromptImageFail, recorded[0].Type)
}

func TestGenerateService_Generate_NilEventLog(t *testing.T) {
	img := tempImage(t)
	g := NewGenerateService(&mockEmbeddingService{generated: img}, &mockAssetHost{url: "file:///a.png"}, nil)

	url, err := g.Generate(context.Background(), "red sneaker", "app-1", "company-1")

	require.NoError(t, err)
	assert.Equal(t, "file:///a.png", url)
}
