// Package visionapi provides the typed HTTP client for the external AI
// service that indexes product embeddings and matches uploaded images.
package visionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
	"github.com/custodia-labs/snapshop/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.EmbeddingService = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:5000"

	// DefaultIndexTimeout covers one embeddings_store call. Batch indexing
	// of a full chunk is inherently slow, so this is much longer than the
	// search deadline.
	DefaultIndexTimeout = 3 * time.Minute

	// DefaultSearchTimeout covers one search or health call.
	DefaultSearchTimeout = 30 * time.Second

	// DefaultRequestRate is the proactive throttle (requests per second)
	// applied to every upstream call.
	DefaultRequestRate = 2.0
)

// Config holds configuration for the AI service client.
type Config struct {
	// BaseURL is the AI service base URL (default: http://localhost:5000).
	BaseURL string

	// APIKey is sent as X-API-KEY on every request. Optional.
	APIKey string

	// IndexTimeout is the per-call deadline for indexing and generation
	// requests (default: 3m).
	IndexTimeout time.Duration

	// SearchTimeout is the per-call deadline for search, health and
	// deletion requests (default: 30s).
	SearchTimeout time.Duration

	// RequestRate is the proactive throttle in requests per second
	// (default: 2). Bounds upstream load during chunk dispatch.
	RequestRate float64
}

// Client talks to the AI service over HTTP. All methods are stateless
// calls except GenerateImage, which leaves a temp file for the caller.
type Client struct {
	client        *http.Client
	baseURL       string
	apiKey        string
	indexTimeout  time.Duration
	searchTimeout time.Duration
	limiter       *rate.Limiter
}

// healthResponse is the GET /health response format.
type healthResponse struct {
	Model  string `json:"model"`
	Device string `json:"device"`
}

// indexRequest is the POST /embeddings_store request format.
type indexRequest struct {
	Products      []wireProduct `json:"products"`
	ApplicationID string        `json:"application_id"`
}

// deleteRequest is the POST /delete_embeddings request format.
type deleteRequest struct {
	ApplicationID string `json:"application_id"`
}

// generateRequest is the POST /generate_prompts_to_image request format.
type generateRequest struct {
	Prompt string `json:"prompt"`
}

// errorResponse is the error body the service attaches to non-2xx replies.
type errorResponse struct {
	Error string `json:"error"`
}

// NewClient creates a new AI service client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.IndexTimeout == 0 {
		cfg.IndexTimeout = DefaultIndexTimeout
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.RequestRate == 0 {
		cfg.RequestRate = DefaultRequestRate
	}

	return &Client{
		// Deadlines are per-call via context, not on the http.Client,
		// because indexing and search use different budgets.
		client:        &http.Client{},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		indexTimeout:  cfg.IndexTimeout,
		searchTimeout: cfg.SearchTimeout,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestRate), 1),
	}
}

// CheckHealth probes GET /health. Failures are reported as a value.
func (c *Client) CheckHealth(ctx context.Context) domain.ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.ServiceHealth{Healthy: false, Err: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return domain.ServiceHealth{Healthy: false, Err: err.Error()}
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("AI service health check failed: %v", err)
		return domain.ServiceHealth{Healthy: false, Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.ServiceHealth{
			Healthy: false,
			Err:     fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return domain.ServiceHealth{Healthy: false, Err: fmt.Sprintf("decode response: %v", err)}
	}

	logger.Info("AI service healthy: model=%s device=%s", health.Model, health.Device)
	return domain.ServiceHealth{Healthy: true, Model: health.Model, Device: health.Device}
}

// IndexBatch sends one batch of catalog items to POST /embeddings_store.
// One HTTP call per invocation; the orchestrator controls batching.
func (c *Client) IndexBatch(ctx context.Context, items []domain.CatalogItem, applicationID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.indexTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := indexRequest{
		Products:      toWire(items),
		ApplicationID: applicationID,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/embeddings_store",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}
	return nil
}

// SearchByImage uploads the query image as multipart form data to
// POST /search/image and returns the matches in service order.
func (c *Client) SearchByImage(ctx context.Context, query domain.ImageQuery) ([]domain.EmbeddingMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := createImagePart(form, query.FileName, query.MimeType)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(query.Image); err != nil {
		return nil, fmt.Errorf("write image part: %w", err)
	}
	if err := form.WriteField("company_id", query.CompanyID); err != nil {
		return nil, fmt.Errorf("write company_id field: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search/image", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp)
	}

	var matches []domain.EmbeddingMatch
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return matches, nil
}

// RemoveIndex deletes every embedding for the application via
// POST /delete_embeddings.
func (c *Client) RemoveIndex(ctx context.Context, applicationID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	jsonBody, err := json.Marshal(deleteRequest{ApplicationID: applicationID})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/delete_embeddings",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}
	return nil
}

// GenerateImage posts the prompt to /generate_prompts_to_image and streams
// the image bytes to a temp file. The file is fully written (or removed)
// before the call returns; the caller owns deletion of the returned path.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.indexTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	jsonBody, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/generate_prompts_to_image",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp)
	}

	fileName := fmt.Sprintf("generated_image_%s.%s", uuid.NewString(), imageExtension(resp.Header.Get("Content-Type")))
	path := filepath.Join(os.TempDir(), fileName)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("stream image: %w", c.transportError(err))
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("flush temp file: %w", err)
	}

	logger.Debug("Generated image written to %s", path)
	return &domain.GeneratedImage{Path: path, FileName: fileName}, nil
}

// authorize attaches the API key header when configured.
func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}
}

// transportError maps a failed round trip to the domain taxonomy.
// Deadline excess becomes ErrTimeout so callers can choose to retry.
func (c *Client) transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
}

// statusError converts a non-2xx response into ErrEmbeddingService,
// surfacing the upstream error body when present.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var upstream errorResponse
	if err := json.Unmarshal(body, &upstream); err == nil && upstream.Error != "" {
		return fmt.Errorf("%w (status %d): %s", domain.ErrEmbeddingService, resp.StatusCode, upstream.Error)
	}
	return fmt.Errorf("%w (status %d): %s", domain.ErrEmbeddingService, resp.StatusCode, strings.TrimSpace(string(body)))
}

// createImagePart adds the image part with its real content type.
// multipart.Writer.CreateFormFile hardcodes application/octet-stream.
func createImagePart(form *multipart.Writer, fileName, mimeType string) (io.Writer, error) {
	if fileName == "" {
		fileName = "search-image" + extensionFor(mimeType)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, fileName))
	header.Set("Content-Type", mimeType)
	return form.CreatePart(header)
}

// extensionFor derives a filename extension from a mime type.
func extensionFor(mimeType string) string {
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}

// imageExtension extracts the subtype of an image content type, e.g.
// "image/png" -> "png". Defaults to png when absent.
func imageExtension(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
			return sub
		}
	}
	return "png"
}
