package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/gpt-image-cli/pkg/domain"
	"github.com/dskvich/gpt-image-cli/pkg/retry"
)

type client struct {
	api *openai.Client
}

// NewClient creates an image generation client. An empty baseURL keeps the
// public OpenAI endpoint; hc is expected to carry the retry transport.
func NewClient(token, baseURL string, hc *http.Client) (*client, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if hc != nil {
		cfg.HTTPClient = hc
	}

	return &client{api: openai.NewClientWithConfig(cfg)}, nil
}

func (c *client) GenerateImage(ctx context.Context, req domain.ImageRequest) (*domain.ImageResponse, error) {
	ctx = retry.WithAttemptCounter(ctx)

	imageReq := openai.ImageRequest{
		Model:  string(req.Model),
		Prompt: req.Prompt,
		N:      req.N,
		Size:   string(req.Size),
	}
	if req.Model.ReturnsURLByDefault() {
		imageReq.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}

	slog.DebugContext(ctx, "Sending image request", "model", req.Model, "size", req.Size, "n", req.N)

	resp, err := c.api.CreateImage(ctx, imageReq)
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrNoImageData)
	}

	images := make([]domain.GeneratedImage, 0, len(resp.Data))
	for _, d := range resp.Data {
		images = append(images, domain.GeneratedImage{
			B64JSON:       d.B64JSON,
			RevisedPrompt: d.RevisedPrompt,
		})
	}

	return &domain.ImageResponse{
		Created:  resp.Created,
		Images:   images,
		Usage:    toUsage(resp.Usage),
		Attempts: retry.Attempts(ctx),
	}, nil
}

func toUsage(u openai.ImageResponseUsage) domain.Usage {
	total := u.TotalTokens
	if total == 0 {
		total = u.InputTokens + u.OutputTokens
	}
	return domain.Usage{
		TotalTokens:  total,
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
	}
}

// classifyError splits API failures into rate limits, which the transport has
// already retried, and everything else.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("creating image: %w", err)
	}

	if statusCode(err) == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}

	return fmt.Errorf("%w: %w", domain.ErrGeneration, err)
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}

	return 0
}
