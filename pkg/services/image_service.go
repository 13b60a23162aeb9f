package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/dskvich/gpt-image-cli/pkg/domain"
	"github.com/dskvich/gpt-image-cli/pkg/progress"
)

type ImageGenerator interface {
	GenerateImage(ctx context.Context, req domain.ImageRequest) (*domain.ImageResponse, error)
}

type ImageWriter interface {
	Write(data []byte) error
	Path() string
}

type imageService struct {
	generator ImageGenerator
	writer    ImageWriter
	reporter  progress.Reporter
	model     domain.ImageModel
	now       func() time.Time
}

func NewImageService(
	generator ImageGenerator,
	writer ImageWriter,
	reporter progress.Reporter,
	model domain.ImageModel,
) *imageService {
	if reporter == nil {
		reporter = progress.Nop
	}
	return &imageService{
		generator: generator,
		writer:    writer,
		reporter:  reporter,
		model:     model,
		now:       time.Now,
	}
}

func (s *imageService) Model() domain.ImageModel { return s.model }

// Generate requests one image for prompt, decodes it and stores it. Nothing
// is written unless the whole call succeeded.
func (s *imageService) Generate(ctx context.Context, prompt string) (*domain.Generation, error) {
	slog.InfoContext(ctx, "Starting image generation", "model", s.model, "prompt", prompt)

	req := domain.NewImageRequest(s.model, prompt)

	s.reporter.Start(fmt.Sprintf("Calling %s API...", s.model))
	start := s.now()
	resp, err := s.generator.GenerateImage(ctx, req)
	elapsed := s.now().Sub(start)
	s.reporter.Stop()

	if err != nil {
		return nil, fmt.Errorf("generating image: %w", err)
	}

	if len(resp.Images) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrNoImageData)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Images[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrNoImageData)
	}

	if err := s.writer.Write(data); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	slog.InfoContext(ctx, "Image generated",
		"size", len(data), "path", s.writer.Path(), "attempts", resp.Attempts, "elapsed", elapsed)

	return &domain.Generation{
		Image:    data,
		Path:     s.writer.Path(),
		Usage:    resp.Usage,
		Elapsed:  elapsed,
		Attempts: resp.Attempts,
	}, nil
}
