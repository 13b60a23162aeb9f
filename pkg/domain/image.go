package domain

import "time"

const ImageCount = 1

type ImageRequest struct {
	Model  ImageModel
	Prompt string
	N      int
	Size   ImageSize
}

// NewImageRequest builds the only request shape the sandbox sends: one square image.
func NewImageRequest(model ImageModel, prompt string) ImageRequest {
	return ImageRequest{
		Model:  model,
		Prompt: prompt,
		N:      ImageCount,
		Size:   Size1024x1024,
	}
}

type Usage struct {
	TotalTokens  int
	InputTokens  int
	OutputTokens int
}

type GeneratedImage struct {
	B64JSON       string
	RevisedPrompt string
}

type ImageResponse struct {
	Created  int64
	Images   []GeneratedImage
	Usage    Usage
	Attempts int
}

// Generation is the outcome of one successful loop iteration.
type Generation struct {
	Image    []byte
	Path     string
	Usage    Usage
	Elapsed  time.Duration
	Attempts int
}
