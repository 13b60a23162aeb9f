package domain

type ImageModel string

const (
	DallE2    ImageModel = "dall-e-2"
	DallE3    ImageModel = "dall-e-3"
	GptImage1 ImageModel = "gpt-image-1"
)

type ImageSize string

const (
	Size256x256   ImageSize = "256x256"
	Size512x512   ImageSize = "512x512"
	Size1024x1024 ImageSize = "1024x1024"
	Size1024x1536 ImageSize = "1024x1536"
	Size1536x1024 ImageSize = "1536x1024"
)

// ReturnsURLByDefault reports whether the model answers with image URLs unless
// base64 output is requested explicitly. The gpt-image family always returns base64.
func (m ImageModel) ReturnsURLByDefault() bool {
	return m == DallE2 || m == DallE3
}
