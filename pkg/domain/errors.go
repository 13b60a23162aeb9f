package domain

import "errors"

const ExitKeyword = "exit"

var (
	ErrRateLimited = errors.New("rate limited")
	ErrGeneration  = errors.New("image generation failed")
	ErrNoImageData = errors.New("no image data in response")
	ErrDecode      = errors.New("decoding image payload")
)
