package port

import (
	"artbot/internal/core/domain"
	"context"
)

type ImageConverter interface {
	// Convert submits the request to the conversion endpoint and returns the stylized image. Any returned error
	// is a *domain.ConversionError.
	Convert(ctx context.Context, request *domain.ConversionRequest) (*domain.ConvertedImage, error)
}

type HealthChecker interface {
	// Ping checks that the conversion endpoint is reachable and returns its greeting.
	Ping(ctx context.Context) (string, error)
}

type ImagePreparer interface {
	// Prepare sniffs the image format and shrinks the image to what the endpoint accepts.
	Prepare(ctx context.Context, data []byte, filename string) (*domain.Upload, error)
}

type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
