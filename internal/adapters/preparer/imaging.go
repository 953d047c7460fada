package preparer

import (
	"artbot/internal/core/domain"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	jpegQuality = 90
	// minDimension bounds how far an image is shrunk while trying to meet the byte limit.
	minDimension = 64
)

// Imaging validates uploads and shrinks them to fit the conversion endpoint's limits.
type Imaging struct {
	maxBytes     int64
	maxDimension int
}

func NewImaging(maxBytes int64, maxDimension int) *Imaging {
	return &Imaging{maxBytes: maxBytes, maxDimension: maxDimension}
}

func (p *Imaging) Prepare(ctx context.Context, data []byte, filename string) (*domain.Upload, error) {
	if len(data) == 0 {
		return nil, domain.NewConversionError(domain.InvalidInput, "please select an image file first", nil)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Str("filename", filename).Msg("upload is not a decodable image")
		return nil, domain.NewConversionError(domain.InvalidInput, "please select a valid image file", err)
	}

	l := log.With().
		Str("format", format).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("bytes", len(data)).
		Logger()

	if !p.tooLarge(len(data), cfg.Width, cfg.Height) {
		l.Debug().Msg("upload within limits")
		return &domain.Upload{Data: data, MimeType: "image/" + format, Filename: filename}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.NewConversionError(domain.InvalidInput, "please select a valid image file", err)
	}

	bound := max(cfg.Width, cfg.Height)
	if p.maxDimension > 0 && bound > p.maxDimension {
		bound = p.maxDimension
	}

	var buf bytes.Buffer
	for {
		buf.Reset()

		resized := imaging.Fit(img, bound, bound, imaging.Lanczos)
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, fmt.Errorf("error encoding resized image: %w", err)
		}

		if p.maxBytes <= 0 || int64(buf.Len()) <= p.maxBytes {
			break
		}

		if bound <= minDimension {
			return nil, domain.NewConversionError(domain.InvalidInput,
				fmt.Sprintf("image exceeds the upload limit of %d bytes", p.maxBytes), nil)
		}

		bound = max(bound*3/4, minDimension)
	}

	l.Info().Int("bound", bound).Int("preparedBytes", buf.Len()).Msg("resized upload")

	return &domain.Upload{Data: buf.Bytes(), MimeType: "image/jpeg", Filename: jpegName(filename)}, nil
}

func (p *Imaging) tooLarge(size, width, height int) bool {
	if p.maxBytes > 0 && int64(size) > p.maxBytes {
		return true
	}

	return p.maxDimension > 0 && (width > p.maxDimension || height > p.maxDimension)
}

func jpegName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}

	return base + ".jpg"
}
