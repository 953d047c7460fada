package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

var ErrFileTooLarge = errors.New("file too large")

// DownloadFile returns the byte content of a file on a provided URL. A positive maxBytes stops reading once the
// body exceeds it.
func DownloadFile(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Send()
		return nil, err
	}

	if maxBytes > 0 && res.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, res.ContentLength, maxBytes)
	}

	var body io.Reader = res.Body
	if maxBytes > 0 {
		body = io.LimitReader(res.Body, maxBytes+1)
	}

	buf, err := io.ReadAll(body)
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	if maxBytes > 0 && int64(len(buf)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxBytes)
	}

	log.Debug().Int("bytes", len(buf)).Msg("downloaded file")

	return buf, nil
}

// Downloader fetches chat attachments from the Telegram file API.
type Downloader struct {
	maxBytes int64
}

func NewDownloader(maxBytes int64) *Downloader {
	return &Downloader{maxBytes: maxBytes}
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return DownloadFile(ctx, url, d.maxBytes)
}
