package converter

import (
	"artbot/internal/core/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Client talks to the artistic image conversion service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{},
	}
}

type convertResponse struct {
	ConvertedImageData string `json:"converted_image_data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type welcomeResponse struct {
	Message string `json:"message"`
}

const missingImageData = "backend did not return converted image data"

// Convert posts the image and the active preset's parameters as a multipart form and decodes the
// base64 image of the response. Failures are always returned as *domain.ConversionError.
func (c *Client) Convert(ctx context.Context, request *domain.ConversionRequest) (*domain.ConvertedImage, error) {
	if request == nil {
		return nil, domain.NewConversionError(domain.InvalidInput, "missing conversion request", nil)
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	requestID := newRequestID()
	l := log.With().
		Str("requestId", requestID).
		Str("style", string(request.Style())).
		Int("bytes", len(request.Image)).
		Logger()

	body, contentType, err := encodeForm(request)
	if err != nil {
		return nil, domain.NewConversionError(domain.InvalidInput,
			fmt.Sprintf("error encoding conversion request: %s", err), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/convert", body)
	if err != nil {
		l.Error().Err(err).Msg("error creating POST request for conversion")
		return nil, domain.NewConversionError(domain.NetworkFailure,
			fmt.Sprintf("error creating conversion request: %s", err), err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	l.Debug().Msg("sending conversion request")

	res, err := c.httpClient.Do(req)
	if err != nil {
		l.Error().Err(err).Msg("conversion request failed")
		return nil, domain.NewConversionError(domain.NetworkFailure,
			fmt.Sprintf("error executing conversion request: %s", err), err)
	}

	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		l.Error().Err(err).Msg("error reading conversion response")
		return nil, domain.NewConversionError(domain.NetworkFailure,
			fmt.Sprintf("error reading conversion response: %s", err), err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		convErr := decodeFailure(res.StatusCode, payload)
		l.Warn().Int("status", res.StatusCode).Str("kind", convErr.Kind.String()).
			Str("error", convErr.Message).Msg("conversion rejected")
		return nil, convErr
	}

	var result convertResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		l.Error().Err(err).Msg("error unmarshalling conversion response")
		return nil, &domain.ConversionError{
			Kind:       domain.MalformedResponse,
			Message:    fmt.Sprintf("error unmarshalling conversion response: %s", err),
			StatusCode: res.StatusCode,
			Err:        err,
		}
	}

	if result.ConvertedImageData == "" {
		l.Error().Msg(missingImageData)
		return nil, &domain.ConversionError{
			Kind:       domain.MalformedResponse,
			Message:    missingImageData,
			StatusCode: res.StatusCode,
		}
	}

	data, err := domain.DecodeImageData(result.ConvertedImageData)
	if err != nil {
		l.Error().Err(err).Msg("error decoding converted image")
		return nil, &domain.ConversionError{
			Kind:       domain.MalformedResponse,
			Message:    fmt.Sprintf("error decoding converted image: %s", err),
			StatusCode: res.StatusCode,
			Err:        err,
		}
	}

	l.Info().Int("convertedBytes", len(data)).Msg("image converted")

	return &domain.ConvertedImage{
		Data:     data,
		MimeType: sniffMimeType(data),
		Style:    request.Style(),
	}, nil
}

// Ping fetches the service root, which answers with a welcome message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/", nil)
	if err != nil {
		return "", fmt.Errorf("error creating ping request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error executing ping request: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code on ping: %d", res.StatusCode)
	}

	var welcome welcomeResponse
	if err := json.NewDecoder(res.Body).Decode(&welcome); err != nil {
		return "", fmt.Errorf("error unmarshalling ping response: %w", err)
	}

	return welcome.Message, nil
}

func decodeFailure(status int, payload []byte) *domain.ConversionError {
	var body errorResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return &domain.ConversionError{
			Kind:       domain.ServerErrorUnparseable,
			Message:    fmt.Sprintf("conversion failed with status %d", status),
			StatusCode: status,
			Err:        err,
		}
	}

	if body.Error == "" {
		return &domain.ConversionError{
			Kind:       domain.ServerErrorUnparseable,
			Message:    fmt.Sprintf("conversion failed with status %d", status),
			StatusCode: status,
		}
	}

	return &domain.ConversionError{
		Kind:       domain.ServerError,
		Message:    body.Error,
		StatusCode: status,
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeForm(request *domain.ConversionRequest) (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`,
		quoteEscaper.Replace(request.UploadFilename())))
	header.Set("Content-Type", request.MimeType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("error creating image part: %w", err)
	}

	if _, err := part.Write(request.Image); err != nil {
		return nil, "", fmt.Errorf("error writing image part: %w", err)
	}

	if err := w.WriteField("style", string(request.Style())); err != nil {
		return nil, "", fmt.Errorf("error writing style field: %w", err)
	}

	for _, field := range request.Parameters.Fields() {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("error writing %s field: %w", field.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("error closing multipart body: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

// sniffMimeType falls back to JPEG, which is what the service encodes.
func sniffMimeType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if strings.HasPrefix(mimeType, "image/") {
		return mimeType
	}

	return "image/jpeg"
}

func newRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Warn().Err(err).Msg("could not generate request id")
		return ""
	}

	return id.String()
}
