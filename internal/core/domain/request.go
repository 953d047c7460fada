package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// AllowedExtensions are the file extensions the conversion endpoint accepts.
var AllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tiff", "webp"}

var mimeExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
	"image/webp": "webp",
}

// Upload is an image ready to be submitted.
type Upload struct {
	Data     []byte
	MimeType string
	Filename string
}

type ConversionRequest struct {
	Image      []byte
	MimeType   string
	Filename   string
	Parameters StyleParameters
}

// NewConversionRequest validates the image and parameters and builds a request.
func NewConversionRequest(upload Upload, params StyleParameters) (*ConversionRequest, error) {
	req := &ConversionRequest{
		Image:      upload.Data,
		MimeType:   upload.MimeType,
		Filename:   upload.Filename,
		Parameters: params,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *ConversionRequest) Style() Style {
	if r.Parameters == nil {
		return ""
	}

	return r.Parameters.Style()
}

func (r *ConversionRequest) Validate() error {
	if len(r.Image) == 0 {
		return NewConversionError(InvalidInput, "please select an image file first", nil)
	}

	if !strings.HasPrefix(strings.ToLower(r.MimeType), "image/") {
		return NewConversionError(InvalidInput, "please select a valid image file", nil)
	}

	if r.Parameters == nil {
		return NewConversionError(InvalidInput, "no style selected", nil)
	}

	if err := r.Parameters.Validate(); err != nil {
		return NewConversionError(InvalidInput, err.Error(), err)
	}

	return nil
}

// UploadFilename is the file name sent with the image part. The endpoint only accepts a fixed set of
// extensions, so one is derived from the mime type when the given name lacks a usable one.
func (r *ConversionRequest) UploadFilename() string {
	name := filepath.Base(r.Filename)
	if name != "." && name != "/" && HasAllowedExtension(name) {
		return name
	}

	ext, ok := mimeExtensions[strings.ToLower(r.MimeType)]
	if !ok {
		ext = "jpg"
	}

	return "image." + ext
}

func HasAllowedExtension(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}

	return false
}

// ConvertedImage is a successfully stylized image.
type ConvertedImage struct {
	Data     []byte
	MimeType string
	Style    Style
}

// DataURI returns the image as a browser displayable data URI.
func (c *ConvertedImage) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", c.MimeType, base64.StdEncoding.EncodeToString(c.Data))
}

func (c *ConvertedImage) Filename() string {
	return fmt.Sprintf("converted_image_%s.jpeg", c.Style)
}

// DecodeImageData decodes the base64 payload returned by the endpoint.
func DecodeImageData(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.New("empty image data")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}

	return data, nil
}
