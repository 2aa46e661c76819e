package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when content string is empty or only whitespace
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrFailedToGenerateQRCode is returned when the QR code generation fails.
	ErrFailedToGenerateQRCode = errors.New("failed to generate QR code")
)

// DefaultSize is the image size in pixels used when no size is specified.
const DefaultSize = 256

const dataURIPrefix = "data:image/png;base64,"

type options struct {
	size  int
	level skipqrcode.RecoveryLevel
}

// Option customizes the rendered image.
type Option func(*options)

// WithSize sets the image width and height in pixels. Non-positive values keep the default.
func WithSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.size = size
		}
	}
}

// WithRecoveryLevel sets the error correction level (defaults to Medium).
func WithRecoveryLevel(level skipqrcode.RecoveryLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// Encode renders content as a PNG QR code.
func Encode(content string, opts ...Option) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	o := options{size: DefaultSize, level: skipqrcode.Medium}
	for _, opt := range opts {
		opt(&o)
	}

	png, err := skipqrcode.Encode(content, o.level, o.size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}

// DataURI renders content as a PNG QR code wrapped in a data URI, ready for an
// <img src> attribute or a JSON field such as qrCodeUrl.
func DataURI(content string, opts ...Option) (string, error) {
	png, err := Encode(content, opts...)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
