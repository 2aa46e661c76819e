// Package qrcode renders provisioning URIs as QR code images, either as raw PNG
// bytes or as a data URI that clients can display without a second request.
//
// The package is a thin wrapper around github.com/skip2/go-qrcode that adds
// defaults (256 px, Medium recovery) and input validation.
//
// # Usage
//
//	uri, err := qrcode.DataURI(key.URI, qrcode.WithSize(320))
//	if err != nil {
//	    return err
//	}
//	// uri == "data:image/png;base64,iVBORw0KGgo..."
//
// Errors are package-level variables (ErrEmptyContent, ErrFailedToGenerateQRCode)
// comparable with errors.Is.
package qrcode
