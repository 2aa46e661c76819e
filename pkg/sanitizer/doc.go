// Package sanitizer normalizes user input before validation and storage,
// and masks personal data for logs.
package sanitizer
