// Package upiqr renders UPI payment links as PNG QR codes encoded in data
// URIs, the same shape uploaded QR images are stored in.
package upiqr

import (
	"encoding/base64"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	// Size is the rendered image edge in pixels.
	Size = 512

	dataURIPrefix = "data:image/png;base64,"
)

var (
	// ErrInvalidVPA is returned for virtual payment addresses that are not
	// of the form handle@provider.
	ErrInvalidVPA = errors.New("invalid UPI id")
	// ErrNoSource is returned when neither an image nor a UPI id was given.
	ErrNoSource = errors.New("upiQrImage or upiId is required")
)

var vpaPattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z][a-zA-Z0-9]{1,64}$`)

// Link builds the upi://pay deep link for a payee.
func Link(vpa, payeeName string) (string, error) {
	vpa = strings.TrimSpace(vpa)
	if !vpaPattern.MatchString(vpa) {
		return "", ErrInvalidVPA
	}

	q := url.Values{}
	q.Set("pa", vpa)
	if name := strings.TrimSpace(payeeName); name != "" {
		q.Set("pn", name)
	}
	q.Set("cu", "INR")
	return "upi://pay?" + q.Encode(), nil
}

// DataURI renders the payee's UPI link as a PNG data URI.
func DataURI(vpa, payeeName string) (string, error) {
	link, err := Link(vpa, payeeName)
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(link, qrcode.Medium, Size)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// Resolve returns the uploaded image when there is one and otherwise renders
// a QR code for vpa.
func Resolve(uploaded, vpa, payeeName string) (string, error) {
	if strings.TrimSpace(uploaded) != "" {
		return uploaded, nil
	}
	if strings.TrimSpace(vpa) == "" {
		return "", ErrNoSource
	}
	return DataURI(vpa, payeeName)
}

// IsDataURI reports whether value looks like an embedded image.
func IsDataURI(value string) bool {
	return strings.HasPrefix(value, "data:image/")
}
