package pass

import (
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of a rendered pass code.
const DefaultQRSize = 220

// URL returns the pass link for a resident under baseURL.
func URL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/" + Marker + "/" + url.PathEscape(id)
}

// QRCode renders content as a PNG QR code. size <= 0 uses DefaultQRSize.
func QRCode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
