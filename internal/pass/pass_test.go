package pass

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"absolute pass url", "https://host/pass/abc123", "abc123", true},
		{"relative pass path", "pass/xyz-789", "xyz-789", true},
		{"hex run in text", "some text 1a2b3c4d5e6f", "1a2b3c4d5e6f", true},
		{"nothing to find", "hello world", "", false},
		{"empty", "   ", "", false},
		{"url with surrounding space", "  https://hostel.example/pass/9f1c2d3e-aa  ", "9f1c2d3e-aa", true},
		{"url with nested path", "http://localhost:8080/app/pass/r-1/extra", "r-1", true},
		{"url pass is last segment falls through to hex", "https://host/0123456789ab/pass", "0123456789ab", true},
		{"url without marker uses relative match", "https://host/x?next=pass/q-1", "q-1", true},
		{"uuid", "550e8400-e29b-41d4-a716-446655440000", "550e8400-e29b-41d4-a716-446655440000", true},
		{"opaque url keeps full segment", "x:pass/a_b", "a_b", true},
		{"opaque url with query", "hostel:pass/r_7?src=print", "r_7", true},
		{"short hex ignored", "abc12345", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURL(t *testing.T) {
	assert.Equal(t, "https://hostel.example/pass/abc123", URL("https://hostel.example/", "abc123"))
	assert.Equal(t, "/pass/a%20b", URL("", "a b"))

	id, ok := ExtractID(URL("http://localhost:8080", "9f1c2d3e4f"))
	require.True(t, ok)
	assert.Equal(t, "9f1c2d3e4f", id)
}

func TestQRCode(t *testing.T) {
	data, err := QRCode(URL("http://localhost:8080", "abc123"), 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultQRSize, img.Bounds().Dx())
}
