package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func fileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestRead_PNG(t *testing.T) {
	img, err := Read(fileHeader(t, "closet.png", pngHeader), 1024)
	require.NoError(t, err)
	assert.Equal(t, "closet.png", img.Filename)
	assert.Equal(t, "image/png", img.MediaType)
	assert.Equal(t, pngHeader, img.Data)
	assert.True(t, strings.HasPrefix(img.DataURL(), "data:image/png;base64,"))
}

func TestRead_TooLarge(t *testing.T) {
	_, err := Read(fileHeader(t, "closet.png", bytes.Repeat([]byte{1}, 64)), 16)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.MsgImageTooLarge, vErr.Message)
}

func TestRead_NotAnImage(t *testing.T) {
	_, err := Read(fileHeader(t, "notes.txt", []byte("<html><body>hi</body></html>")), 1024)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.MsgUnsupportedImage, vErr.Message)
}

func TestDetectMediaType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
		ok   bool
	}{
		{"png", pngHeader, "image/png", true},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, "image/jpeg", true},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "image/gif", true},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 "), "image/webp", true},
		{"bmp", append([]byte("BM"), make([]byte, 32)...), "", false},
		{"ico", []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10}, "", false},
		{"text", []byte("hello, this is not an image at all"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, ok := detectMediaType(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, mt)
		})
	}
}

func TestReadImage_RejectsRenamedText(t *testing.T) {
	_, err := readImage(bytes.NewReader([]byte("hello, this is not an image at all")), "closet.jpg", 1024)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "unsupported_image", vErr.Reason)
}

func TestReadImage_RejectsBMP(t *testing.T) {
	_, err := readImage(bytes.NewReader(append([]byte("BM"), make([]byte, 32)...)), "closet.bmp", 1024)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.MsgUnsupportedImage, vErr.Message)
}

func TestReadImage_StripsDirectories(t *testing.T) {
	img, err := readImage(bytes.NewReader(pngHeader), "../../etc/closet.png", 1024)
	require.NoError(t, err)
	assert.Equal(t, "closet.png", img.Filename)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	img, err := ReadFile(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, "closet.png", img.Filename)
	assert.Equal(t, "image/png", img.MediaType)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.png"), 1024)
	require.Error(t, err)
}
