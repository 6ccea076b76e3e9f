package domain

import "encoding/base64"

// ClosetImage is a closet photo selected for outfit suggestions.
type ClosetImage struct {
	Filename  string
	MediaType string
	Data      []byte
}

// DataURL renders the image as a data: URL for the upload preview.
func (i ClosetImage) DataURL() string {
	return "data:" + i.MediaType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}
