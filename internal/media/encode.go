package media

import (
	"encoding/base64"
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrEmptyFile is returned when an upload carries no bytes.
var ErrEmptyFile = errors.New("media: empty file")

// File is an uploaded file held in memory.
type File struct {
	Filename string
	Data     []byte
}

// DataURI is a file encoded for transport to the object store.
type DataURI struct {
	MIME      string
	Extension string
	data      []byte
}

// Encode derives the MIME type of raw from the filename extension, falling
// back to content sniffing when the extension is unknown.
func Encode(raw []byte, filename string) (DataURI, error) {
	if len(raw) == 0 {
		return DataURI{}, ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	mimeType := ""
	if ext != "" {
		mimeType = mime.TypeByExtension(ext)
	}
	if mimeType == "" {
		detected := mimetype.Detect(raw)
		mimeType = detected.String()
		if ext == "" {
			ext = detected.Extension()
		}
	}
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mediaType
	}

	data := make([]byte, len(raw))
	copy(data, raw)
	return DataURI{MIME: mimeType, Extension: ext, data: data}, nil
}

// Bytes returns the decoded payload.
func (d DataURI) Bytes() []byte {
	return d.data
}

// String renders the payload as data:<mime>;base64,<payload>.
func (d DataURI) String() string {
	return "data:" + d.MIME + ";base64," + base64.StdEncoding.EncodeToString(d.data)
}
