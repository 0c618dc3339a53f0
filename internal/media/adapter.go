package media

import (
	"context"

	"jobportal/internal/errors"
)

// Upload folders.
const (
	FolderProfilePhotos = "profile_photos"
	FolderResumes       = "resumes"
	FolderCompanyLogos  = "company_logos"
)

// Outcome is the result of storing a file: a URL on success or a
// recoverable error the caller may choose to ignore.
type Outcome struct {
	URL string
	Err error
}

// OK reports whether the file was stored.
func (o Outcome) OK() bool {
	return o.Err == nil && o.URL != ""
}

// Adapter encodes uploaded files and hands them to an Uploader.
type Adapter struct {
	uploader Uploader
}

// NewAdapter creates an adapter over uploader.
func NewAdapter(uploader Uploader) *Adapter {
	return &Adapter{uploader: uploader}
}

// Store encodes and uploads file. It never retries. Every failure carries
// the UPLOAD error code.
func (a *Adapter) Store(ctx context.Context, file File, folder string) Outcome {
	encoded, err := Encode(file.Data, file.Filename)
	if err != nil {
		return Outcome{Err: errors.Upload(err, folder)}
	}

	url, err := a.uploader.Upload(ctx, encoded, folder)
	if err != nil {
		return Outcome{Err: errors.Upload(err, folder)}
	}
	return Outcome{URL: url}
}
