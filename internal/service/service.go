package service

import (
	"context"
	"log/slog"

	"jobportal/internal/cache"
	"jobportal/internal/logging"
	"jobportal/internal/media"
	"jobportal/internal/metrics"
)

// MediaStore uploads a file and reports the outcome without failing the caller.
type MediaStore interface {
	Store(ctx context.Context, file media.File, folder string) media.Outcome
}

// Deps holds the collaborators shared by every service.
type Deps struct {
	Cache   *cache.Client
	Media   MediaStore
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	return d
}

// storeOptional uploads file when present. A failed upload is logged and
// counted; the returned URL is then empty.
func (d Deps) storeOptional(ctx context.Context, file *media.File, folder string) string {
	if file == nil || d.Media == nil {
		return ""
	}
	out := d.Media.Store(ctx, *file, folder)
	if !out.OK() {
		d.Metrics.RecordUploadFailure(folder)
		if out.Err != nil {
			logging.LogError(d.Logger, "media upload failed", out.Err, "folder", folder, "filename", file.Filename)
		}
		return ""
	}
	return out.URL
}

func strPtr(s string) *string {
	return &s
}
