// Package media uploads images to a hosted asset service and returns the
// hosted URL. The host exposes no delete endpoint, so removing a reference
// from a product leaves the asset behind.
package media

import (
	"context"
	"io"

	"github.com/goliatone/go-errors"
)

// Upload is one file headed for the asset host.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Result is the hosted asset as the host reports it.
type Result struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

// Uploader pushes one file to the asset host.
type Uploader interface {
	Upload(ctx context.Context, up Upload) (*Result, error)
}

// ErrUploadRejected is the boundary error for host-side upload failures.
var ErrUploadRejected = errors.New("image upload failed", errors.CategoryOperation).
	WithTextCode("UPLOAD_REJECTED")
