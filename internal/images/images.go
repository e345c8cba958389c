// Package images stores dish photos in the tracker's backing repository via
// its contents endpoint and hands back a stable raw-content URL for the
// metadata block's image field.
package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kitchenlog/dishdiary/internal/gitstore"
)

// MaxBytes is the decoded size ceiling for an uploaded image.
const MaxBytes = 5 << 20

// ErrEmptyPayload is returned for a missing image payload.
var ErrEmptyPayload = fmt.Errorf("image payload is empty")

// ErrNotBase64 is returned when the payload does not decode as base64.
var ErrNotBase64 = fmt.Errorf("image payload is not valid base64")

// ErrTooLarge is returned when the decoded payload exceeds MaxBytes.
var ErrTooLarge = fmt.Errorf("image exceeds %d bytes", MaxBytes)

// Uploader writes images into the repository serving the dish documents.
type Uploader struct {
	store  gitstore.Store
	owner  string
	repo   string
	branch string
}

// New creates an Uploader. The owner/repo/branch triple is used only to
// build the public raw URL; the store does the writing.
func New(store gitstore.Store, owner, repo, branch string) *Uploader {
	if branch == "" {
		branch = "main"
	}
	return &Uploader{store: store, owner: owner, repo: repo, branch: branch}
}

// Upload accepts a base64 payload, with or without a "data:image/...;base64,"
// prefix, and stores it under a fresh images/ path. Returns the stable
// public URL for the stored file.
func (u *Uploader) Upload(ctx context.Context, payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrEmptyPayload
	}

	// Strip a data-URL prefix if the client sent one.
	if _, after, found := strings.Cut(payload, ","); found {
		payload = after
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotBase64, err)
	}
	if len(decoded) == 0 {
		return "", ErrEmptyPayload
	}
	if len(decoded) > MaxBytes {
		return "", ErrTooLarge
	}

	path := fmt.Sprintf("images/%s.jpg", uuid.NewString())
	if err := u.store.UploadFile(ctx, path, payload, "Upload image: "+path); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", u.owner, u.repo, u.branch, path), nil
}
