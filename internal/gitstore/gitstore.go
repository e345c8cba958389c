// Package gitstore is a thin client for the remote issue tracker the diary
// uses as its only persistence layer. A "document" is an issue: an integer
// number assigned by the store, a title, a free-text body, a label set, and
// an ordered list of comments.
//
// The contract is deliberately weak, because the tracker is: listings are
// eventually consistent, updates are whole-field overwrites with no
// optimistic locking, and there are no transactions. Everything built on top
// of this package has to live with those rules.
package gitstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PageSize is the fixed page size of the tracker's list endpoints. Callers
// that exceed it would need to paginate; the diary documents the limit
// rather than paginating (a household does not keep 100 dishes).
const PageSize = 100

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("document not found")

// ErrNotConfigured is returned before any network call when the store
// credentials (token or owner/name repository) are missing.
var ErrNotConfigured = errors.New("store not configured")

// RemoteError is any transport failure, timeout, or non-success status from
// the tracker. Status is the HTTP status of the response, or 0 when the
// request never produced one. The underlying cause is preserved for
// diagnostics.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: store returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: store unreachable: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Document is one persisted record: an issue in the tracker.
type Document struct {
	ID           int
	Title        string
	Body         string
	State        string
	Labels       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CommentCount int
}

// Closed reports whether the document has been soft-deleted.
func (d *Document) Closed() bool { return d.State == "closed" }

// Comment is an appended, conceptually immutable text attached to a
// document.
type Comment struct {
	ID        int64
	Body      string
	Author    string
	CreatedAt time.Time
}

// DocumentUpdate names the fields to overwrite on a document. Nil fields are
// left alone; a non-nil field replaces the stored value wholesale. There is
// no partial patch below field granularity and no compare-and-swap: the
// caller is responsible for having read the latest body first.
type DocumentUpdate struct {
	Title  *string
	Body   *string
	Labels *[]string
}

// Store is the document-store contract the repository and aggregator build
// on. No call is retried automatically, and none of them provide isolation
// or ordering across concurrent callers.
type Store interface {
	// ListDocuments returns all open documents carrying the label, newest
	// first. Eventually consistent: a concurrent update may or may not be
	// visible.
	ListDocuments(ctx context.Context, label string) ([]Document, error)
	// GetDocument fetches one document by id. The store itself returns
	// closed documents; excluding them is the caller's convention.
	GetDocument(ctx context.Context, id int) (*Document, error)
	// ListComments returns the document's comments in insertion order, up
	// to PageSize.
	ListComments(ctx context.Context, id int) ([]Comment, error)
	// CreateDocument creates a document and returns it with the
	// store-assigned id. The id cannot be known before this call returns.
	CreateDocument(ctx context.Context, title, body string, labels []string) (*Document, error)
	// UpdateDocument overwrites the named fields and returns the updated
	// document.
	UpdateDocument(ctx context.Context, id int, upd DocumentUpdate) (*Document, error)
	// AddComment appends a comment to the document.
	AddComment(ctx context.Context, id int, body string) (*Comment, error)
	// CloseDocument soft-deletes the document. Content is retained.
	CloseDocument(ctx context.Context, id int) error
	// UploadFile writes a base64-encoded file into the backing repository
	// at the given path. Used for dish images.
	UploadFile(ctx context.Context, path, contentBase64, message string) error
}
