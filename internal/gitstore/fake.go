package gitstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Fake is an in-memory Store for tests. It honors the same conventions as
// the real tracker: ids are assigned monotonically, ListDocuments returns
// open documents newest-created first, closed documents are still served by
// GetDocument, and updates overwrite fields wholesale.
type Fake struct {
	mu       sync.Mutex
	nextID   int
	nextCID  int64
	docs     map[int]*Document
	comments map[int][]Comment
	uploads  map[string]string

	// Err, when set, is returned by every call. Simulates an unreachable
	// store.
	Err error

	// now is stubbed in tests that care about creation times.
	now func() time.Time
}

var _ Store = (*Fake)(nil)

// NewFake returns an empty fake store.
func NewFake() *Fake {
	return &Fake{
		nextID:   0,
		nextCID:  1000,
		docs:     make(map[int]*Document),
		comments: make(map[int][]Comment),
		uploads:  make(map[string]string),
		now:      time.Now,
	}
}

// SetNow overrides the clock used for document and comment creation times.
func (f *Fake) SetNow(now func() time.Time) { f.now = now }

func (f *Fake) ListDocuments(_ context.Context, label string) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	var out []Document
	for _, d := range f.docs {
		if d.Closed() || !hasLabel(d.Labels, label) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *Fake) GetDocument(_ context.Context, id int) (*Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	d, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	copied := *d
	return &copied, nil
}

func (f *Fake) ListComments(_ context.Context, id int) ([]Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if _, ok := f.docs[id]; !ok {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	return append([]Comment(nil), f.comments[id]...), nil
}

func (f *Fake) CreateDocument(_ context.Context, title, body string, labels []string) (*Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.nextID++
	now := f.now()
	d := &Document{
		ID:        f.nextID,
		Title:     title,
		Body:      body,
		State:     "open",
		Labels:    append([]string(nil), labels...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.docs[d.ID] = d
	copied := *d
	return &copied, nil
}

func (f *Fake) UpdateDocument(_ context.Context, id int, upd DocumentUpdate) (*Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	d, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	if upd.Title != nil {
		d.Title = *upd.Title
	}
	if upd.Body != nil {
		d.Body = *upd.Body
	}
	if upd.Labels != nil {
		d.Labels = append([]string(nil), (*upd.Labels)...)
	}
	d.UpdatedAt = f.now()
	copied := *d
	return &copied, nil
}

func (f *Fake) AddComment(_ context.Context, id int, body string) (*Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	d, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	f.nextCID++
	c := Comment{ID: f.nextCID, Body: body, CreatedAt: f.now()}
	f.comments[id] = append(f.comments[id], c)
	d.CommentCount++
	return &c, nil
}

func (f *Fake) CloseDocument(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	d, ok := f.docs[id]
	if !ok {
		return fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	d.State = "closed"
	return nil
}

func (f *Fake) UploadFile(_ context.Context, path, contentBase64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.uploads[path] = contentBase64
	return nil
}

// Uploads returns a copy of everything uploaded so far, keyed by path.
func (f *Fake) Uploads() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.uploads))
	for k, v := range f.uploads {
		out[k] = v
	}
	return out
}

// Document returns the stored document without the open-state filter, for
// asserting on soft-deleted state.
func (f *Fake) Document(id int) (Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return Document{}, false
	}
	return *d, true
}

// Comments returns the raw comments of a document.
func (f *Fake) Comments(id int) []Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Comment(nil), f.comments[id]...)
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
