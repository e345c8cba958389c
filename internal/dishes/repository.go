// Package dishes implements CRUD over dish documents: it composes the codec
// and the store client, and owns the read-modify-write sequence that keeps
// the aggregate counters in the metadata block.
package dishes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kitchenlog/dishdiary/internal/codec"
	"github.com/kitchenlog/dishdiary/internal/gitstore"
	"github.com/kitchenlog/dishdiary/internal/types"
)

// ValidationError reports missing or malformed input, detected locally
// before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Filter narrows a dish listing.
type Filter struct {
	// Category keeps only dishes carrying this category label. Empty means
	// all categories.
	Category types.Category
	// Query is a case-insensitive substring match over title and body.
	Query string
}

// CreateRequest is the input to Create. Title and Category are required.
type CreateRequest struct {
	Title       string
	Description string
	Category    types.Category
	Image       string
}

// UpdateRequest names the fields to change. Nil fields are left untouched.
// The aggregate counters and created_at cannot be changed through Update.
type UpdateRequest struct {
	Title       *string
	Description *string
	Category    *types.Category
	Image       *string
}

// Detail is a dish together with its decoded order history.
type Detail struct {
	Dish   types.Dish         `json:"dish"`
	Orders []types.OrderEvent `json:"orders"`
}

// Repository provides dish CRUD against the remote store.
//
// The store has no transactions, no server-side locking, and only
// whole-field overwrite, so every metadata update here is an unprotected
// read-modify-write: two concurrent writers to the same dish race, and
// whichever write lands last wins in full, silently discarding the other's
// aggregate delta. The per-id mutex below serializes writers within this
// process, which narrows the window but cannot close it — writers in other
// processes still race. That is an accepted limitation of building on this
// store.
type Repository struct {
	store gitstore.Store
	locks keyedMutex

	// now is the clock, stubbed in tests.
	now func() time.Time
}

// New creates a Repository on top of a store.
func New(store gitstore.Store) *Repository {
	return &Repository{store: store, now: time.Now}
}

// SetNow overrides the repository clock. Tests only.
func (r *Repository) SetNow(now func() time.Time) { r.now = now }

// List returns all open dishes matching the filter, in the store's order
// (creation time descending). The repository does not re-sort.
func (r *Repository) List(ctx context.Context, f Filter) ([]types.Dish, error) {
	docs, err := r.store.ListDocuments(ctx, types.LabelDish)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}

	query := strings.ToLower(f.Query)
	dishes := make([]types.Dish, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if f.Category != "" && !hasLabel(doc.Labels, types.CategoryLabel(f.Category)) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(doc.Title), query) &&
			!strings.Contains(strings.ToLower(doc.Body), query) {
			continue
		}
		dishes = append(dishes, dishFromDocument(doc))
	}
	return dishes, nil
}

// Get fetches one dish with its order history. The document and its
// comments are fetched concurrently. Comments that do not decode as order
// events, or decode as some other event kind, are silently skipped.
func (r *Repository) Get(ctx context.Context, id int) (*Detail, error) {
	var (
		doc      *gitstore.Document
		comments []gitstore.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doc, err = r.store.GetDocument(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = r.store.ListComments(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get dish %d: %w", id, err)
	}

	if doc.Closed() {
		return nil, fmt.Errorf("get dish %d: %w", id, gitstore.ErrNotFound)
	}

	orders := make([]types.OrderEvent, 0, len(comments))
	for _, c := range comments {
		if e := codec.DecodeOrder(c.Body); e != nil && e.Type == types.EventTypeOrder {
			orders = append(orders, *e)
		}
	}

	return &Detail{Dish: dishFromDocument(doc), Orders: orders}, nil
}

// Create adds a new dish with zero-initialized aggregates and created_at set
// to today. The document is tagged with the dish marker label and the
// category label.
func (r *Repository) Create(ctx context.Context, req CreateRequest) (*types.Dish, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "required"}
	}
	if req.Category == "" {
		return nil, &ValidationError{Field: "category", Reason: "required"}
	}
	if !req.Category.Valid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", req.Category)}
	}

	body := codec.EncodeMetadata(types.DishMetadata{
		Image:       req.Image,
		Description: req.Description,
		CreatedAt:   r.now().Format("2006-01-02"),
	})

	labels := []string{types.LabelDish, types.CategoryLabel(req.Category)}
	doc, err := r.store.CreateDocument(ctx, req.Title, body, labels)
	if err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}

	dish := dishFromDocument(doc)
	return &dish, nil
}

// Update merges the provided fields over the dish's current metadata and
// overwrites the document body. created_at and the three aggregate counters
// are always carried over from the current record, never from the caller.
// A category change swaps exactly the category label, leaving every other
// label in place; a title change rides in the same write.
func (r *Repository) Update(ctx context.Context, id int, req UpdateRequest) error {
	if req.Category != nil && !req.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", *req.Category)}
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}

	r.locks.Lock(id)
	defer r.locks.Unlock(id)

	doc, err := r.store.GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("update dish %d: %w", id, err)
	}
	if doc.Closed() {
		return fmt.Errorf("update dish %d: %w", id, gitstore.ErrNotFound)
	}

	meta := codec.DecodeMetadata(doc.Body)
	if req.Image != nil {
		meta.Image = *req.Image
	}
	if req.Description != nil {
		meta.Description = *req.Description
	}
	if meta.CreatedAt == "" {
		meta.CreatedAt = r.now().Format("2006-01-02")
	}

	body := codec.EncodeMetadata(meta)
	upd := gitstore.DocumentUpdate{Body: &body}

	if req.Title != nil && *req.Title != doc.Title {
		upd.Title = req.Title
	}

	if req.Category != nil {
		newLabel := types.CategoryLabel(*req.Category)
		if !hasLabel(doc.Labels, newLabel) {
			labels := make([]string, 0, len(doc.Labels)+1)
			for _, l := range doc.Labels {
				if _, isCategory := types.CategoryFromLabel(l); isCategory {
					continue
				}
				labels = append(labels, l)
			}
			labels = append(labels, newLabel)
			upd.Labels = &labels
		}
	}

	if _, err := r.store.UpdateDocument(ctx, id, upd); err != nil {
		return fmt.Errorf("update dish %d: %w", id, err)
	}
	return nil
}

// Delete soft-deletes the dish by closing its document. Nothing is removed
// from the store.
func (r *Repository) Delete(ctx context.Context, id int) error {
	if err := r.store.CloseDocument(ctx, id); err != nil {
		return fmt.Errorf("delete dish %d: %w", id, err)
	}
	return nil
}

// RecordOrder appends an order event to the dish and then bumps the
// aggregate counters: order_count always, rating_count and rating_sum only
// when a rating was given.
//
// The two writes are not atomic with each other. A crash or timeout between
// them leaves an order event with no matching aggregate bump — detectable by
// recounting the events, not preventable with this store. The event is
// always appended first, so the reverse inconsistency cannot occur.
func (r *Repository) RecordOrder(ctx context.Context, id int, user string, rating int, comment string) error {
	if strings.TrimSpace(user) == "" {
		return &ValidationError{Field: "user", Reason: "required"}
	}
	if rating < 0 || rating > 5 {
		return &ValidationError{Field: "rating", Reason: "must be 0 (none) or 1-5"}
	}

	r.locks.Lock(id)
	defer r.locks.Unlock(id)

	doc, err := r.store.GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("record order for dish %d: %w", id, err)
	}
	if doc.Closed() {
		return fmt.Errorf("record order for dish %d: %w", id, gitstore.ErrNotFound)
	}

	event := codec.EncodeOrder(types.OrderEvent{
		DishID:   id,
		DishName: doc.Title, // captured at order time, never re-synced
		User:     user,
		Rating:   rating,
		Comment:  comment,
	})
	if _, err := r.store.AddComment(ctx, id, event); err != nil {
		return fmt.Errorf("record order for dish %d: %w", id, err)
	}

	meta := codec.DecodeMetadata(doc.Body)
	meta.OrderCount++
	if rating > 0 {
		meta.RatingCount++
		meta.RatingSum += rating
	}
	if meta.CreatedAt == "" {
		meta.CreatedAt = r.now().Format("2006-01-02")
	}

	body := codec.EncodeMetadata(meta)
	if _, err := r.store.UpdateDocument(ctx, id, gitstore.DocumentUpdate{Body: &body}); err != nil {
		return fmt.Errorf("record order for dish %d: update aggregates: %w", id, err)
	}
	return nil
}

// dishFromDocument projects a store document onto the dish type, decoding
// the metadata block and extracting the category label.
func dishFromDocument(doc *gitstore.Document) types.Dish {
	dish := types.Dish{
		ID:           doc.ID,
		Title:        doc.Title,
		Labels:       doc.Labels,
		Metadata:     codec.DecodeMetadata(doc.Body),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		CommentCount: doc.CommentCount,
	}
	for _, l := range doc.Labels {
		if c, ok := types.CategoryFromLabel(l); ok {
			dish.Category = c
			break
		}
	}
	return dish
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
