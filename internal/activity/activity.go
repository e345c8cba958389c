// Package activity reconstructs the household's order diary. The store has
// no cross-document index, so the feed is rebuilt on every call: list all
// open dish documents, fan out over their comment collections, decode each
// comment as a candidate order event, and merge everything into one
// timeline sorted by event timestamp descending.
package activity

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kitchenlog/dishdiary/internal/codec"
	"github.com/kitchenlog/dishdiary/internal/gitstore"
	"github.com/kitchenlog/dishdiary/internal/types"
)

// defaultConcurrency bounds the comment-fetch fan-out. One list call plus
// one comment fetch per document is inherently N+1; the bound keeps the
// burst inside the tracker's rate budget.
const defaultConcurrency = 8

// Entry is one diary item: a decoded order event plus where it came from.
type Entry struct {
	types.OrderEvent

	// CommentID is the store id of the comment carrying the event.
	CommentID int64 `json:"id"`
	// DishTitle is the owning dish's current title, carried as display
	// context (the event's own DishName stays frozen at order time).
	DishTitle string `json:"dish_title"`
	// CommentedAt is the store's creation time for the comment, used as
	// the ordering fallback when the event timestamp is malformed.
	CommentedAt time.Time `json:"created_at"`
}

// When returns the instant the entry sorts on: the event timestamp, or the
// comment creation time when the event timestamp does not parse.
func (e Entry) When() time.Time {
	if t := e.Time(); !t.IsZero() {
		return t
	}
	return e.CommentedAt
}

// Aggregator builds the activity feed. It only reads; it never mutates
// events or documents.
type Aggregator struct {
	store       gitstore.Store
	concurrency int
}

// New creates an Aggregator on top of a store.
func New(store gitstore.Store) *Aggregator {
	return &Aggregator{store: store, concurrency: defaultConcurrency}
}

// List returns every order event across all open dishes, most recent first.
// Comments that fail to decode, or decode as a non-order event kind, are
// silently skipped. The full rescan means the feed reflects whatever the
// store returned at call time — nothing is cached.
func (a *Aggregator) List(ctx context.Context) ([]Entry, error) {
	docs, err := a.store.ListDocuments(ctx, types.LabelDish)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	var (
		mu      sync.Mutex
		entries []Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range docs {
		doc := docs[i]
		g.Go(func() error {
			comments, err := a.store.ListComments(gctx, doc.ID)
			if err != nil {
				return fmt.Errorf("list activity: dish %d: %w", doc.ID, err)
			}

			var decoded []Entry
			for _, c := range comments {
				e := codec.DecodeOrder(c.Body)
				if e == nil || e.Type != types.EventTypeOrder {
					continue
				}
				if e.DishName == "" {
					e.DishName = doc.Title
				}
				decoded = append(decoded, Entry{
					OrderEvent:  *e,
					CommentID:   c.ID,
					DishTitle:   doc.Title,
					CommentedAt: c.CreatedAt,
				})
			}

			mu.Lock()
			entries = append(entries, decoded...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].When().After(entries[j].When())
	})
	return entries, nil
}
