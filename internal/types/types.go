// Package types defines the core entities of the dish diary: dishes, their
// embedded metadata record, and order events. Everything here is persisted in
// a remote issue tracker — one document (issue) per dish, one comment per
// order — so these types mirror that wire shape closely.
package types

import (
	"strings"
	"time"
)

// Category is one of the fixed set of dish categories. Categories are stored
// out-of-band as a "category:<name>" label on the dish document, not inside
// the metadata block.
type Category string

// The closed category set. The label names are the compatibility surface with
// existing trackers, so they are kept verbatim from the original data.
const (
	CategoryColdDish  Category = "凉拌"
	CategoryStirFried Category = "小炒肉菜"
	CategoryVegetable Category = "小炒素菜"
	CategorySteamed   Category = "清蒸类"
	CategoryStaple    Category = "主食类"
	CategorySoup      Category = "汤类"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryColdDish,
	CategoryStirFried,
	CategoryVegetable,
	CategorySteamed,
	CategoryStaple,
	CategorySoup,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label constants for dish documents.
const (
	// LabelDish marks a document as a dish. Every dish document carries it;
	// listings filter on it.
	LabelDish = "dish"
	// CategoryLabelPrefix prefixes the category label on a dish document.
	CategoryLabelPrefix = "category:"
)

// CategoryLabel returns the document label for a category.
func CategoryLabel(c Category) string {
	return CategoryLabelPrefix + string(c)
}

// CategoryFromLabel extracts the category from a document label. Returns
// false if the label is not a category label.
func CategoryFromLabel(label string) (Category, bool) {
	if !strings.HasPrefix(label, CategoryLabelPrefix) {
		return "", false
	}
	return Category(strings.TrimPrefix(label, CategoryLabelPrefix)), true
}

// DishMetadata is the structured record embedded in a dish document's body,
// between the header markers. The zero value is the valid default for a
// document with no metadata block.
type DishMetadata struct {
	// Image is an optional URL to the dish photo.
	Image string `json:"image"`
	// Description is optional free text; it is repeated verbatim as the
	// human-readable body below the metadata block.
	Description string `json:"description"`
	// RatingCount is the number of orders that included a rating.
	RatingCount int `json:"rating_count"`
	// RatingSum is the sum of all ratings given (each 1-5).
	RatingSum int `json:"rating_sum"`
	// OrderCount is incremented exactly once per accepted order, rated or not.
	OrderCount int `json:"order_count"`
	// CreatedAt is a date string (2006-01-02), set once at creation and never
	// overwritten by later updates.
	CreatedAt string `json:"created_at"`
}

// AverageRating returns the mean rating and true, or 0 and false when no
// rating has been recorded (the average is undefined, not zero).
func (m DishMetadata) AverageRating() (float64, bool) {
	if m.RatingCount <= 0 {
		return 0, false
	}
	return float64(m.RatingSum) / float64(m.RatingCount), true
}

// Dish is one orderable item, backed by a single remote document.
type Dish struct {
	// ID is the store-assigned document number. Stable and immutable.
	ID int `json:"id"`
	// Title is the dish name, the only field with no default.
	Title string `json:"title"`
	// Category extracted from the document's category label. Empty if the
	// document has no category label.
	Category Category `json:"category"`
	// Labels are all labels on the document, category label included.
	Labels []string `json:"labels"`
	// Metadata is the decoded metadata block.
	Metadata DishMetadata `json:"metadata"`
	// CreatedAt and UpdatedAt are the store's own document timestamps.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// CommentCount is the store's count of attached comments.
	CommentCount int `json:"comments"`
}

// EventTypeOrder is the type tag of an order event. It is the only event
// kind currently defined; the tag exists so future event kinds can share the
// same comment channel.
const EventTypeOrder = "order"

// OrderEvent is one person ordering one dish at one moment. Events are
// append-only: encoded into a comment at order time and never mutated.
type OrderEvent struct {
	Type   string `json:"type"`
	DishID int    `json:"dish_id"`
	// DishName is a denormalized copy of the dish title at order time. It is
	// intentionally not kept in sync with later title edits.
	DishName string `json:"dish_name"`
	// User is a free-text name; there is no identity system.
	User string `json:"user"`
	// Timestamp is RFC 3339, captured when the event is encoded.
	Timestamp string `json:"timestamp"`
	// Rating is 1-5, or 0 meaning no rating was given.
	Rating int `json:"rating"`
	// Comment is optional free text.
	Comment string `json:"comment"`
}

// Time parses the event timestamp. Returns the zero time if the timestamp is
// absent or malformed.
func (e OrderEvent) Time() time.Time {
	t, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
