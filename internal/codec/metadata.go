// Package codec maps structured records to and from the text blobs the
// remote store actually holds: a dish's metadata becomes a line-oriented
// header between marker lines at the top of the document body, and an order
// event becomes a JSON object inside a fenced block in a comment.
//
// Decoding is deliberately forgiving. A body with no header decodes to the
// default record, and a comment that is not a well-formed event decodes to
// nil — scanning a store that also contains free-text human comments must
// never fail.
package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kitchenlog/dishdiary/internal/types"
)

// headerMarker bounds the metadata header at the top of a document body.
const headerMarker = "---"

var (
	headerRe = regexp.MustCompile(`(?s)^---\n(.+?)\n---`)
	lineRe   = regexp.MustCompile(`^(\w+):\s*(.+)$`)
)

// EncodeMetadata renders a metadata record as a document body: the header
// with the six known keys in fixed order, a blank line, then the description
// repeated verbatim as the human-readable body.
//
// Values are written as plain strings with no escaping. A value containing a
// newline or the literal marker sequence will corrupt the header on the next
// decode; this is a known limitation of the format, passed through rather
// than repaired.
func EncodeMetadata(m types.DishMetadata) string {
	createdAt := m.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().Format("2006-01-02")
	}

	var b strings.Builder
	b.WriteString(headerMarker + "\n")
	fmt.Fprintf(&b, "image: %s\n", m.Image)
	fmt.Fprintf(&b, "description: %s\n", m.Description)
	fmt.Fprintf(&b, "rating_count: %d\n", m.RatingCount)
	fmt.Fprintf(&b, "rating_sum: %d\n", m.RatingSum)
	fmt.Fprintf(&b, "order_count: %d\n", m.OrderCount)
	fmt.Fprintf(&b, "created_at: %s\n", createdAt)
	b.WriteString(headerMarker + "\n\n")
	b.WriteString(m.Description)
	return b.String()
}

// DecodeMetadata extracts the metadata record from a document body. A body
// with no header section yields the all-defaults record; this never fails —
// a document lacking the block is a valid, if un-annotated, dish.
//
// Header lines are matched key by key, so their order does not matter.
// Unrecognized keys are ignored, and the three count fields fall back to 0
// when absent or unparseable.
func DecodeMetadata(body string) types.DishMetadata {
	var m types.DishMetadata

	match := headerRe.FindStringSubmatch(body)
	if match == nil {
		return m
	}

	for _, line := range strings.Split(match[1], "\n") {
		kv := lineRe.FindStringSubmatch(line)
		if kv == nil {
			continue
		}
		key, value := kv[1], kv[2]
		switch key {
		case "image":
			m.Image = value
		case "description":
			m.Description = value
		case "rating_count":
			m.RatingCount = parseCount(value)
		case "rating_sum":
			m.RatingSum = parseCount(value)
		case "order_count":
			m.OrderCount = parseCount(value)
		case "created_at":
			m.CreatedAt = value
		}
	}
	return m
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
