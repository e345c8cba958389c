package codec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kitchenlog/dishdiary/internal/types"
)

var fenceRe = regexp.MustCompile("(?s)```json\n(.+?)\n```")

// EncodeOrder renders an order event as a comment body: a fenced JSON block
// with a fixed field order. The timestamp is captured here, at encode time —
// any timestamp already set on the event is ignored.
func EncodeOrder(e types.OrderEvent) string {
	var b strings.Builder
	b.WriteString("```json\n{\n")
	fmt.Fprintf(&b, "  \"type\": %s,\n", jsonString(types.EventTypeOrder))
	fmt.Fprintf(&b, "  \"dish_id\": %d,\n", e.DishID)
	fmt.Fprintf(&b, "  \"dish_name\": %s,\n", jsonString(e.DishName))
	fmt.Fprintf(&b, "  \"user\": %s,\n", jsonString(e.User))
	fmt.Fprintf(&b, "  \"timestamp\": %s,\n", jsonString(time.Now().UTC().Format(time.RFC3339)))
	fmt.Fprintf(&b, "  \"rating\": %d,\n", e.Rating)
	fmt.Fprintf(&b, "  \"comment\": %s\n", jsonString(e.Comment))
	b.WriteString("}\n```")
	return b.String()
}

// DecodeOrder attempts to read an order event out of a comment body. It
// first looks for a fenced JSON block, then falls back to treating the whole
// body as JSON. Any parse failure yields nil, never an error: this is how
// free-text human comments sharing the channel are silently skipped.
//
// Callers must still check that the decoded event's Type is
// types.EventTypeOrder before treating it as an order.
func DecodeOrder(body string) *types.OrderEvent {
	raw := body
	if match := fenceRe.FindStringSubmatch(body); match != nil {
		raw = match[1]
	}

	var e types.OrderEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil
	}
	return &e
}

// jsonString marshals a string as a JSON literal. Marshaling a plain string
// cannot fail, so the error is discarded.
func jsonString(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
