package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenlog/dishdiary/internal/types"
)

func TestEncodeMetadataWireFormat(t *testing.T) {
	m := types.DishMetadata{
		Image:       "https://example.com/mapo.jpg",
		Description: "classic mapo tofu",
		RatingCount: 2,
		RatingSum:   7,
		OrderCount:  5,
		CreatedAt:   "2026-08-01",
	}

	want := `---
image: https://example.com/mapo.jpg
description: classic mapo tofu
rating_count: 2
rating_sum: 7
order_count: 5
created_at: 2026-08-01
---

classic mapo tofu`

	assert.Equal(t, want, EncodeMetadata(m))
}

func TestMetadataRoundTrip(t *testing.T) {
	records := []types.DishMetadata{
		{Image: "https://x/1.jpg", Description: "spicy", RatingCount: 3, RatingSum: 14, OrderCount: 9, CreatedAt: "2025-12-31"},
		{Description: "no image", CreatedAt: "2026-01-15"},
		{Image: "https://x/2.jpg", CreatedAt: "2026-02-02"},
	}
	for _, r := range records {
		assert.Equal(t, r, DecodeMetadata(EncodeMetadata(r)))
	}
}

func TestDecodeMetadataDefaultsOnMissingHeader(t *testing.T) {
	var zero types.DishMetadata
	assert.Equal(t, zero, DecodeMetadata(""))
	assert.Equal(t, zero, DecodeMetadata("just a plain old issue body\nwith two lines"))
	// An unterminated marker is not a header.
	assert.Equal(t, zero, DecodeMetadata("---\nimage: x\n"))
}

func TestDecodeMetadataOrderIndependent(t *testing.T) {
	body := `---
created_at: 2026-03-01
order_count: 4
description: shuffled header
rating_sum: 10
image: https://x/3.jpg
rating_count: 2
---

shuffled header`

	m := DecodeMetadata(body)
	assert.Equal(t, types.DishMetadata{
		Image:       "https://x/3.jpg",
		Description: "shuffled header",
		RatingCount: 2,
		RatingSum:   10,
		OrderCount:  4,
		CreatedAt:   "2026-03-01",
	}, m)
}

func TestDecodeMetadataIgnoresUnknownKeys(t *testing.T) {
	body := `---
image: https://x/4.jpg
spice_level: volcanic
created_at: 2026-04-01
---
`
	m := DecodeMetadata(body)
	assert.Equal(t, "https://x/4.jpg", m.Image)
	assert.Equal(t, "2026-04-01", m.CreatedAt)
	assert.Zero(t, m.OrderCount)
}

func TestDecodeMetadataBadCounts(t *testing.T) {
	body := `---
rating_count: many
rating_sum: 7.5
order_count: 3
---
`
	m := DecodeMetadata(body)
	assert.Equal(t, 0, m.RatingCount)
	assert.Equal(t, 0, m.RatingSum)
	assert.Equal(t, 3, m.OrderCount)
}

func TestEncodeMetadataDefaultsCreatedAt(t *testing.T) {
	out := EncodeMetadata(types.DishMetadata{Description: "fresh"})
	m := DecodeMetadata(out)
	require.NotEmpty(t, m.CreatedAt)
	// Date-only, not a full timestamp.
	assert.Len(t, m.CreatedAt, len("2006-01-02"))
	assert.False(t, strings.Contains(m.CreatedAt, "T"))
}
