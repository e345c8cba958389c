package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenlog/dishdiary/internal/gitstore"
	"github.com/kitchenlog/dishdiary/internal/types"
)

// orderComment builds a raw event comment with an explicit timestamp,
// bypassing the codec's encode-time stamping.
func orderComment(dishID int, dishName, user, timestamp string, rating int) string {
	return fmt.Sprintf("```json\n{\"type\":\"order\",\"dish_id\":%d,\"dish_name\":%q,\"user\":%q,\"timestamp\":%q,\"rating\":%d,\"comment\":\"\"}\n```",
		dishID, dishName, user, timestamp, rating)
}

func TestListOrdersAcrossDishesByTimestampDesc(t *testing.T) {
	fake := gitstore.NewFake()
	ctx := context.Background()

	d1, err := fake.CreateDocument(ctx, "汤", "", []string{types.LabelDish})
	require.NoError(t, err)
	d2, err := fake.CreateDocument(ctx, "米饭", "", []string{types.LabelDish})
	require.NoError(t, err)

	// Three events, T1 < T2 < T3, scattered across the two dishes.
	t1 := "2026-08-28T09:00:00Z"
	t2 := "2026-08-28T12:00:00Z"
	t3 := "2026-08-29T08:00:00Z"
	_, err = fake.AddComment(ctx, d1.ID, orderComment(d1.ID, "汤", "mom", t2, 4))
	require.NoError(t, err)
	_, err = fake.AddComment(ctx, d2.ID, orderComment(d2.ID, "米饭", "dad", t1, 0))
	require.NoError(t, err)
	_, err = fake.AddComment(ctx, d1.ID, orderComment(d1.ID, "汤", "kid", t3, 5))
	require.NoError(t, err)

	entries, err := New(fake).List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, t3, entries[0].Timestamp)
	assert.Equal(t, t2, entries[1].Timestamp)
	assert.Equal(t, t1, entries[2].Timestamp)
}

func TestListSkipsUndecodableComments(t *testing.T) {
	fake := gitstore.NewFake()
	ctx := context.Background()

	d, err := fake.CreateDocument(ctx, "面条", "", []string{types.LabelDish})
	require.NoError(t, err)
	_, err = fake.AddComment(ctx, d.ID, "looks delicious!")
	require.NoError(t, err)
	_, err = fake.AddComment(ctx, d.ID, "```json\n{\"type\":\"note\"}\n```")
	require.NoError(t, err)
	_, err = fake.AddComment(ctx, d.ID, orderComment(d.ID, "面条", "mom", "2026-08-29T10:00:00Z", 3))
	require.NoError(t, err)

	entries, err := New(fake).List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mom", entries[0].User)
}

func TestListFallsBackToDishTitle(t *testing.T) {
	fake := gitstore.NewFake()
	ctx := context.Background()

	d, err := fake.CreateDocument(ctx, "清蒸鲈鱼", "", []string{types.LabelDish})
	require.NoError(t, err)
	_, err = fake.AddComment(ctx, d.ID, orderComment(d.ID, "", "dad", "2026-08-29T10:00:00Z", 0))
	require.NoError(t, err)

	entries, err := New(fake).List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "清蒸鲈鱼", entries[0].DishName)
	assert.Equal(t, "清蒸鲈鱼", entries[0].DishTitle)
}

func TestListSurfacesStoreFailure(t *testing.T) {
	fake := gitstore.NewFake()
	fake.Err = &gitstore.RemoteError{Op: "list documents", Status: 502}

	_, err := New(fake).List(context.Background())
	var remoteErr *gitstore.RemoteError
	require.ErrorAs(t, err, &remoteErr)
}

func TestWhenFallsBackToCommentTime(t *testing.T) {
	e := Entry{
		OrderEvent:  types.OrderEvent{Timestamp: "garbage"},
		CommentedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, e.CommentedAt, e.When())
}

func TestGroupByDayBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC)

	mk := func(ts string) Entry {
		return Entry{OrderEvent: types.OrderEvent{Type: types.EventTypeOrder, Timestamp: ts}}
	}
	entries := []Entry{
		mk("2026-08-30T00:00:01Z"), // today, just past midnight
		mk("2026-08-29T23:59:59Z"), // yesterday, just before midnight
		mk("2026-08-29T08:00:00Z"), // yesterday
		mk("2026-08-27T20:00:00Z"), // plain date
	}

	groups := GroupByDay(entries, now)
	require.Len(t, groups, 3)
	assert.Equal(t, "Today", groups[0].Key)
	assert.Len(t, groups[0].Entries, 1)
	assert.Equal(t, "Yesterday", groups[1].Key)
	assert.Len(t, groups[1].Entries, 2)
	assert.Equal(t, "Thu, Aug 27 2026", groups[2].Key)
}

func TestGroupByDayEmpty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil, time.Now()))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{10 * 24 * time.Hour, "Aug 20"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RelativeTime(now.Add(-tc.age), now))
	}
}
