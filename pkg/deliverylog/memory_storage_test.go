package deliverylog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/notify/pkg/deliverylog"
)

func TestMemoryStorage_RecordAndLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := deliverylog.NewMemoryStorage()

	notified, err := storage.AlreadyNotified(ctx, []string{"a", "b"}, "match.result:match#m1")
	require.NoError(t, err)
	assert.Empty(t, notified)

	meta := map[string]string{"match_id": "m1"}
	require.NoError(t, storage.Record(ctx, []string{"a", "b"}, "match.result:match#m1", meta))

	notified, err = storage.AlreadyNotified(ctx, []string{"a", "b", "c"}, "match.result:match#m1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, notified)

	// A different key is a different logical event.
	notified, err = storage.AlreadyNotified(ctx, []string{"a"}, "match.result:match#m2")
	require.NoError(t, err)
	assert.Empty(t, notified)
}

func TestMemoryStorage_Record_DuplicatesSilent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := deliverylog.NewMemoryStorage()

	require.NoError(t, storage.Record(ctx, []string{"a"}, "k", map[string]string{"v": "1"}))
	first := storage.Entries("k")
	require.Len(t, first, 1)

	// Re-recording must not error and must not touch the existing entry.
	require.NoError(t, storage.Record(ctx, []string{"a"}, "k", map[string]string{"v": "2"}))
	second := storage.Entries("k")
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, map[string]string{"v": "1"}, second[0].Meta)
}

func TestMemoryStorage_Record_ConcurrentSameKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := deliverylog.NewMemoryStorage()

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = storage.Record(ctx, []string{"a", "b", "c"}, "k", nil)
		}()
	}
	for range 8 {
		<-done
	}

	assert.Len(t, storage.Entries("k"), 3, "one entry per recipient regardless of racing writers")
}
