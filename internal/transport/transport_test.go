package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchAllReturnsSeed(t *testing.T) {
	m := NewMock(WithLatency(0))

	records, err := m.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, 1, records[0].ID)
	require.Equal(t, "João", records[0].Author)
	require.Equal(t, 3, records[2].ID)
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	m := NewMock(WithLatency(0))

	first, err := m.Append(context.Background(), "Alice", "hi")
	require.NoError(t, err)
	require.Equal(t, 4, first.ID)

	second, err := m.Append(context.Background(), "Alice", "again")
	require.NoError(t, err)
	require.Equal(t, 5, second.ID)
}

func TestFetchAllResetsToSeed(t *testing.T) {
	m := NewMock(WithLatency(0))

	_, err := m.Append(context.Background(), "Alice", "hi")
	require.NoError(t, err)

	records, err := m.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3, "fetch must discard appended records and return the seed")

	// id assignment restarts after the reset as well
	rec, err := m.Append(context.Background(), "Alice", "hi")
	require.NoError(t, err)
	require.Equal(t, 4, rec.ID)
}

func TestAppendHonorsContextCancellation(t *testing.T) {
	m := NewMock(WithLatency(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Append(ctx, "Alice", "hi")
	require.Error(t, err)
}
