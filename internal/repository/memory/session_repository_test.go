package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-salesbot-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userTurn(content string) entity.Turn {
	return entity.Turn{Role: "user", Content: content}
}

func TestSaveGetRoundTrip(t *testing.T) {
	repo := NewSessionRepository(50, 24*time.Hour)
	ctx := context.Background()

	turns := []entity.Turn{
		userTurn("สวัสดีค่ะ"),
		{Role: "assistant", Content: "สวัสดีค่ะ สนใจสินค้าตัวไหนคะ"},
	}
	require.NoError(t, repo.Save(ctx, "s1", turns))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.Id)
	assert.Equal(t, turns, got.Turns)
}

func TestGetUnknownSessionIsNilNil(t *testing.T) {
	repo := NewSessionRepository(50, 24*time.Hour)

	got, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetReturnsSnapshot(t *testing.T) {
	repo := NewSessionRepository(50, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", []entity.Turn{userTurn("a")}))

	first, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	first.Turns[0].Content = "mutated"

	second, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a", second.Turns[0].Content)
}

func TestSaveTruncatesOldestTurns(t *testing.T) {
	repo := NewSessionRepository(4, 24*time.Hour)
	ctx := context.Background()

	var turns []entity.Turn
	for i := 0; i < 10; i++ {
		turns = append(turns, userTurn(fmt.Sprintf("turn-%d", i)))
	}
	require.NoError(t, repo.Save(ctx, "s1", turns))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Turns, 4)
	assert.Equal(t, "turn-6", got.Turns[0].Content)
	assert.Equal(t, "turn-9", got.Turns[3].Content)
}

func TestExpiredSessionIsDeletedOnGet(t *testing.T) {
	repo := NewSessionRepository(50, time.Hour)
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return current })

	require.NoError(t, repo.Save(ctx, "s1", []entity.Turn{userTurn("a")}))

	// Just inside the TTL.
	current = current.Add(59 * time.Minute)
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Past it.
	current = current.Add(2 * time.Minute)
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSaveRefreshesExpiry(t *testing.T) {
	repo := NewSessionRepository(50, time.Hour)
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return current })

	require.NoError(t, repo.Save(ctx, "s1", []entity.Turn{userTurn("a")}))

	current = current.Add(50 * time.Minute)
	require.NoError(t, repo.Save(ctx, "s1", []entity.Turn{userTurn("a"), userTurn("b")}))

	// 50 more minutes: past the original deadline, inside the refreshed one.
	current = current.Add(50 * time.Minute)
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Turns, 2)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := NewSessionRepository(50, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", []entity.Turn{userTurn("a")}))
	require.NoError(t, repo.Delete(ctx, "s1"))
	require.NoError(t, repo.Delete(ctx, "s1"))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCountAndListReapExpired(t *testing.T) {
	repo := NewSessionRepository(50, time.Hour)
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return current })

	require.NoError(t, repo.Save(ctx, "old", []entity.Turn{userTurn("a")}))

	current = current.Add(30 * time.Minute)
	require.NoError(t, repo.Save(ctx, "fresh", []entity.Turn{userTurn("b")}))

	current = current.Add(45 * time.Minute)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	sessions, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "fresh", sessions[0].Id)
}
