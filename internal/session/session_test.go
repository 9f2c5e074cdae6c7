package session

import (
	"testing"
	"time"

	"bankbot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestStore_PutAndGet(t *testing.T) {
	store := NewStore()

	_, ok := store.Get(123)
	assert.False(t, ok)

	data := NewData(StageAwaitingAmount)
	data.PendingAction = domain.KindDeposit
	store.Put(123, data)

	got, ok := store.Get(123)
	assert.True(t, ok)
	assert.Equal(t, StageAwaitingAmount, got.Stage)
	assert.Equal(t, domain.KindDeposit, got.PendingAction)
	assert.Equal(t, -1, got.SelectedMethod)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Put(123, NewData(StageAwaitingAmount))

	got, _ := store.Get(123)
	got.PendingAmount = 500

	again, _ := store.Get(123)
	assert.Equal(t, int64(0), again.PendingAmount)
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Put(123, NewData(StageAwaitingAmount))
	store.Put(456, NewData(StageAwaitingMethodChoice))

	store.Clear(123)

	_, ok := store.Get(123)
	assert.False(t, ok)
	_, ok = store.Get(456)
	assert.True(t, ok)

	// Clearing an absent session is a no-op
	store.Clear(789)
	assert.Equal(t, 1, store.Len())
}

func TestStore_PurgeExpired(t *testing.T) {
	store := NewStore()

	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	store.Put(1, NewData(StageAwaitingAmount))

	current = current.Add(20 * time.Minute)
	store.Put(2, NewData(StageAwaitingMethodChoice))

	current = current.Add(15 * time.Minute)
	removed := store.PurgeExpired(30 * time.Minute)

	assert.Equal(t, 1, removed)
	_, ok := store.Get(1)
	assert.False(t, ok)
	_, ok = store.Get(2)
	assert.True(t, ok)
}

func TestStore_PurgeExpired_Empty(t *testing.T) {
	store := NewStore()
	assert.Equal(t, 0, store.PurgeExpired(time.Minute))
}
