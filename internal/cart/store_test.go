package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
)

func TestStore_SetItemComputesLineTotal(t *testing.T) {
	store := NewStore(zap.NewNop())
	sessionID := uuid.New()

	store.SetItem(sessionID, domain.CartItem{
		ID:       "a",
		Title:    "apples",
		Price:    decimal.NewFromInt(25),
		Quantity: 2,
	})

	snapshot := store.Snapshot(sessionID)
	assert.Len(t, snapshot.Items, 1)
	assert.True(t, snapshot.Items[0].ItemTotal.Equal(decimal.NewFromInt(50)))
	assert.True(t, snapshot.CartTotal.Equal(decimal.NewFromInt(50)))
	assert.False(t, snapshot.IsEmpty)
}

func TestStore_SetItemReplacesExistingLine(t *testing.T) {
	store := NewStore(zap.NewNop())
	sessionID := uuid.New()

	store.SetItem(sessionID, domain.CartItem{ID: "a", Price: decimal.NewFromInt(25), Quantity: 2})
	store.SetItem(sessionID, domain.CartItem{ID: "a", Price: decimal.NewFromInt(25), Quantity: 3})

	snapshot := store.Snapshot(sessionID)
	assert.Len(t, snapshot.Items, 1)
	assert.True(t, snapshot.CartTotal.Equal(decimal.NewFromInt(75)))
}

func TestStore_RemoveItem(t *testing.T) {
	store := NewStore(zap.NewNop())
	sessionID := uuid.New()

	store.SetItem(sessionID, domain.CartItem{ID: "a", Price: decimal.NewFromInt(10), Quantity: 1})
	store.SetItem(sessionID, domain.CartItem{ID: "b", Price: decimal.NewFromInt(20), Quantity: 1})
	store.RemoveItem(sessionID, "a")

	snapshot := store.Snapshot(sessionID)
	assert.Len(t, snapshot.Items, 1)
	assert.Equal(t, "b", snapshot.Items[0].ID)
}

func TestStore_EmptyCart(t *testing.T) {
	store := NewStore(zap.NewNop())
	sessionID := uuid.New()

	store.SetItem(sessionID, domain.CartItem{ID: "a", Price: decimal.NewFromInt(10), Quantity: 1})
	store.EmptyCart(sessionID)

	snapshot := store.Snapshot(sessionID)
	assert.True(t, snapshot.IsEmpty)
	assert.True(t, snapshot.CartTotal.IsZero())
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore(zap.NewNop())
	first := uuid.New()
	second := uuid.New()

	store.SetItem(first, domain.CartItem{ID: "a", Price: decimal.NewFromInt(10), Quantity: 1})

	assert.False(t, store.Snapshot(first).IsEmpty)
	assert.True(t, store.Snapshot(second).IsEmpty)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore(zap.NewNop())
	sessionID := uuid.New()

	store.SetItem(sessionID, domain.CartItem{ID: "a", Price: decimal.NewFromInt(10), Quantity: 1})

	snapshot := store.Snapshot(sessionID)
	snapshot.Items[0].Quantity = 99

	assert.Equal(t, 1, store.Snapshot(sessionID).Items[0].Quantity)
}
