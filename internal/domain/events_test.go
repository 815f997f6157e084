package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"join", `{"type":"join-station","station":"kitchen"}`, true},
		{"join without station", `{"type":"join-station"}`, false},
		{"order update", `{"type":"order-update","order":{"id":"o1","station":"front-counter"}}`, true},
		{"order update without station", `{"type":"order-update","order":{"id":"o1"}}`, false},
		{"inventory update", `{"type":"inventory-update","item":{"id":"milk-whole-1"}}`, true},
		{"analytics update", `{"type":"analytics-update","data":{"sales":10}}`, true},
		{"analytics scalar", `{"type":"analytics-update","data":3}`, false},
		{"unknown", `{"type":"shout"}`, false},
		{"garbage", `{`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tc.raw))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidEvent)
			}
		})
	}
}

func TestDecodeClientEventRejectsServerOnlyTypes(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"notification","notification":{"id":"n1","title":"Forged"}}`))
	require.NoError(t, err)

	_, err = DecodeClientEvent([]byte(`{"type":"notification","notification":{"id":"n1","title":"Forged"}}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
	_, err = DecodeClientEvent([]byte(`{"type":"error","error":"boom"}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)

	ev, err := DecodeClientEvent([]byte(`{"type":"leave-station","station":"kitchen"}`))
	require.NoError(t, err)
	assert.Equal(t, EventLeaveStation, ev.Type)
}

func TestEventRooms(t *testing.T) {
	assert.Equal(t, []string{"front-counter", "kitchen"}, OrderUpdate(Order{ID: "1", Station: "front-counter"}).Rooms())
	assert.Equal(t, []string{"management"}, OrderUpdate(Order{ID: "1", Station: "management"}).Rooms())
	assert.Nil(t, InventoryUpdate(InventoryItem{ID: "x"}).Rooms())
}

func TestItemRefAcceptsNumbers(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"order-update","order":{"id":"o1","station":"kitchen","items":[{"id":3,"name":"Latte","quantity":1,"price":4.5},{"id":"x1","name":"Tea","quantity":1,"price":2}]}}`))
	require.NoError(t, err)
	require.Len(t, ev.Order.Items, 2)
	n, ok := ev.Order.Items[0].ID.MenuID()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, ItemRef("x1"), ev.Order.Items[1].ID)
}

func TestStockOperationApply(t *testing.T) {
	got, ok := StockSubtract.Apply(25, 100)
	assert.True(t, ok)
	assert.Zero(t, got)

	got, _ = StockAdd.Apply(25, 5)
	assert.Equal(t, 30.0, got)

	got, _ = StockSet.Apply(25, 7)
	assert.Equal(t, 7.0, got)

	_, ok = StockOperation("multiply").Apply(1, 2)
	assert.False(t, ok)
}

func TestEmployeePermissions(t *testing.T) {
	assert.Equal(t, []string{"all"}, PermissionsFor(RoleManager))
	assert.Equal(t, []string{"orders", "inventory", "loyalty"}, PermissionsFor(RoleBarista))
	assert.Equal(t, []string{"orders", "loyalty"}, PermissionsFor(RoleCashier))
	assert.Equal(t, []string{"orders", "inventory"}, PermissionsFor(RoleKitchen))

	mgr := EmployeeRecord{Permissions: PermissionsFor(RoleManager)}
	assert.True(t, mgr.Can(PermInventory))
	cashier := EmployeeRecord{Permissions: PermissionsFor(RoleCashier)}
	assert.False(t, cashier.Can(PermInventory))
	assert.Equal(t, "foo@bar.com", NormalizeEmail("  Foo@Bar.COM "))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierBronze, TierFor(99))
	assert.Equal(t, TierSilver, TierFor(100))
	assert.Equal(t, TierGold, TierFor(200))
	assert.Equal(t, TierPlatinum, TierFor(500))
}
