package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/persistence"
)

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.Create(ctx, "paymentMethods", core.Record{"name": "Cash"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())
	assert.Equal(t, true, created[core.FieldIsActive])
	assert.NotNil(t, created[core.FieldCreatedAt])

	_, err = s.Create(ctx, "paymentMethods", core.Record{"name": "UPI", "is_active": false})
	require.NoError(t, err)

	list, err := s.List(ctx, "paymentMethods")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cash", list[0]["name"], "insertion order")
	assert.Equal(t, false, list[1][core.FieldIsActive])

	updated, err := s.Update(ctx, "paymentMethods", created.ID(), core.Record{"name": "Cash Payment"})
	require.NoError(t, err)
	assert.Equal(t, created.ID(), updated.ID())
	assert.Equal(t, created[core.FieldCreatedAt], updated[core.FieldCreatedAt])
	assert.Equal(t, true, updated[core.FieldIsActive], "is_active kept when omitted")

	require.NoError(t, s.Delete(ctx, "paymentMethods", created.ID()))
	assert.Equal(t, 1, s.Len("paymentMethods"))
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Update(ctx, "units", "missing", core.Record{})
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	err = s.Delete(ctx, "units", "missing")
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	var perr *persistence.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "delete", perr.Op)
	assert.Equal(t, "units", perr.Category)
}

func TestStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Create(ctx, "units", core.Record{"name": "mg/dL"})
	require.NoError(t, err)

	list, _ := s.List(ctx, "units")
	list[0]["name"] = "changed"

	again, _ := s.List(ctx, "units")
	assert.Equal(t, "mg/dL", again[0]["name"])
}

func TestStore_FailCreate(t *testing.T) {
	s := New()
	s.FailCreate = func(category string, rec core.Record) error {
		if rec["name"] == "bad" {
			return errors.New("duplicate name")
		}
		return nil
	}

	_, err := s.Create(context.Background(), "units", core.Record{"name": "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")
	assert.Equal(t, 0, s.Len("units"))
}
