package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableStaticPolicyIssuesTokensImmediately(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, false, "0")

	table, err := NewTableService(db).CreateTable(context.Background(), restaurant.ID, "Bar", "bar", 6,
		[]UnitInput{{UnitCode: "S1"}, {UnitCode: "S2", DisplayName: "Window seat"}})
	require.NoError(t, err)
	require.Len(t, table.Units, 2)

	for _, unit := range table.Units {
		require.NotNil(t, unit.QRToken)
		assert.Len(t, *unit.QRToken, 64)
	}
	assert.NotEqual(t, *table.Units[0].QRToken, *table.Units[1].QRToken)
}

func TestCreateTableDynamicPolicyDefersTokens(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, true, "0")

	table, err := NewTableService(db).CreateTable(context.Background(), restaurant.ID, "Main", "indoor", 4,
		[]UnitInput{{UnitCode: "U1"}})
	require.NoError(t, err)
	assert.Nil(t, table.Units[0].QRToken)
}

func TestCreateTableValidation(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, false, "0")
	svc := NewTableService(db)

	_, err := svc.CreateTable(context.Background(), restaurant.ID, "", "indoor", 4, []UnitInput{{UnitCode: "U1"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTable(context.Background(), restaurant.ID, "T1", "indoor", 0, []UnitInput{{UnitCode: "U1"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTable(context.Background(), restaurant.ID, "T1", "indoor", 4, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTable(context.Background(), restaurant.ID, "T1", "indoor", 4,
		[]UnitInput{{UnitCode: "U1"}, {UnitCode: "U1"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTable(context.Background(), restaurant.ID+50, "T1", "indoor", 4, []UnitInput{{UnitCode: "U1"}})
	assert.ErrorIs(t, err, ErrNotFound)
}
