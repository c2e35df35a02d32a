package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddaazzz/qr-restaurant-sub000/models"
)

func TestModifyPaxWithinCapacity(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, false, "0")
	table := seedTable(t, db, restaurant.ID, 6, "A", "B")
	alloc := NewAllocatorService(db)
	sessions := NewSessionService(db)

	_, session, err := alloc.Allocate(context.Background(), restaurant.ID, table.ID, 2)
	require.NoError(t, err)

	updated, err := sessions.ModifyPax(context.Background(), session.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Pax)
}

func TestModifyPaxExcludesOwnPreviousContribution(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, false, "0")
	table := seedTable(t, db, restaurant.ID, 4, "A")
	alloc := NewAllocatorService(db)
	sessions := NewSessionService(db)

	_, session, err := alloc.Allocate(context.Background(), restaurant.ID, table.ID, 4)
	require.NoError(t, err)

	// 4 -> 4 must pass: the session's own pax does not count against it.
	_, err = sessions.ModifyPax(context.Background(), session.ID, 4)
	assert.NoError(t, err)

	_, err = sessions.ModifyPax(context.Background(), session.ID, 5)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestModifyPaxRespectsOtherSessions(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, false, "0")
	table := seedTable(t, db, restaurant.ID, 6, "A", "B")
	alloc := NewAllocatorService(db)
	sessions := NewSessionService(db)

	_, first, err := alloc.Allocate(context.Background(), restaurant.ID, table.ID, 3)
	require.NoError(t, err)
	_, _, err = alloc.Allocate(context.Background(), restaurant.ID, table.ID, 2)
	require.NoError(t, err)

	_, err = sessions.ModifyPax(context.Background(), first.ID, 5)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = sessions.ModifyPax(context.Background(), first.ID, 4)
	assert.NoError(t, err)
}

func TestModifyPaxOnClosedSession(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, false, "0")
	table := seedTable(t, db, restaurant.ID, 4, "A")
	alloc := NewAllocatorService(db)
	sessions := NewSessionService(db)

	_, session, err := alloc.Allocate(context.Background(), restaurant.ID, table.ID, 2)
	require.NoError(t, err)
	_, err = sessions.EndSession(context.Background(), session.ID, 7)
	require.NoError(t, err)

	_, err = sessions.ModifyPax(context.Background(), session.ID, 3)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestEndSessionFreesUnitWithoutBilling(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, false, "0")
	table := seedTable(t, db, restaurant.ID, 4, "A")
	alloc := NewAllocatorService(db)
	sessions := NewSessionService(db)

	unit, session, err := alloc.Allocate(context.Background(), restaurant.ID, table.ID, 4)
	require.NoError(t, err)

	ended, err := sessions.EndSession(context.Background(), session.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, ended.EndedAt)
	require.NotNil(t, ended.ClosedByStaffID)
	assert.Equal(t, uint(7), *ended.ClosedByStaffID)

	// Forced end writes no payment fields and no closure audit record.
	var reloaded models.TableSession
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	assert.Empty(t, reloaded.PaymentMethod)
	assert.Nil(t, reloaded.POSReference)

	var closures int64
	require.NoError(t, db.Model(&models.BillClosure{}).
		Where("session_id = ?", session.ID).Count(&closures).Error)
	assert.Zero(t, closures)

	var reloadedTable models.Table
	require.NoError(t, db.First(&reloadedTable, table.ID).Error)
	assert.True(t, reloadedTable.Available)

	// The unit is immediately re-allocatable.
	again, _, err := alloc.Allocate(context.Background(), restaurant.ID, table.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, unit.ID, again.ID)
}

func TestEndSessionTwice(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, false, "0")
	table := seedTable(t, db, restaurant.ID, 4, "A")
	alloc := NewAllocatorService(db)
	sessions := NewSessionService(db)

	_, session, err := alloc.Allocate(context.Background(), restaurant.ID, table.ID, 2)
	require.NoError(t, err)

	_, err = sessions.EndSession(context.Background(), session.ID, 7)
	require.NoError(t, err)

	_, err = sessions.EndSession(context.Background(), session.ID, 7)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestGetSessionNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewSessionService(db).GetSession(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
