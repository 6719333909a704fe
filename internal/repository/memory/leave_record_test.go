package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alturath/hr-audit/internal/domain/leave"
)

func TestLeaveRecordRepository_ListRecords(t *testing.T) {
	ctx := context.Background()
	inside := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	repo := NewLeaveRecordRepository(
		leave.Record{EmployeeID: "1", Date: &inside},
		leave.Record{EmployeeID: "2", Date: &outside},
		leave.Record{EmployeeID: "3", Weekday: "Friday"},
	)

	got, err := repo.ListRecords(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].EmployeeID)
	assert.Equal(t, "3", got[1].EmployeeID)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestLeaveRecordRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRecordRepository()

	created, err := repo.Create(ctx, leave.Record{EmployeeName: "Sara", Weekday: "الجمعة"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, leave.Record{EmployeeName: "Sara"})
	assert.ErrorIs(t, err, leave.ErrInvalidLeaveRecord)

	repo.Freeze()
	_, err = repo.Create(ctx, leave.Record{EmployeeName: "Sara", Weekday: "Friday"})
	assert.ErrorIs(t, err, leave.ErrRegistryReadOnly)
}

func TestLeaveRecordRepository_CreateBatch(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	repo := NewLeaveRecordRepository()

	_, err := repo.CreateBatch(ctx, []leave.Record{
		{EmployeeID: "1", Date: &day},
		{EmployeeID: "2"},
	})
	assert.ErrorIs(t, err, leave.ErrInvalidLeaveRecord)

	all, err := repo.ListRecords(ctx, day, day)
	require.NoError(t, err)
	assert.Empty(t, all)

	created, err := repo.CreateBatch(ctx, []leave.Record{
		{EmployeeID: "1", Date: &day},
		{EmployeeName: "Sara", Weekday: "Friday"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	all, err = repo.ListRecords(ctx, day, day)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
