package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

func newBatchService(t *testing.T, db *gorm.DB) BatchService {
	t.Helper()

	return NewBatchService(
		repository.NewBatchRepository(db),
		repository.NewRosterRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
}

func TestBatchCreateAndList(t *testing.T) {
	db := openTestDB(t)
	svc := newBatchService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.BatchCreateRequest{Name: "X", Year: 2024})
	require.Error(t, err)

	created, err := svc.Create(ctx, dto.BatchCreateRequest{Name: "CSE 2024", Year: 2024, Department: "Computer Science"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.EqualValues(t, 0, created.RosterCount)

	batches, err := svc.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, batches)
}

func TestImportRosterSkipsDuplicates(t *testing.T) {
	db := openTestDB(t)
	svc := newBatchService(t, db)
	ctx := context.Background()

	batch, err := svc.Create(ctx, dto.BatchCreateRequest{Name: "ECE 2024", Year: 2024, Department: "Electronics"})
	require.NoError(t, err)

	first, err := svc.ImportRoster(ctx, batch.ID, dto.RosterImportRequest{Entries: []dto.RosterImportEntry{
		{Name: "Asha Gupta", RollNo: "EC24B001", Section: "A", Email: "asha.gupta@campus.edu"},
		{Name: "Ravi Kumar", RollNo: "EC24B002", Section: "A", Email: "ravi.kumar@campus.edu"},
	}})
	require.NoError(t, err)
	require.EqualValues(t, 2, first.Inserted)
	require.EqualValues(t, 0, first.Skipped)

	// Re-importing the same emails plus one new entry only adds the new one.
	second, err := svc.ImportRoster(ctx, batch.ID, dto.RosterImportRequest{Entries: []dto.RosterImportEntry{
		{Name: "Asha Gupta", RollNo: "EC24B001", Section: "A", Email: "asha.gupta@campus.edu"},
		{Name: "Neel Shah", RollNo: "EC24B003", Section: "B", Email: "neel.shah@campus.edu"},
	}})
	require.NoError(t, err)
	require.EqualValues(t, 1, second.Inserted)
	require.EqualValues(t, 1, second.Skipped)

	batches, err := svc.List(ctx)
	require.NoError(t, err)
	for _, b := range batches {
		if b.ID == batch.ID {
			require.EqualValues(t, 3, b.RosterCount)
		}
	}
}

func TestImportRosterUnknownBatch(t *testing.T) {
	db := openTestDB(t)
	svc := newBatchService(t, db)

	_, err := svc.ImportRoster(context.Background(), 999900, dto.RosterImportRequest{Entries: []dto.RosterImportEntry{
		{Name: "Nobody", RollNo: "XX00B000", Section: "A", Email: "nobody@campus.edu"},
	}})
	require.ErrorIs(t, err, ErrBatchNotFound)
}
