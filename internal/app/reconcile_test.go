package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranquidescanso/internal/app"
	"tranquidescanso/internal/domain"
)

type fakeOccupancy struct {
	drift  map[int64][]domain.OccupancyDrift
	dryRun []bool
	err    error
}

func (f *fakeOccupancy) HotelIDs(context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []int64{1, 2}, nil
}

func (f *fakeOccupancy) ReconcileHotel(_ context.Context, hotelID int64, dryRun bool) ([]domain.OccupancyDrift, error) {
	f.dryRun = append(f.dryRun, dryRun)
	if f.err != nil {
		return nil, f.err
	}
	return f.drift[hotelID], nil
}

func TestReconcileHotel(t *testing.T) {
	repo := &fakeOccupancy{drift: map[int64][]domain.OccupancyDrift{
		1: {{RoomID: 1, Number: 101, Stored: true, Expected: false}, {RoomID: 3, Number: 103, Stored: false, Expected: true}},
	}}
	svc := app.NewReconcileService(repo)
	ctx := context.Background()

	ids, err := svc.HotelIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	n, err := svc.ReconcileHotel(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.ReconcileHotel(ctx, 2, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []bool{true, false}, repo.dryRun)
}

func TestReconcileStoreFailure(t *testing.T) {
	svc := app.NewReconcileService(&fakeOccupancy{err: errors.New("lock wait timeout")})

	_, err := svc.ReconcileHotel(context.Background(), 1, false)
	assert.ErrorIs(t, err, domain.ErrStorage)
	_, err = svc.HotelIDs(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
}
