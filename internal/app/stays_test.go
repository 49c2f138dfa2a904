package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranquidescanso/internal/app"
	"tranquidescanso/internal/app/apptest"
	"tranquidescanso/internal/domain"
)

func TestCheckInAndOut(t *testing.T) {
	store := seededStore()
	store.AddGuest("1001", "Cédula", "Ana Pérez")
	store.AddGuest("T-55", domain.MinorIDType, "Tomás Pérez")
	svc := app.NewStayService(store)
	ctx := context.Background()

	adult, err := svc.CheckIn(ctx, domain.NewStay{ReservationID: 1, GuestID: "1001", RoomID: 101, Responsible: true, HasPet: true})
	require.NoError(t, err)
	assert.False(t, adult.IsMinor)
	assert.Nil(t, adult.CheckOutOn)
	assert.False(t, adult.CheckInAt.IsZero())

	minor, err := svc.CheckIn(ctx, domain.NewStay{ReservationID: 1, GuestID: "T-55", RoomID: 101})
	require.NoError(t, err)
	assert.True(t, minor.IsMinor)

	minors, err := svc.MinorsStaying(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.MinorGuest{{GuestID: "T-55", Name: "Tomás Pérez", RoomNumber: 101}}, minors)

	pets, err := svc.PetStays(ctx)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Ana Pérez", pets[0].GuestName)

	on := time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC)
	out, err := svc.CheckOut(ctx, adult.ID, on)
	require.NoError(t, err)
	require.NotNil(t, out.CheckOutOn)
	assert.Equal(t, on, *out.CheckOutOn)
	assert.False(t, store.Room(101).Occupied, "check-out never touches room occupancy")

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, minor.ID, active[0].ID)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pets, err = svc.PetStays(ctx)
	require.NoError(t, err)
	assert.Empty(t, pets)
}

func TestCheckInUnknownGuest(t *testing.T) {
	svc := app.NewStayService(apptest.NewStore())
	_, err := svc.CheckIn(context.Background(), domain.NewStay{ReservationID: 1, GuestID: "nobody", RoomID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckOutDefaultsToToday(t *testing.T) {
	store := apptest.NewStore()
	store.AddGuest("1001", "Cédula", "Ana")
	svc := app.NewStayService(store)
	ctx := context.Background()

	rec, err := svc.CheckIn(ctx, domain.NewStay{ReservationID: 1, GuestID: "1001", RoomID: 1})
	require.NoError(t, err)
	out, err := svc.CheckOut(ctx, rec.ID, time.Time{})
	require.NoError(t, err)
	require.NotNil(t, out.CheckOutOn)
	y, m, d := time.Now().Date()
	assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, time.Local), *out.CheckOutOn)

	_, err = svc.CheckOut(ctx, 999, time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
