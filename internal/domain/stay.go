package domain

import "time"

// MinorIDType is the identification type carried by guests under age.
const MinorIDType = "Tarjeta de Identidad"

type NewStay struct {
	ReservationID int64
	GuestID       string
	RoomID        int64
	Responsible   bool
	HasPet        bool
}

// StayRecord is a check-in/check-out row. IsMinor is derived from the
// guest's identification type, never stored.
type StayRecord struct {
	ID            int64
	ReservationID int64
	GuestID       string
	RoomID        int64
	CheckInAt     time.Time
	CheckOutOn    *time.Time
	Responsible   bool
	HasPet        bool
	IsMinor       bool
}

type StaySummary struct {
	ID            int64
	ReservationID int64
	GuestName     string
	RoomNumber    int
	CheckInAt     time.Time
	CheckOutOn    *time.Time
	Responsible   bool
	HasPet        bool
}

type MinorGuest struct {
	GuestID    string
	Name       string
	RoomNumber int
}

type PetStay struct {
	StayID     int64
	GuestName  string
	RoomNumber int
	CheckInAt  time.Time
}
