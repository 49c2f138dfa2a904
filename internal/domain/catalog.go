package domain

import "time"

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ChangedAt time.Time `json:"changed_at"`
}

type Hotel struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	OpeningYear int      `json:"opening_year"`
	CategoryID  int64    `json:"category_id"`
	Phones      []string `json:"phones"`
}

// HotelSummary is the list projection (no phones, no category).
type HotelSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	OpeningYear int    `json:"opening_year"`
}

type RoomType struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Capacity    int     `json:"capacity"`
	Value       float64 `json:"value"`
}

// Room.Occupied is read-only outside the reservation lifecycle.
type Room struct {
	ID         int64 `json:"id"`
	Number     int   `json:"number"`
	HotelID    int64 `json:"hotel_id"`
	RoomTypeID int64 `json:"room_type_id"`
	Occupied   bool  `json:"occupied"`
}

type RoomListing struct {
	ID        int64  `json:"id"`
	Number    int    `json:"number"`
	HotelName string `json:"hotel_name"`
	RoomType  string `json:"room_type"`
	Occupied  bool   `json:"occupied"`
}

type Agency struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Service struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

type Guest struct {
	IDNumber string   `json:"id_number"`
	IDType   string   `json:"id_type"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phones   []string `json:"phones"`
}

type GuestSummary struct {
	IDNumber string `json:"id_number"`
	Name     string `json:"name"`
	IDType   string `json:"id_type"`
}

// Patches: a nil field is absent and leaves the column untouched.

type CategoryPatch struct {
	Name *string
}

type HotelPatch struct {
	Name       *string
	Address    *string
	CategoryID *int64
}

type RoomTypePatch struct {
	Description *string
	Capacity    *int
	Value       *float64
}

type RoomPatch struct {
	Number *int
}

type AgencyPatch struct {
	Name *string
}

type ServicePatch struct {
	Name *string
	Cost *float64
}

type GuestPatch struct {
	Name    *string
	Address *string
}

func (p CategoryPatch) Empty() bool { return p.Name == nil }
func (p HotelPatch) Empty() bool    { return p.Name == nil && p.Address == nil && p.CategoryID == nil }
func (p RoomTypePatch) Empty() bool {
	return p.Description == nil && p.Capacity == nil && p.Value == nil
}
func (p RoomPatch) Empty() bool    { return p.Number == nil }
func (p AgencyPatch) Empty() bool  { return p.Name == nil }
func (p ServicePatch) Empty() bool { return p.Name == nil && p.Cost == nil }
func (p GuestPatch) Empty() bool   { return p.Name == nil && p.Address == nil }
