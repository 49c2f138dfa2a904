package mysql

import (
	"context"
	"database/sql"
	"errors"

	"tranquidescanso/internal/domain"
)

// Categories

func (r *Repo) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	res, err := r.db.ExecContext(ctx, insertCategorySQL, name)
	if err != nil {
		return domain.Category{}, classify("category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Category{}, err
	}
	return r.GetCategory(ctx, id)
}

func (r *Repo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx, getCategorySQL, id).Scan(&c.ID, &c.Name, &c.ChangedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.NotFoundID("category", id)
	}
	return c, err
}

func (r *Repo) UpdateCategory(ctx context.Context, id int64, p domain.CategoryPatch) error {
	res, err := r.db.ExecContext(ctx, updateCategorySQL, valStr(p.Name), id)
	if err != nil {
		return classify("category", err)
	}
	return updated(ctx, r.db, res, domain.NotFoundID("category", id), categoryExistsSQL, id)
}

func (r *Repo) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteCategorySQL, id)
	if err != nil {
		return classify("category", err)
	}
	return deleted(res, domain.NotFoundID("category", id))
}

// Hotels

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertHotelSQL, h.Name, h.Address, h.OpeningYear, h.CategoryID)
		if err != nil {
			return classify("hotel", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, phone := range h.Phones {
			if _, err := tx.ExecContext(ctx, insertHotelPhoneSQL, id, phone); err != nil {
				return classify("hotel phone", err)
			}
		}
		return nil
	})
	return id, err
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.HotelSummary, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HotelSummary{}
	for rows.Next() {
		var h domain.HotelSummary
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.OpeningYear); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var h domain.Hotel
	err := r.db.QueryRowContext(ctx, getHotelSQL, id).Scan(&h.ID, &h.Name, &h.Address, &h.OpeningYear, &h.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.NotFoundID("hotel", id)
	}
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Phones, err = phones(ctx, r.db, hotelPhonesSQL, id)
	return h, err
}

func (r *Repo) UpdateHotel(ctx context.Context, id int64, p domain.HotelPatch) error {
	res, err := r.db.ExecContext(ctx, updateHotelSQL, valStr(p.Name), valStr(p.Address), valInt64(p.CategoryID), id)
	if err != nil {
		return classify("hotel", err)
	}
	return updated(ctx, r.db, res, domain.NotFoundID("hotel", id), hotelExistsSQL, id)
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return classify("hotel", err)
	}
	return deleted(res, domain.NotFoundID("hotel", id))
}

// Room types

func (r *Repo) CreateRoomType(ctx context.Context, t domain.RoomType) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRoomTypeSQL, t.Description, t.Capacity, t.Value)
	if err != nil {
		return 0, classify("room type", err)
	}
	return res.LastInsertId()
}

func (r *Repo) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, listRoomTypesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RoomType{}
	for rows.Next() {
		var t domain.RoomType
		if err := rows.Scan(&t.ID, &t.Description, &t.Capacity, &t.Value); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	var t domain.RoomType
	err := r.db.QueryRowContext(ctx, getRoomTypeSQL, id).Scan(&t.ID, &t.Description, &t.Capacity, &t.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomType{}, domain.NotFoundID("room type", id)
	}
	return t, err
}

func (r *Repo) UpdateRoomType(ctx context.Context, id int64, p domain.RoomTypePatch) error {
	res, err := r.db.ExecContext(ctx, updateRoomTypeSQL, valStr(p.Description), valInt(p.Capacity), valF64(p.Value), id)
	if err != nil {
		return classify("room type", err)
	}
	return updated(ctx, r.db, res, domain.NotFoundID("room type", id), roomTypeExistsSQL, id)
}

func (r *Repo) DeleteRoomType(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteRoomTypeSQL, id)
	if err != nil {
		return classify("room type", err)
	}
	return deleted(res, domain.NotFoundID("room type", id))
}

// Rooms. New rooms always start free; nothing here writes ocupado afterwards.

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRoomSQL, rm.Number, rm.HotelID, rm.RoomTypeID)
	if err != nil {
		return 0, classify("room", err)
	}
	return res.LastInsertId()
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.RoomListing, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RoomListing{}
	for rows.Next() {
		var l domain.RoomListing
		if err := rows.Scan(&l.ID, &l.Number, &l.HotelName, &l.RoomType, &l.Occupied); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	var rm domain.Room
	err := r.db.QueryRowContext(ctx, getRoomSQL, id).Scan(&rm.ID, &rm.Number, &rm.HotelID, &rm.RoomTypeID, &rm.Occupied)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.NotFoundID("room", id)
	}
	return rm, err
}

func (r *Repo) UpdateRoom(ctx context.Context, id int64, p domain.RoomPatch) error {
	res, err := r.db.ExecContext(ctx, updateRoomSQL, valInt(p.Number), id)
	if err != nil {
		return classify("room", err)
	}
	return updated(ctx, r.db, res, domain.NotFoundID("room", id), roomExistsSQL, id)
}

func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteRoomSQL, id)
	if err != nil {
		return classify("room", err)
	}
	return deleted(res, domain.NotFoundID("room", id))
}

// Agencies

func (r *Repo) CreateAgency(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertAgencySQL, name)
	if err != nil {
		return 0, classify("agency", err)
	}
	return res.LastInsertId()
}

func (r *Repo) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	rows, err := r.db.QueryContext(ctx, listAgenciesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Agency{}
	for rows.Next() {
		var a domain.Agency
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) GetAgency(ctx context.Context, id int64) (domain.Agency, error) {
	var a domain.Agency
	err := r.db.QueryRowContext(ctx, getAgencySQL, id).Scan(&a.ID, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Agency{}, domain.NotFoundID("agency", id)
	}
	return a, err
}

func (r *Repo) UpdateAgency(ctx context.Context, id int64, p domain.AgencyPatch) error {
	res, err := r.db.ExecContext(ctx, updateAgencySQL, valStr(p.Name), id)
	if err != nil {
		return classify("agency", err)
	}
	return updated(ctx, r.db, res, domain.NotFoundID("agency", id), agencyExistsSQL, id)
}

func (r *Repo) DeleteAgency(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteAgencySQL, id)
	if err != nil {
		return classify("agency", err)
	}
	return deleted(res, domain.NotFoundID("agency", id))
}

// Additional services

func (r *Repo) CreateService(ctx context.Context, s domain.Service) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertServiceSQL, s.Name, s.Cost)
	if err != nil {
		return 0, classify("service", err)
	}
	return res.LastInsertId()
}

func (r *Repo) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, listServicesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Service{}
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Cost); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetService(ctx context.Context, id int64) (domain.Service, error) {
	var s domain.Service
	err := r.db.QueryRowContext(ctx, getServiceSQL, id).Scan(&s.ID, &s.Name, &s.Cost)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Service{}, domain.NotFoundID("service", id)
	}
	return s, err
}

func (r *Repo) UpdateService(ctx context.Context, id int64, p domain.ServicePatch) error {
	res, err := r.db.ExecContext(ctx, updateServiceSQL, valStr(p.Name), valF64(p.Cost), id)
	if err != nil {
		return classify("service", err)
	}
	return updated(ctx, r.db, res, domain.NotFoundID("service", id), serviceExistsSQL, id)
}

func (r *Repo) DeleteService(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteServiceSQL, id)
	if err != nil {
		return classify("service", err)
	}
	return deleted(res, domain.NotFoundID("service", id))
}

// Guests

func (r *Repo) CreateGuest(ctx context.Context, g domain.Guest) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertGuestSQL, g.IDNumber, g.IDType, g.Name, g.Address); err != nil {
			return classify("guest", err)
		}
		for _, phone := range g.Phones {
			if _, err := tx.ExecContext(ctx, insertGuestPhoneSQL, g.IDNumber, phone); err != nil {
				return classify("guest phone", err)
			}
		}
		return nil
	})
}

func (r *Repo) ListGuests(ctx context.Context) ([]domain.GuestSummary, error) {
	rows, err := r.db.QueryContext(ctx, listGuestsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.GuestSummary{}
	for rows.Next() {
		var g domain.GuestSummary
		if err := rows.Scan(&g.IDNumber, &g.Name, &g.IDType); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repo) GetGuest(ctx context.Context, idNumber string) (domain.Guest, error) {
	var g domain.Guest
	err := r.db.QueryRowContext(ctx, getGuestSQL, idNumber).Scan(&g.IDNumber, &g.IDType, &g.Name, &g.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Guest{}, domain.NotFoundID("guest", idNumber)
	}
	if err != nil {
		return domain.Guest{}, err
	}
	g.Phones, err = phones(ctx, r.db, guestPhonesSQL, idNumber)
	return g, err
}

func (r *Repo) UpdateGuest(ctx context.Context, idNumber string, p domain.GuestPatch) error {
	res, err := r.db.ExecContext(ctx, updateGuestSQL, valStr(p.Name), valStr(p.Address), idNumber)
	if err != nil {
		return classify("guest", err)
	}
	return updated(ctx, r.db, res, domain.NotFoundID("guest", idNumber), guestExistsSQL, idNumber)
}

func (r *Repo) DeleteGuest(ctx context.Context, idNumber string) error {
	res, err := r.db.ExecContext(ctx, deleteGuestSQL, idNumber)
	if err != nil {
		return classify("guest", err)
	}
	return deleted(res, domain.NotFoundID("guest", idNumber))
}

func phones(ctx context.Context, q queryer, query string, key any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ domain.CatalogRepository = (*Repo)(nil)
