package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tranquidescanso/internal/domain"
)

func (r *Repo) CreateStay(ctx context.Context, s domain.NewStay, at time.Time) (int64, error) {
	ok, err := exists(ctx, r.db, guestExistsSQL, s.GuestID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.NotFoundID("guest", s.GuestID)
	}
	res, err := r.db.ExecContext(ctx, insertStaySQL,
		s.ReservationID, s.GuestID, s.RoomID, at.UTC(), s.Responsible, s.HasPet)
	if err != nil {
		return 0, classify("stay", err)
	}
	return res.LastInsertId()
}

func (r *Repo) GetStay(ctx context.Context, id int64) (domain.StayRecord, error) {
	var (
		rec      domain.StayRecord
		checkout sql.NullTime
		idType   string
	)
	err := r.db.QueryRowContext(ctx, getStaySQL, id).Scan(
		&rec.ID,
		&rec.ReservationID,
		&rec.GuestID,
		&rec.RoomID,
		&rec.CheckInAt,
		&checkout,
		&rec.Responsible,
		&rec.HasPet,
		&idType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StayRecord{}, domain.NotFoundID("stay", id)
	}
	if err != nil {
		return domain.StayRecord{}, err
	}
	if checkout.Valid {
		t := checkout.Time
		rec.CheckOutOn = &t
	}
	rec.IsMinor = idType == domain.MinorIDType
	return rec, nil
}

func (r *Repo) CheckOut(ctx context.Context, id int64, on time.Time) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var got int64
		err := tx.QueryRowContext(ctx, lockStaySQL, id).Scan(&got)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundID("stay", id)
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, checkOutSQL, dateOnly(on), id)
		return err
	})
}

func (r *Repo) ListStays(ctx context.Context, activeOnly bool) ([]domain.StaySummary, error) {
	rows, err := r.db.QueryContext(ctx, listStaysSQL, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.StaySummary{}
	for rows.Next() {
		var (
			s        domain.StaySummary
			checkout sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.ReservationID, &s.GuestName, &s.RoomNumber,
			&s.CheckInAt, &checkout, &s.Responsible, &s.HasPet); err != nil {
			return nil, err
		}
		if checkout.Valid {
			t := checkout.Time
			s.CheckOutOn = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) ListMinorsStaying(ctx context.Context) ([]domain.MinorGuest, error) {
	rows, err := r.db.QueryContext(ctx, listMinorsSQL, domain.MinorIDType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MinorGuest{}
	for rows.Next() {
		var m domain.MinorGuest
		if err := rows.Scan(&m.GuestID, &m.Name, &m.RoomNumber); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) ListPetStays(ctx context.Context) ([]domain.PetStay, error) {
	rows, err := r.db.QueryContext(ctx, listPetStaysSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.PetStay{}
	for rows.Next() {
		var p domain.PetStay
		if err := rows.Scan(&p.StayID, &p.GuestName, &p.RoomNumber, &p.CheckInAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ domain.StayRepository = (*Repo)(nil)
