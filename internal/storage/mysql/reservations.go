package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tranquidescanso/internal/domain"
)

// WithinTx hands fn a transactional handle for the reservation lifecycle.
func (r *Repo) WithinTx(ctx context.Context, fn func(tx domain.ReservationTx) error) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return fn(&reservationTx{tx: tx})
	})
}

type reservationTx struct{ tx *sql.Tx }

func (t *reservationTx) LockRoom(ctx context.Context, roomID int64) (bool, error) {
	var occupied bool
	err := t.tx.QueryRowContext(ctx, lockRoomSQL, roomID).Scan(&occupied)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.NotFoundID("room", roomID)
	}
	return occupied, err
}

func (t *reservationTx) InsertReservation(ctx context.Context, rv domain.Reservation) (int64, error) {
	res, err := t.tx.ExecContext(ctx, insertReservationSQL,
		dateOnly(rv.CreatedOn),
		dateOnly(rv.StayStart),
		dateOnly(rv.StayEnd),
		rv.PartySize,
		rv.ExpiresAt,
		valInt64(rv.AgencyID),
	)
	if err != nil {
		return 0, classify("reservation", err)
	}
	return res.LastInsertId()
}

func (t *reservationTx) OccupyRoom(ctx context.Context, reservationID, roomID int64) error {
	if _, err := t.tx.ExecContext(ctx, linkRoomSQL, roomID, reservationID); err != nil {
		return classify("room", err)
	}
	res, err := t.tx.ExecContext(ctx, occupyRoomSQL, roomID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.Conflict("room", "already occupied", nil)
	}
	return nil
}

func (t *reservationTx) AttachService(ctx context.Context, reservationID, serviceID int64) error {
	_, err := t.tx.ExecContext(ctx, linkServiceSQL, reservationID, serviceID)
	return classify("service", err)
}

func (t *reservationTx) LockReservation(ctx context.Context, id int64) error {
	var got int64
	err := t.tx.QueryRowContext(ctx, lockReservationSQL, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundID("reservation", id)
	}
	return err
}

func (t *reservationTx) CurrentStatus(ctx context.Context, id int64) (domain.Status, error) {
	return currentStatus(ctx, t.tx, id)
}

func (t *reservationTx) AppendStatus(ctx context.Context, reservationID int64, s domain.Status) (int64, error) {
	res, err := t.tx.ExecContext(ctx, appendStatusSQL, reservationID, string(s))
	if err != nil {
		return 0, classify("reservation", err)
	}
	return res.LastInsertId()
}

// ReleaseRooms reports rows actually flipped, so rooms already free are not counted.
func (t *reservationTx) ReleaseRooms(ctx context.Context, reservationID int64) (int64, error) {
	res, err := t.tx.ExecContext(ctx, releaseRoomsSQL, reservationID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *reservationTx) SetDepositPaid(ctx context.Context, id int64) error {
	_, err := t.tx.ExecContext(ctx, setDepositPaidSQL, id)
	return err
}

func (t *reservationTx) DeleteReservation(ctx context.Context, id int64) (bool, error) {
	res, err := t.tx.ExecContext(ctx, deleteReservationSQL, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func currentStatus(ctx context.Context, q queryer, id int64) (domain.Status, error) {
	var s string
	err := q.QueryRowContext(ctx, currentStatusSQL, id).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StatusNone, nil
	}
	if err != nil {
		return "", err
	}
	return domain.Status(s), nil
}

func (r *Repo) CurrentStatus(ctx context.Context, id int64) (domain.Status, error) {
	return currentStatus(ctx, r.db, id)
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	var (
		rv     domain.Reservation
		agency sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, getReservationSQL, id).Scan(
		&rv.ID,
		&rv.CreatedOn,
		&rv.StayStart,
		&rv.StayEnd,
		&rv.PartySize,
		&rv.DepositPaid,
		&rv.ExpiresAt,
		&agency,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reservation{}, domain.NotFoundID("reservation", id)
	}
	if err != nil {
		return domain.Reservation{}, err
	}
	if agency.Valid {
		a := agency.Int64
		rv.AgencyID = &a
	}
	return rv, nil
}

func (r *Repo) ReservationRooms(ctx context.Context, id int64) ([]domain.ReservedRoom, error) {
	rows, err := r.db.QueryContext(ctx, reservationRoomsSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReservedRoom{}
	for rows.Next() {
		var rm domain.ReservedRoom
		if err := rows.Scan(&rm.ID, &rm.Number, &rm.RoomType); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) ReservationServices(ctx context.Context, id int64) ([]domain.ReservedService, error) {
	rows, err := r.db.QueryContext(ctx, reservationServicesSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReservedService{}
	for rows.Next() {
		var s domain.ReservedService
		if err := rows.Scan(&s.ID, &s.Name, &s.Cost); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) ListReservations(ctx context.Context, f domain.ReservationFilter) ([]domain.ReservationSummary, error) {
	var status, from any
	if f.Status != nil {
		status = string(*f.Status)
	}
	if f.StartFrom != nil {
		from = *f.StartFrom
	}
	rows, err := r.db.QueryContext(ctx, listReservationsSQL, status, status, from, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReservationSummary{}
	for rows.Next() {
		var (
			s  domain.ReservationSummary
			st string
		)
		if err := rows.Scan(&s.ID, &s.StayStart, &s.StayEnd, &s.PartySize, &s.DepositPaid, &st); err != nil {
			return nil, err
		}
		s.CurrentStatus = domain.Status(st)
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ domain.ReservationRepository = (*Repo)(nil)
var _ domain.ReservationTx = (*reservationTx)(nil)

// dateOnly keeps the calendar date for DATE columns.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
