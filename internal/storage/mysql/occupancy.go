package mysql

import (
	"context"
	"database/sql"

	"tranquidescanso/internal/domain"
)

func (r *Repo) HotelIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, hotelIDsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ReconcileHotel locks the hotel's rooms, compares each stored flag against
// the room's live reservations and, unless dryRun, rewrites the drifted ones.
func (r *Repo) ReconcileHotel(ctx context.Context, hotelID int64, dryRun bool) ([]domain.OccupancyDrift, error) {
	var drift []domain.OccupancyDrift
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, occupancyDriftSQL, string(domain.StatusCancelled), hotelID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var d domain.OccupancyDrift
			if err := rows.Scan(&d.RoomID, &d.Number, &d.Stored, &d.Expected); err != nil {
				rows.Close()
				return err
			}
			if d.Stored != d.Expected {
				drift = append(drift, d)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		if dryRun {
			return nil
		}
		for _, d := range drift {
			if _, err := tx.ExecContext(ctx, setOccupiedSQL, d.Expected, d.RoomID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drift, nil
}

var _ domain.OccupancyRepository = (*Repo)(nil)
