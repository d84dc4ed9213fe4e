package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetFill returns a single fill record by ID.
func (j *SQLite) GetFill(fillID string) (FillRecord, error) {
	row := j.db.QueryRow(`
		SELECT fill_id, market, time, side, price, quantity, spend, fee, pnl, balance, reason
		FROM fills
		WHERE fill_id = ?`, fillID)

	var rec FillRecord
	err := scanFill(row, &rec)
	if err != nil {
		if err == sql.ErrNoRows {
			return FillRecord{}, fmt.Errorf("fill %q not found", fillID)
		}
		return FillRecord{}, err
	}
	return rec, nil
}

// ListFillsBetween returns fills whose time is within [start, end),
// ordered ascending.
func (j *SQLite) ListFillsBetween(start, end time.Time) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT fill_id, market, time, side, price, quantity, spend, fee, pnl, balance, reason
		FROM fills
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var rec FillRecord
		if err := scanFill(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity snapshots within [start, end).
func (j *SQLite) ListEquityBetween(start, end time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, balance, equity
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.Time, &e.Balance, &e.Equity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFill(r rowScanner, rec *FillRecord) error {
	return r.Scan(
		&rec.ID,
		&rec.Market,
		&rec.Time,
		&rec.Side,
		&rec.Price,
		&rec.Quantity,
		&rec.Spend,
		&rec.Fee,
		&rec.PnL,
		&rec.Balance,
		&rec.Reason,
	)
}
