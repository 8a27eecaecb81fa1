// Package store persists and retrieves historical yield curves. It speaks
// database/sql with either the sqlite3 driver (local runs) or lib/pq
// (server deployments); the schema is one row per (curve, date, tenor)
// observation.
package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meenmo/quantrisk/curve"
	"github.com/meenmo/quantrisk/utils"
)

// Store is a handle to the yield curve table.
type Store struct {
	db     *sql.DB
	driver string
	table  string
}

// Open connects to the curve store. Supported drivers: "sqlite3",
// "postgres".
func Open(driver, dsn, table string) (*Store, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	return &Store{db: db, driver: driver, table: table}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind converts ?-style placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Series fetches the ordered (date, tenor, yield) history of a named curve
// between start and end inclusive. A non-nil tenor restricts the result to
// a single curve point.
func (s *Store) Series(name string, tenor *float64, start, end time.Time) ([]curve.Observation, error) {
	query := fmt.Sprintf(
		`SELECT date, tenor, yield_to_maturity FROM %s
		 WHERE instrument = ? AND date BETWEEN ? AND ?`, s.table)
	args := []any{name, utils.FormatDate(start), utils.FormatDate(end)}
	if tenor != nil {
		query += " AND tenor = ?"
		args = append(args, *tenor)
	}
	query += " ORDER BY date, tenor"

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("store: fetch %s: %w", name, err)
	}
	defer rows.Close()

	var out []curve.Observation
	for rows.Next() {
		var (
			dateStr string
			obs     curve.Observation
		)
		if err := rows.Scan(&dateStr, &obs.Tenor, &obs.Yield); err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", name, err)
		}
		obs.Curve = name
		obs.Date, err = utils.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("store: bad date in %s row: %w", name, err)
		}
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: fetch %s: %w", name, err)
	}
	if len(out) == 0 {
		return nil, &curve.MissingCurveError{
			Curve:  name,
			Reason: fmt.Sprintf("no observations between %s and %s", utils.FormatDate(start), utils.FormatDate(end)),
		}
	}
	return out, nil
}

// Snapshot fetches the full curve for one date, ordered by tenor.
func (s *Store) Snapshot(name string, asOf time.Time) (curve.Snapshot, error) {
	obs, err := s.Series(name, nil, asOf, asOf)
	if err != nil {
		return curve.Snapshot{}, err
	}
	snap := curve.Snapshot{Name: name, AsOf: asOf, Points: make([]curve.Point, len(obs))}
	for i, o := range obs {
		snap.Points[i] = curve.Point{Tenor: o.Tenor, Yield: o.Yield}
	}
	return snap, nil
}
