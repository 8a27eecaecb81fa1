package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// csvColumns are the required headers of a raw curve file, matching the
// treasury.gov daily yield export after preprocessing.
var csvColumns = []string{"instrument", "date", "tenor", "yield_to_maturity"}

// InitFromCSV (re)creates the curve table and loads it from a raw CSV file.
// Existing contents are replaced; the load runs in one transaction.
func (s *Store) InitFromCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("store: open raw curve data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("store: read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			return fmt.Errorf("store: raw curve data missing column %q", col)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", s.table)); err != nil {
		return fmt.Errorf("store: drop table: %w", err)
	}
	createStmt := fmt.Sprintf(
		`CREATE TABLE %s (
			instrument TEXT NOT NULL,
			date TEXT NOT NULL,
			tenor REAL NOT NULL,
			yield_to_maturity REAL NOT NULL
		)`, s.table)
	if _, err := tx.Exec(createStmt); err != nil {
		return fmt.Errorf("store: create table: %w", err)
	}

	insert := s.rebind(fmt.Sprintf(
		"INSERT INTO %s (instrument, date, tenor, yield_to_maturity) VALUES (?, ?, ?, ?)", s.table))
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("store: read line %d: %w", line, err)
		}
		line++

		tenor, err := strconv.ParseFloat(rec[idx["tenor"]], 64)
		if err != nil {
			return fmt.Errorf("store: line %d: bad tenor: %w", line, err)
		}
		ytm, err := strconv.ParseFloat(rec[idx["yield_to_maturity"]], 64)
		if err != nil {
			return fmt.Errorf("store: line %d: bad yield: %w", line, err)
		}
		if _, err := stmt.Exec(rec[idx["instrument"]], rec[idx["date"]], tenor, ytm); err != nil {
			return fmt.Errorf("store: insert line %d: %w", line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
