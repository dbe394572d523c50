// Package sqlite persists temperature records into a relational SQLite
// schema: continents → countries → cities → temperatures, plus a flattening
// view for queries. The schema is a versioned goose migration embedded in
// the binary and applied idempotently at open.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/wikiclimate/city-temp-etl/internal/domain"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store wraps the SQLite database. It implements pipeline.Loader.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the database at path and migrates it to the current
// schema version.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}

	db, err := sql.Open("sqlite", "file:"+path+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	logger.Debug("store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// countryKey scopes country deduplication to a continent; the same country
// name under two continents is two rows.
type countryKey struct {
	name      string
	continent string
}

// LoadRecords inserts all records in one transaction. Continents and
// (country, continent) pairs are deduplicated with insert-or-ignore and a
// load-local id memo; cities and temperatures are always inserted, one row
// per record.
func (s *Store) LoadRecords(ctx context.Context, records []domain.TemperatureRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	continentIDs := make(map[string]int64)
	countryIDs := make(map[countryKey]int64)

	for _, rec := range records {
		continentID, ok := continentIDs[rec.Continent]
		if !ok {
			continentID, err = upsertName(ctx, tx,
				`INSERT OR IGNORE INTO continents (name) VALUES (?)`,
				`SELECT id FROM continents WHERE name = ?`,
				rec.Continent)
			if err != nil {
				return fmt.Errorf("insert continent %q: %w", rec.Continent, err)
			}
			continentIDs[rec.Continent] = continentID
		}

		key := countryKey{name: rec.Country, continent: rec.Continent}
		countryID, ok := countryIDs[key]
		if !ok {
			countryID, err = upsertName(ctx, tx,
				`INSERT OR IGNORE INTO countries (name, continent_id) VALUES (?, ?)`,
				`SELECT id FROM countries WHERE name = ? AND continent_id = ?`,
				rec.Country, continentID)
			if err != nil {
				return fmt.Errorf("insert country %q: %w", rec.Country, err)
			}
			countryIDs[key] = countryID
		}

		res, execErr := tx.ExecContext(ctx,
			`INSERT INTO cities (name, country_id) VALUES (?, ?)`,
			rec.City, countryID)
		if execErr != nil {
			err = fmt.Errorf("insert city %q: %w", rec.City, execErr)
			return err
		}
		cityID, idErr := res.LastInsertId()
		if idErr != nil {
			err = fmt.Errorf("city id for %q: %w", rec.City, idErr)
			return err
		}

		args := make([]any, 0, 2+domain.MonthsPerYear)
		args = append(args, cityID)
		for _, month := range rec.Monthly {
			args = append(args, month)
		}
		args = append(args, rec.YearlyAvg)

		if _, execErr := tx.ExecContext(ctx,
			`INSERT INTO temperatures
			    (city_id, jan, feb, mar, apr, may, jun, jul, aug, sep, oct, nov, dec_temp, yearly_avg)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...); execErr != nil {
			err = fmt.Errorf("insert temperatures for %q: %w", rec.City, execErr)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}

	s.logger.Info("records loaded",
		"records", len(records),
		"continents", len(continentIDs),
		"countries", len(countryIDs),
	)
	return nil
}

// upsertName runs an insert-or-ignore followed by an id lookup with the same
// arguments. Duplicate inserts are silent by design.
func upsertName(ctx context.Context, tx *sql.Tx, insertSQL, selectSQL string, args ...any) (int64, error) {
	if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
		return 0, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, selectSQL, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// RecordRun appends one provenance row for a completed scrape pass.
func (s *Store) RecordRun(ctx context.Context, run domain.ScrapeRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_runs (source_url, fetched_at, record_count) VALUES (?, ?, ?)`,
		run.SourceURL, run.FetchedAt.UTC().Format(time.RFC3339), run.RecordCount)
	if err != nil {
		return fmt.Errorf("record scrape run: %w", err)
	}
	return nil
}

// Summary returns row counts for the three dimension tables.
func (s *Store) Summary(ctx context.Context) (domain.StoreSummary, error) {
	var sum domain.StoreSummary
	counts := []struct {
		table string
		dest  *int
	}{
		{"continents", &sum.Continents},
		{"countries", &sum.Countries},
		{"cities", &sum.Cities},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return domain.StoreSummary{}, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return sum, nil
}

// HottestCities returns up to n cities ordered by yearly average descending.
// Cities without a yearly average sort last (SQLite DESC places NULLs at the
// end) and surface with a nil YearlyAvg.
func (s *Store) HottestCities(ctx context.Context, n int) ([]domain.CityYearly, error) {
	return s.queryRanking(ctx,
		`SELECT continent, country, city, yearly_avg
		 FROM city_temperature_view
		 ORDER BY yearly_avg DESC
		 LIMIT ?`, n)
}

// ColdestCities returns up to n cities ordered by yearly average ascending,
// excluding cities with no yearly average.
func (s *Store) ColdestCities(ctx context.Context, n int) ([]domain.CityYearly, error) {
	return s.queryRanking(ctx,
		`SELECT continent, country, city, yearly_avg
		 FROM city_temperature_view
		 WHERE yearly_avg IS NOT NULL
		 ORDER BY yearly_avg ASC
		 LIMIT ?`, n)
}

func (s *Store) queryRanking(ctx context.Context, query string, n int) ([]domain.CityYearly, error) {
	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query ranking: %w", err)
	}
	defer rows.Close()

	var out []domain.CityYearly
	for rows.Next() {
		var cy domain.CityYearly
		var avg sql.NullFloat64
		if err := rows.Scan(&cy.Continent, &cy.Country, &cy.City, &avg); err != nil {
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		if avg.Valid {
			v := avg.Float64
			cy.YearlyAvg = &v
		}
		out = append(out, cy)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
