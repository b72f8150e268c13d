// Package store reads DXLog SQLite contest databases.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/verte-zerg/qsostat/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrNotFound is returned when the database file does not exist.
	ErrNotFound = errors.New("log database not found")
	// ErrNotDXLog is returned when the file lacks the contest tables.
	ErrNotDXLog = errors.New("not a DXLog database")
	// ErrContestNotFound is returned for an unknown contest id.
	ErrContestNotFound = errors.New("contest not found")
)

// SortKey orders the contest list.
type SortKey string

// Contest list orderings.
const (
	SortByDate    SortKey = "date"
	SortByContest SortKey = "contest"
)

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByContest:
		return SortByContest, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (use date or contest)", s)
	}
}

func (k SortKey) columns() []string {
	if k == SortByContest {
		return []string{"ContestName", "StartDate"}
	}
	return []string{"StartDate", "ContestName"}
}

// Store wraps read-only access to one log database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens an existing log database and checks that it holds contest data.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection so the query_only pragma covers every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	st := &Store{db: db, path: path}
	if err := st.validate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on validation failure.
			_ = cerr
		}
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) validate() error {
	if _, err := s.db.Exec(`PRAGMA query_only = ON`); err != nil {
		return fmt.Errorf("failed to set query_only: %w", err)
	}
	rows, err := s.db.Query(`SELECT StartDate, ContestName FROM ContestInstance LIMIT 1`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotDXLog, err)
	}
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
	if _, err := s.db.Exec(`SELECT TS, ContestNR FROM DXLOG LIMIT 0`); err != nil {
		return fmt.Errorf("%w: %v", ErrNotDXLog, err)
	}
	return nil
}

const contestColumns = `ContestNR, ContestName, StartDate, PowerCategory`

// ListContests returns all contest instances in the requested order.
func (s *Store) ListContests(ctx context.Context, key SortKey, desc bool) ([]model.Contest, error) {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	order := make([]string, 0, 2)
	for _, col := range key.columns() {
		order = append(order, col+" "+dir)
	}
	query := fmt.Sprintf(`SELECT %s FROM ContestInstance ORDER BY %s`, contestColumns, strings.Join(order, ", "))
	return s.queryContests(ctx, query)
}

// FindContests returns contests whose name contains query, case-insensitively.
func (s *Store) FindContests(ctx context.Context, query string) ([]model.Contest, error) {
	q := fmt.Sprintf(`SELECT %s FROM ContestInstance
		WHERE lower(ContestName) LIKE '%%' || lower(?) || '%%'
		ORDER BY StartDate DESC, ContestName ASC`, contestColumns)
	return s.queryContests(ctx, q, strings.TrimSpace(query))
}

// GetContest returns one contest instance.
func (s *Store) GetContest(ctx context.Context, id int64) (model.Contest, error) {
	query := fmt.Sprintf(`SELECT %s FROM ContestInstance WHERE ContestNR = ?`, contestColumns)
	contests, err := s.queryContests(ctx, query, id)
	if err != nil {
		return model.Contest{}, err
	}
	if len(contests) == 0 {
		return model.Contest{}, fmt.Errorf("%w: %d", ErrContestNotFound, id)
	}
	return contests[0], nil
}

func (s *Store) queryContests(ctx context.Context, query string, args ...any) ([]model.Contest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var contests []model.Contest
	for rows.Next() {
		var (
			c     model.Contest
			name  sql.NullString
			start any
			power sql.NullString
		)
		if err := rows.Scan(&c.ID, &name, &start, &power); err != nil {
			return nil, err
		}
		c.Name = name.String
		c.PowerCategory = power.String
		if start != nil {
			parsed, err := parseTimestamp(start)
			if err != nil {
				return nil, fmt.Errorf("contest %d start date: %w", c.ID, err)
			}
			c.StartDate = parsed
		}
		contests = append(contests, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contests, nil
}

// ListContacts returns every contact logged for a contest in storage order.
func (s *Store) ListContacts(ctx context.Context, contestID int64) ([]model.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT d.TS, d.ContestNR, c.ContestName, d.Call, d.Band,
		d.Points, d.Mult1, d.Mult2, d.IsRunQSO, d.Continent, d.CountryPrefix, d.Sect, d.RadioNR
		FROM DXLOG d
		LEFT JOIN ContestInstance c ON c.ContestNR = d.ContestNR
		WHERE d.ContestNR = ?`, contestID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var contacts []model.Contact
	for rows.Next() {
		var (
			c                         model.Contact
			ts                        any
			name, call                sql.NullString
			band                      sql.NullFloat64
			points, mult1, mult2, run sql.NullInt64
			continent, country, sect  sql.NullString
			radio                     sql.NullInt64
		)
		if err := rows.Scan(&ts, &c.ContestID, &name, &call, &band, &points, &mult1, &mult2, &run,
			&continent, &country, &sect, &radio); err != nil {
			return nil, err
		}
		parsed, err := parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("contest %d contact timestamp: %w", contestID, err)
		}
		c.Time = parsed
		c.ContestName = name.String
		c.Call = strings.ToUpper(strings.TrimSpace(call.String))
		c.BandMHz = band.Float64
		c.Points = int(points.Int64)
		c.Mult1 = mult1.Int64 != 0
		c.Mult2 = mult2.Int64 != 0
		c.IsRun = run.Int64 != 0
		c.Continent = continent.String
		c.CountryPrefix = country.String
		c.Section = sect.String
		c.Radio = int(radio.Int64)
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp converts the driver value of a DATETIME column to UTC.
func parseTimestamp(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val.UTC(), nil
	case int64:
		return time.Unix(val, 0).UTC(), nil
	case float64:
		return julianToTime(val), nil
	case []byte:
		return parseTimestampString(string(val))
	case string:
		return parseTimestampString(val)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// julianEpoch is the Julian day number of the Unix epoch.
const julianEpoch = 2440587.5

func julianToTime(jd float64) time.Time {
	secs := (jd - julianEpoch) * 86400
	return time.Unix(0, int64(secs*1e9)).UTC().Round(time.Millisecond)
}
