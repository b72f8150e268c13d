// Package storetest builds DXLog-shaped SQLite fixtures for tests.
package storetest

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/qsostat/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const tsLayout = "2006-01-02 15:04:05"

var schema = []string{
	`CREATE TABLE ContestInstance (
		ContestNR INTEGER PRIMARY KEY,
		ContestName TEXT,
		StartDate DATETIME,
		PowerCategory TEXT
	);`,
	`CREATE TABLE DXLOG (
		TS DATETIME NOT NULL,
		ContestNR INTEGER NOT NULL,
		Call TEXT,
		Band REAL,
		Points INTEGER,
		Mult1 INTEGER,
		Mult2 INTEGER,
		IsRunQSO INTEGER,
		Continent TEXT,
		CountryPrefix TEXT,
		Sect TEXT,
		RadioNR INTEGER
	);`,
}

// Create writes a fixture database into t.TempDir and returns its path.
func Create(t testing.TB, contests []model.Contest, contacts []model.Contact) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.s3db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create fixture schema: %v", err)
		}
	}
	for _, c := range contests {
		if _, err := db.Exec(`INSERT INTO ContestInstance (ContestNR, ContestName, StartDate, PowerCategory) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.StartDate.UTC().Format(tsLayout), c.PowerCategory); err != nil {
			t.Fatalf("insert contest: %v", err)
		}
	}
	for _, c := range contacts {
		if _, err := db.Exec(`INSERT INTO DXLOG (TS, ContestNR, Call, Band, Points, Mult1, Mult2, IsRunQSO, Continent, CountryPrefix, Sect, RadioNR)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Time.UTC().Format(tsLayout), c.ContestID, c.Call, c.BandMHz, c.Points,
			boolInt(c.Mult1), boolInt(c.Mult2), boolInt(c.IsRun),
			c.Continent, c.CountryPrefix, c.Section, c.Radio); err != nil {
			t.Fatalf("insert contact: %v", err)
		}
	}
	return path
}

// Time parses "2006-01-02 15:04" as UTC or fails the test.
func Time(t testing.TB, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
