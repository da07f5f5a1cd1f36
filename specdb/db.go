// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package specdb stores parsed SPEC CPU records in a SQL database.
package specdb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/cpuhist/cpuhist/specfmt"
)

// DB is a high-level interface to a database of test and benchmark
// records. It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql    *sql.DB // underlying database connection
	driver string
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. sqlite3, mysql and
// postgres are supported; use specdb/sqlite3 instead of importing
// go-sqlite3 directly.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db, driver: driverName}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Tests (
	TestID VARCHAR(255) PRIMARY KEY,
	Tester VARCHAR(255),
	Machine VARCHAR(255),
	CPU VARCHAR(255),
	MHz DOUBLE PRECISION,
	HWAvail VARCHAR(32),
	OS VARCHAR(1024),
	Compiler VARCHAR(1024),
	AutoParallel VARCHAR(255),
	Family VARCHAR(16),
	Base VARCHAR(32),
	Peak VARCHAR(32){{if .mysql}},
	INDEX (Family){{end}}
);
CREATE TABLE IF NOT EXISTS Benches (
	TestID VARCHAR(255),
	Seq INTEGER,
	Name VARCHAR(255),
	Base VARCHAR(32),
	Peak VARCHAR(32),
	PRIMARY KEY (TestID, Seq),
	FOREIGN KEY (TestID) REFERENCES Tests(TestID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if not .mysql}}
CREATE INDEX IF NOT EXISTS TestsFamily ON Tests(Family);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql.
func (db *DB) createTables() error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{db.driver: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// rebind rewrites the ? placeholders in q for the database's driver.
func (db *DB) rebind(q string) string {
	return rebind(db.driver, q)
}

func rebind(driver, q string) string {
	if driver != "postgres" {
		return q
	}
	var buf strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			buf.WriteString("$" + strconv.Itoa(n))
			continue
		}
		buf.WriteRune(c)
	}
	return buf.String()
}

// A Load is a transaction inserting reports.
type Load struct {
	db *DB
	tx *sql.Tx
	// Tests is the number of test records inserted so far.
	Tests int
}

// NewLoad starts a transaction for inserting reports.
func (db *DB) NewLoad(ctx context.Context) (*Load, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Load{db: db, tx: tx}, nil
}

// Insert stores the records of rep, replacing any records previously
// stored under the same test ID. Excluded reports are ignored.
func (l *Load) Insert(ctx context.Context, rep *specfmt.Report) error {
	t := rep.Test
	if t == nil {
		return nil
	}
	for _, q := range []string{"DELETE FROM Benches WHERE TestID = ?", "DELETE FROM Tests WHERE TestID = ?"} {
		if _, err := l.tx.ExecContext(ctx, l.db.rebind(q), t.ID); err != nil {
			return err
		}
	}
	if _, err := l.tx.ExecContext(ctx, l.db.rebind("INSERT INTO Tests VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		t.ID, t.Tester, t.Machine, t.CPU, t.MHz, t.HWAvail, t.OS, t.Compiler, t.AutoParallel, string(t.Family), t.Base, t.Peak); err != nil {
		return err
	}
	var args []interface{}
	for i, b := range rep.Benches {
		args = append(args, t.ID, i, b.Name, b.Base, b.Peak)
	}
	if len(args) > 0 {
		query := "INSERT INTO Benches VALUES " + strings.Repeat("(?, ?, ?, ?, ?), ", len(args)/5)
		query = strings.TrimSuffix(query, ", ")
		if _, err := l.tx.ExecContext(ctx, l.db.rebind(query), args...); err != nil {
			return err
		}
	}
	l.Tests++
	return nil
}

// Commit attempts to commit the load.
func (l *Load) Commit() error {
	return l.tx.Commit()
}

// Abort cleans up resources associated with the load.
// It does not attempt to clean up partial database state.
func (l *Load) Abort() error {
	return l.tx.Rollback()
}

// CountTests returns the number of test records in the database.
func (db *DB) CountTests(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Tests").Scan(&n)
	return n, err
}

// Tests returns the test records of family ordered by test ID. If
// family is empty, all records are returned.
func (db *DB) Tests(ctx context.Context, family specfmt.Family) ([]*specfmt.TestRecord, error) {
	q := "SELECT TestID, Tester, Machine, CPU, MHz, HWAvail, OS, Compiler, AutoParallel, Family, Base, Peak FROM Tests"
	var args []interface{}
	if family != "" {
		q += " WHERE Family = ?"
		args = append(args, string(family))
	}
	q += " ORDER BY TestID"
	rows, err := db.sql.QueryContext(ctx, db.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tests []*specfmt.TestRecord
	for rows.Next() {
		t := new(specfmt.TestRecord)
		var fam string
		if err := rows.Scan(&t.ID, &t.Tester, &t.Machine, &t.CPU, &t.MHz, &t.HWAvail, &t.OS, &t.Compiler, &t.AutoParallel, &fam, &t.Base, &t.Peak); err != nil {
			return nil, err
		}
		t.Family = specfmt.Family(fam)
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// Benches returns the benchmark rows of the test testID in report
// order.
func (db *DB) Benches(ctx context.Context, testID string) ([]specfmt.BenchRecord, error) {
	rows, err := db.sql.QueryContext(ctx, db.rebind("SELECT Name, Base, Peak FROM Benches WHERE TestID = ? ORDER BY Seq"), testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []specfmt.BenchRecord
	for rows.Next() {
		b := specfmt.BenchRecord{ID: testID}
		if err := rows.Scan(&b.Name, &b.Base, &b.Peak); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	return db.sql.Close()
}
