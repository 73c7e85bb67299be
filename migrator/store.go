// Copyright (c) 2023 IndyKite
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package migrator

import (
	"context"
	"database/sql"

	"github.com/sqlschema/migrate/driver"
)

// InternalSchema is the reserved name under which the engine's own
// bookkeeping schema is recorded in schema_version/schema_log (§4.7, §6.2).
const InternalSchema = "migration-directories"

// Store reads and generates writes for the engine's two bookkeeping tables.
// It never executes statements itself: record_transition and
// drop_schema_record only produce SQL, so the executor can fold them into
// its own single transaction (§4.5).
type Store struct {
	driver driver.Adapter
}

// NewStore creates a Store that generates SQL for the given driver adapter.
func NewStore(adapter driver.Adapter) *Store {
	return &Store{driver: adapter}
}

// CurrentVersion returns the current recorded version for schema, or
// Zero if the schema is absent. During bootstrap, a "table missing" error
// (as recognized by the driver adapter) is treated as absent rather than
// surfaced as an error (§4.7, §7).
func (s *Store) CurrentVersion(ctx context.Context, q Queryer, schema string) (Version, error) {
	schemaCol := s.driver.QuoteIdentifier("schema")
	row := q.QueryRowContext(ctx, `SELECT version FROM schema_version WHERE `+schemaCol+` = `+s.driver.Placeholder(1), schema)

	var text string
	if err := row.Scan(&text); err != nil {
		if err == sql.ErrNoRows {
			return Zero, nil
		}
		if s.driver.IsMissingTableError(err) {
			return Zero, nil
		}
		return Version{}, err
	}

	v, err := ParseVersion(text)
	if err != nil {
		return Version{}, err
	}
	return v, nil
}

// Queryer is the minimal subset of *sql.DB / *sql.Tx the store needs to read
// the current version. Narrowed to ease testing against either a live
// connection or a transaction in progress.
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RecordTransition produces the SQL statements that, run inside the same
// transaction as a migration's scripts, update schema_version and append to
// schema_log for one edge (§4.5). wasPresent indicates whether the schema
// already had a schema_version row before this edge (INSERT vs UPDATE vs
// DELETE).
func (s *Store) RecordTransition(schema string, from, to Version, wasPresent bool) []Statement {
	ph := s.driver.Placeholder
	now := s.driver.Now()
	schemaCol := s.driver.QuoteIdentifier("schema")

	var versionStmt Statement
	switch {
	case to.IsZero():
		versionStmt = Statement{
			SQL:  `DELETE FROM schema_version WHERE ` + schemaCol + ` = ` + ph(1),
			Args: []any{schema},
		}
	case wasPresent:
		versionStmt = Statement{
			SQL:  `UPDATE schema_version SET version = ` + ph(1) + ` WHERE ` + schemaCol + ` = ` + ph(2),
			Args: []any{to.String(), schema},
		}
	default:
		versionStmt = Statement{
			SQL:  `INSERT INTO schema_version (` + schemaCol + `, version) VALUES (` + ph(1) + `, ` + ph(2) + `)`,
			Args: []any{schema, to.String()},
		}
	}

	var fromArg any
	if !from.IsZero() {
		fromArg = from.String()
	}

	logStmt := Statement{
		SQL: `INSERT INTO schema_log (` + schemaCol + `, from_version, to_version, at) VALUES (` +
			ph(1) + `, ` + ph(2) + `, ` + ph(3) + `, ` + now + `)`,
		Args: []any{schema, fromArg, to.String()},
	}

	return []Statement{versionStmt, logStmt}
}

// DropSchemaRecord produces the SQL to remove schema's schema_version row
// without touching schema_log, preserving the audit trail (§4.5).
func (s *Store) DropSchemaRecord(schema string) Statement {
	return Statement{
		SQL:  `DELETE FROM schema_version WHERE ` + s.driver.QuoteIdentifier("schema") + ` = ` + s.driver.Placeholder(1),
		Args: []any{schema},
	}
}

// InstalledSchemas returns the names of every schema with a schema_version
// row, used by the bootstrap controller to decide whether the internal
// schema can be torn down (§4.7).
func (s *Store) InstalledSchemas(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+s.driver.QuoteIdentifier("schema")+` FROM schema_version`)
	if err != nil {
		if s.driver.IsMissingTableError(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		schemas = append(schemas, name)
	}
	return schemas, rows.Err()
}

// Statement is one SQL statement with its positional arguments, as produced
// by the bookkeeping store and consumed by the executor.
type Statement struct {
	SQL  string
	Args []any
}
