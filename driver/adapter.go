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

// Package driver defines the narrow adapter the migration engine consumes
// to stay agnostic of a specific SQL dialect (§6.4), plus concrete adapters
// for the most common relational drivers. Everything besides what is listed
// here is plain SQL, opaque to the engine.
package driver

// Adapter is the thin per-driver interface the engine's core consumes.
// Script bodies themselves are treated as opaque SQL by the engine; this
// interface only covers the handful of places dialect actually leaks
// through: the driver's name (used to pick its schema subdirectory),
// parameter placeholder syntax, a timestamp literal, identifier quoting, and
// recognizing the "table does not exist yet" condition the bootstrap cycle
// depends on.
type Adapter interface {
	// Name is the identifier used to select this driver's schema
	// subdirectory on disk, e.g. "Pg", "mysql", "sqlite3".
	Name() string

	// Placeholder returns the positional parameter marker for argument
	// position n (1-based), e.g. "$1" for Postgres or "?" for MySQL/SQLite.
	Placeholder(n int) string

	// Now returns a SQL literal/expression producing the current timestamp
	// in this dialect, for use in a generated INSERT.
	Now() string

	// QuoteIdentifier quotes a bare identifier for safe use as a column or
	// table name in this dialect, e.g. for the "schema" bookkeeping column,
	// which is a reserved word in MySQL though not in Postgres or SQLite.
	QuoteIdentifier(name string) string

	// IsMissingTableError reports whether err indicates that a bookkeeping
	// table does not exist yet. Used exclusively during the bootstrap
	// cycle (§4.7) to treat "table missing" as "schema absent" rather than
	// as an error.
	IsMissingTableError(err error) bool
}
