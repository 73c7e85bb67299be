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

package driver

import "strings"

// SQLite adapts github.com/mattn/go-sqlite3 for use as the engine's driver.
// It is also the driver used by this module's own scanner/executor
// integration tests, the same role octacian/migrate gives it.
type SQLite struct{}

var _ Adapter = SQLite{}

// Name is the directory identifier "sqlite3", matching spec.md §6.1.
func (SQLite) Name() string { return "sqlite3" }

// Placeholder returns SQLite's "?" parameter syntax.
func (SQLite) Placeholder(int) string { return "?" }

// Now returns SQLite's current-timestamp function.
func (SQLite) Now() string { return "CURRENT_TIMESTAMP" }

// QuoteIdentifier quotes name with SQLite's double-quote syntax.
func (SQLite) QuoteIdentifier(name string) string { return `"` + name + `"` }

// IsMissingTableError recognizes go-sqlite3's "no such table" condition.
// Unlike Postgres or MySQL, go-sqlite3 does not expose a structured error
// code distinguishing "missing table" from other SQL logic errors, so this
// falls back to matching the driver's own error text.
func (SQLite) IsMissingTableError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
