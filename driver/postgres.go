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

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// postgresUndefinedTable is the Postgres error code for "undefined_table".
const postgresUndefinedTable = "42P01"

// Postgres adapts github.com/lib/pq for use as the engine's driver.
type Postgres struct{}

var _ Adapter = Postgres{}

// Name is the directory identifier "Pg", matching the layout in spec.md §6.1.
func (Postgres) Name() string { return "Pg" }

// Placeholder returns Postgres's dollar-numbered parameter syntax.
func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// Now returns Postgres's current-timestamp function.
func (Postgres) Now() string { return "now()" }

// QuoteIdentifier quotes name with Postgres's double-quote syntax.
func (Postgres) QuoteIdentifier(name string) string { return `"` + name + `"` }

// IsMissingTableError recognizes Postgres error 42P01 (undefined_table).
func (Postgres) IsMissingTableError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == postgresUndefinedTable
	}
	return false
}
