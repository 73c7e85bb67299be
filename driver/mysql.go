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

	"github.com/go-sql-driver/mysql"
)

// mysqlNoSuchTable is the MySQL error number for ER_NO_SUCH_TABLE.
const mysqlNoSuchTable = 1146

// MySQL adapts github.com/go-sql-driver/mysql for use as the engine's
// driver. MySQL's historical lack of transactional DDL on some storage
// engines means atomicity for DDL-heavy plans depends on the engine in use
// (§4.6); this adapter does not attempt to paper over that.
type MySQL struct{}

var _ Adapter = MySQL{}

// Name is the directory identifier "mysql", matching spec.md §6.1.
func (MySQL) Name() string { return "mysql" }

// Placeholder returns MySQL's "?" parameter syntax (position is unused:
// MySQL placeholders are positional by occurrence, not numbered).
func (MySQL) Placeholder(int) string { return "?" }

// Now returns MySQL's current-timestamp function.
func (MySQL) Now() string { return "NOW()" }

// QuoteIdentifier quotes name with MySQL's backtick syntax, needed for the
// "schema" bookkeeping column since SCHEMA is a MySQL reserved word.
func (MySQL) QuoteIdentifier(name string) string { return "`" + name + "`" }

// IsMissingTableError recognizes MySQL error 1146 (no such table).
func (MySQL) IsMissingTableError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable
	}
	return false
}
