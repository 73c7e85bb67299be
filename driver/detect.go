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
	"database/sql"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Detect picks the Adapter matching db's underlying sql.Driver, so
// driver-name can be "inferred from the handle if omitted" (spec.md §6.3).
func Detect(db *sql.DB) (Adapter, error) {
	switch db.Driver().(type) {
	case *pq.Driver:
		return Postgres{}, nil
	case *mysqldriver.MySQLDriver:
		return MySQL{}, nil
	case *sqlite3.SQLiteDriver:
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("driver: cannot infer adapter from %T, pass driver-name explicitly", db.Driver())
	}
}
