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

package migrator_test

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sqlschema/migrate/driver"
	"github.com/sqlschema/migrate/migrator"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func openTestDB() *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	Expect(err).To(Succeed())
	_, err = db.Exec(`CREATE TABLE schema_version (schema TEXT PRIMARY KEY, version TEXT NOT NULL)`)
	Expect(err).To(Succeed())
	_, err = db.Exec(`CREATE TABLE schema_log (schema TEXT, from_version TEXT, to_version TEXT, at TIMESTAMP)`)
	Expect(err).To(Succeed())
	return db
}

var _ = Describe("Executor", func() {
	var (
		root string
		db   *sql.DB
		ex   *migrator.Executor
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "executor-test")
		Expect(err).To(Succeed())
		DeferCleanup(func() { _ = os.RemoveAll(root) })

		db = openTestDB()
		DeferCleanup(func() { _ = db.Close() })

		ex = migrator.NewExecutor(db, driver.SQLite{}, nil)
		ctx = context.Background()
	})

	It("installs a fresh schema and records bookkeeping in one transaction", func() {
		writeFile(root, "sqlite3/0.01", "100_a.sql", "CREATE TABLE widgets (id INTEGER PRIMARY KEY);")

		layout, err := migrator.NewScanner(root, "sqlite3", nil).Scan()
		Expect(err).To(Succeed())

		Expect(ex.Execute(ctx, "widgets", layout, layout.Edges, false)).To(Succeed())

		var version string
		Expect(db.QueryRow(`SELECT version FROM schema_version WHERE schema = ?`, "widgets").Scan(&version)).To(Succeed())
		Expect(version).To(Equal("0.01"))

		var count int
		Expect(db.QueryRow(`SELECT COUNT(*) FROM schema_log WHERE schema = ?`, "widgets").Scan(&count)).To(Succeed())
		Expect(count).To(Equal(1))
	})

	It("rolls back the whole transaction when a statement fails", func() {
		writeFile(root, "sqlite3/0.01", "100_a.sql", "CREATE TABLE widgets (id INTEGER PRIMARY KEY);")
		writeFile(root, "sqlite3/0.01", "200_bad.sql", "NOT VALID SQL AT ALL;")

		layout, err := migrator.NewScanner(root, "sqlite3", nil).Scan()
		Expect(err).To(Succeed())

		err = ex.Execute(ctx, "widgets", layout, layout.Edges, false)
		Expect(err).To(HaveOccurred())

		var execErr *migrator.ExecutionFailureError
		Expect(err).To(BeAssignableToTypeOf(execErr))

		var count int
		Expect(db.QueryRow(`SELECT COUNT(*) FROM schema_version WHERE schema = ?`, "widgets").Scan(&count)).To(Succeed())
		Expect(count).To(Equal(0))
	})

	It("treats an empty plan as a no-op", func() {
		Expect(ex.Execute(ctx, "widgets", &migrator.Layout{}, nil, false)).To(Succeed())
	})
})
