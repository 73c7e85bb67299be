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

func v(text string) migrator.Version {
	ver, err := migrator.ParseVersion(text)
	ExpectWithOffset(1, err).To(Succeed())
	return ver
}

var _ = Describe("Engine", func() {
	var (
		root string
		db   *sql.DB
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "engine-test")
		Expect(err).To(Succeed())
		DeferCleanup(func() { _ = os.RemoveAll(root) })

		db = openTestDB()
		DeferCleanup(func() { _ = db.Close() })

		ctx = context.Background()
	})

	newEngine := func(schema string) *migrator.Engine {
		e, err := migrator.NewEngine(migrator.Options{
			DB:         db,
			SchemaName: schema,
			DriverName: "sqlite3",
			Adapter:    driver.SQLite{},
			BasePath:   root,
		})
		Expect(err).To(Succeed())
		return e
	}

	It("installs a fresh schema (scenario 1)", func() {
		writeFile(root, "widgets/sqlite3/0.01", "100_a.sql", "CREATE TABLE t(id INTEGER);")

		e := newEngine("widgets")
		Expect(e.MigrateTo(ctx, v("0.01"))).To(Succeed())

		current, err := e.CurrentVersion(ctx)
		Expect(err).To(Succeed())
		Expect(current.Equal(v("0.01"))).To(BeTrue())
	})

	It("prefers the direct transition edge over a longer path (scenario 2)", func() {
		writeFile(root, "widgets/sqlite3/0.01", "100_a.sql", "CREATE TABLE t(id INTEGER);")
		writeFile(root, "widgets/sqlite3/0.01-0.02", "100_a.sql", "ALTER TABLE t ADD c INTEGER;")
		writeFile(root, "widgets/sqlite3/0.01-0.03", "100_a.sql", "ALTER TABLE t ADD d INTEGER;")
		writeFile(root, "widgets/sqlite3/0.02", "100_a.sql", "CREATE TABLE t(id INTEGER, c INTEGER);")
		writeFile(root, "widgets/sqlite3/0.03", "100_a.sql", "CREATE TABLE t(id INTEGER, d INTEGER);")

		e := newEngine("widgets")
		edges, err := e.Plan(v("0.01"), v("0.03"))
		Expect(err).To(Succeed())
		Expect(edges).To(HaveLen(1))
		Expect(edges[0].DirName).To(Equal("0.01-0.03"))
	})

	It("plans a multi-edge downgrade to removal (scenario 3)", func() {
		writeFile(root, "widgets/sqlite3/0.01", "100_a.sql", "CREATE TABLE t(id INTEGER);")
		writeFile(root, "widgets/sqlite3/0.01-0.02", "100_a.sql", "ALTER TABLE t ADD c INTEGER;")
		writeFile(root, "widgets/sqlite3/0.02-0.01", "100_a.sql", "ALTER TABLE t DROP COLUMN c;")
		writeFile(root, "widgets/sqlite3/0.01-0.00", "100_a.sql", "DROP TABLE t;")

		e := newEngine("widgets")
		Expect(e.MigrateTo(ctx, v("0.02"))).To(Succeed())
		Expect(e.MigrateTo(ctx, migrator.Zero)).To(Succeed())

		current, err := e.CurrentVersion(ctx)
		Expect(err).To(Succeed())
		Expect(current.IsZero()).To(BeTrue())
	})

	It("fails with NoMigrationPath when no edge connects the versions (scenario 4)", func() {
		writeFile(root, "widgets/sqlite3/0.01", "100_a.sql", "CREATE TABLE t(id INTEGER);")
		writeFile(root, "widgets/sqlite3/0.02", "100_a.sql", "CREATE TABLE t(id INTEGER, c INTEGER);")

		e := newEngine("widgets")
		Expect(e.MigrateTo(ctx, v("0.01"))).To(Succeed())

		err := e.MigrateTo(ctx, v("0.02"))
		var pathErr *migrator.NoMigrationPathError
		Expect(err).To(BeAssignableToTypeOf(pathErr))

		current, err := e.CurrentVersion(ctx)
		Expect(err).To(Succeed())
		Expect(current.Equal(v("0.01"))).To(BeTrue())
	})

	It("auto-targets the highest reachable version when none is given", func() {
		writeFile(root, "widgets/sqlite3/0.01", "100_a.sql", "CREATE TABLE t(id INTEGER);")
		writeFile(root, "widgets/sqlite3/0.01-0.02", "100_a.sql", "ALTER TABLE t ADD c INTEGER;")

		e := newEngine("widgets")
		Expect(e.Migrate(ctx)).To(Succeed())

		current, err := e.CurrentVersion(ctx)
		Expect(err).To(Succeed())
		Expect(current.Equal(v("0.02"))).To(BeTrue())
	})

	It("treats a no-op target as success without writing bookkeeping", func() {
		e := newEngine("widgets")
		Expect(e.MigrateTo(ctx, migrator.Zero)).To(Succeed())

		var count int
		Expect(db.QueryRow(`SELECT COUNT(*) FROM schema_log`).Scan(&count)).To(Succeed())
		Expect(count).To(Equal(0))
	})
})
