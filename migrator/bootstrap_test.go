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

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sqlschema/migrate/driver"
	"github.com/sqlschema/migrate/migrator"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bootstrap", func() {
	var (
		root string
		db   *sql.DB
		ctx  context.Context
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		writeTree(root, "widgets/sqlite3/0.01", "migration-directories/sqlite3/0.01")
		writeFile(root, "widgets/sqlite3/0.01", "100_a.sql", "CREATE TABLE widgets(id INTEGER);")
		writeFile(root, "migration-directories/sqlite3/0.01", "100_a.sql", "CREATE TABLE whatever(id INTEGER);")
		writeFile(root, "widgets/sqlite3/0.01-0", "100_a.sql", "DROP TABLE widgets;")
		writeFile(root, "migration-directories/sqlite3/0.01-0", "100_a.sql", "DROP TABLE whatever;")

		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).To(Succeed())
		DeferCleanup(func() { _ = db.Close() })
		_, err = db.Exec(`CREATE TABLE schema_version (schema TEXT PRIMARY KEY, version TEXT NOT NULL)`)
		Expect(err).To(Succeed())
		_, err = db.Exec(`CREATE TABLE schema_log (schema TEXT, from_version TEXT, to_version TEXT, at TIMESTAMP)`)
		Expect(err).To(Succeed())

		ctx = context.Background()
	})

	newUserEngine := func() *migrator.Engine {
		log, _ := test.NewNullLogger()
		eng, err := migrator.NewEngine(migrator.Options{
			DB:         db,
			SchemaName: "widgets",
			DriverName: "sqlite3",
			Adapter:    driver.SQLite{},
			BasePath:   root,
			Log:        log,
		})
		Expect(err).To(Succeed())
		return eng
	}

	It("migrates the internal schema before the user schema", func() {
		user := newUserEngine()
		boot, err := migrator.NewBootstrap(user, root, "")
		Expect(err).To(Succeed())

		Expect(boot.FullMigrate(ctx)).To(Succeed())

		var internalVersion, userVersion string
		Expect(db.QueryRow(`SELECT version FROM schema_version WHERE schema = ?`,
			migrator.InternalSchema).Scan(&internalVersion)).To(Succeed())
		Expect(internalVersion).To(Equal("0.01"))

		Expect(db.QueryRow(`SELECT version FROM schema_version WHERE schema = ?`,
			"widgets").Scan(&userVersion)).To(Succeed())
		Expect(userVersion).To(Equal("0.01"))
	})

	It("tears down the internal schema once the last user schema is deleted", func() {
		user := newUserEngine()
		boot, err := migrator.NewBootstrap(user, root, "")
		Expect(err).To(Succeed())
		Expect(boot.FullMigrate(ctx)).To(Succeed())

		Expect(boot.FullDeleteSchema(ctx)).To(Succeed())

		var count int
		Expect(db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count)).To(Succeed())
		Expect(count).To(Equal(0))
	})

	It("keeps the internal schema while another user schema is still installed", func() {
		user := newUserEngine()
		boot, err := migrator.NewBootstrap(user, root, "")
		Expect(err).To(Succeed())
		Expect(boot.FullMigrate(ctx)).To(Succeed())

		_, err = db.Exec(`INSERT INTO schema_version (schema, version) VALUES ('other-widgets', '0.01')`)
		Expect(err).To(Succeed())

		Expect(boot.FullDeleteSchema(ctx)).To(Succeed())

		var internalVersion string
		Expect(db.QueryRow(`SELECT version FROM schema_version WHERE schema = ?`,
			migrator.InternalSchema).Scan(&internalVersion)).To(Succeed())
		Expect(internalVersion).To(Equal("0.01"))
	})
})
