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

	"github.com/sirupsen/logrus"

	"github.com/sqlschema/migrate/driver"
)

// Executor wraps a plan in a single transaction, streams each edge's
// statements to the driver, interleaves the bookkeeping writes between
// edges, and rolls back the whole transaction on the first failure (§4.6).
// All statements for one run execute on one connection in one transaction;
// partial progress is never observable outside it.
type Executor struct {
	db     *sql.DB
	driver driver.Adapter
	store  *Store
	log    logrus.FieldLogger
}

// NewExecutor creates an Executor bound to db and adapter.
func NewExecutor(db *sql.DB, adapter driver.Adapter, log logrus.FieldLogger) *Executor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{
		db:     db,
		driver: adapter,
		store:  NewStore(adapter),
		log:    log.WithField("component", "executor"),
	}
}

// Execute runs every edge of the plan in order, inside one transaction.
// currentlyPresent tells the executor whether schema already had a
// schema_version row before the first edge (an absent schema being
// installed gets an INSERT, a present one an UPDATE, per §4.5). An empty
// plan is a no-op: no transaction is opened and nothing is written, which
// observably matches "committed without bookkeeping writes" (§4.4).
func (e *Executor) Execute(ctx context.Context, schema string, layout *Layout, edges []Edge, currentlyPresent bool) error {
	if len(edges) == 0 {
		return nil
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return &ExecutionFailureError{Schema: schema, Err: err}
	}

	wasPresent := currentlyPresent
	for _, edge := range edges {
		log := e.log.WithField("schema", schema).WithField("edge", edge.DirName)
		log.Debug("running edge")

		src := lookupSource(layout, edge)
		files, err := Overlay(src)
		if err != nil {
			_ = tx.Rollback()
			return err
		}

		for _, f := range files {
			body, err := ReadScript(f.Path)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
			for _, stmt := range SplitStatements(body) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					log.WithError(err).WithField("file", f.Path).Error("statement failed, rolling back")
					_ = tx.Rollback()
					return &ExecutionFailureError{Schema: schema, Edge: edge, File: f.Path, Statement: stmt, Err: err}
				}
			}
		}

		for _, bstmt := range e.store.RecordTransition(schema, edge.From, edge.To, wasPresent) {
			if _, err := tx.ExecContext(ctx, bstmt.SQL, bstmt.Args...); err != nil {
				log.WithError(err).Error("bookkeeping write failed, rolling back")
				_ = tx.Rollback()
				return &ExecutionFailureError{Schema: schema, Edge: edge, Statement: bstmt.SQL, Err: err}
			}
		}

		wasPresent = !edge.To.IsZero()
		log.Info("edge applied")
	}

	if err := tx.Commit(); err != nil {
		return &ExecutionFailureError{Schema: schema, Edge: edges[len(edges)-1], Err: err}
	}
	return nil
}

// lookupSource finds the ScriptSource for edge in layout. Transitions are
// checked first by their "from-to" directory name: a transition edge whose
// source version happens to be zero (e.g. a "0-0.05" directory, valid per
// §4.4/§6.1) still has From.IsZero() true, so install-ness can't be inferred
// from that alone. Only once no transition matches is edge treated as an
// install, keyed by the target version's text.
func lookupSource(layout *Layout, edge Edge) *ScriptSource {
	if src, ok := layout.Transitions[edge.DirName]; ok {
		return src
	}
	return layout.Installs[edge.To.String()]
}
