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
	"errors"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sqlschema/migrate/driver"
)

// Options configures a new Engine (§6.3). DB is the only required field;
// everything else has a documented default.
type Options struct {
	// DB is the database handle the engine migrates. Required.
	DB *sql.DB

	// SchemaName is the logical schema this engine manages. Defaults to
	// DesiredVersionSource with "::" replaced by "-".
	SchemaName string

	// DesiredVersion pins the target version. Left empty, Migrate resolves
	// the highest version reachable from the current one (§4.4 auto-target).
	DesiredVersion string

	// DesiredVersionSource is free-form provenance for the desired version
	// (e.g. a qualified Go package path) used to derive SchemaName when it
	// is not given explicitly.
	DesiredVersionSource string

	// DriverName selects the on-disk driver subdirectory (e.g. "Pg",
	// "mysql", "sqlite3") and, combined with Adapter, the SQL dialect.
	// Inferred from DB via driver.Detect when empty.
	DriverName string

	// Adapter is the driver.Adapter to use. Inferred from DB when nil.
	Adapter driver.Adapter

	// BasePath is the root directory containing one subdirectory per
	// schema name. Required unless SchemaPath is given directly.
	BasePath string

	// SchemaPath overrides the on-disk root for this schema's directories.
	// Defaults to <BasePath>/<SchemaName>.
	SchemaPath string

	// Log receives structured progress logging. Defaults to the standard
	// logrus logger.
	Log logrus.FieldLogger
}

// Engine is the programmatic surface described in spec.md §6.3: it plans
// and executes migrations for one schema against one database handle.
type Engine struct {
	db       *sql.DB
	adapter  driver.Adapter
	schema   string
	desired  *Version
	log      logrus.FieldLogger
	store    *Store
	executor *Executor
	layout   *Layout
	graph    *Graph
}

// NewEngine validates opts and scans the schema directory once, building
// the transition graph the engine will plan against for its lifetime.
func NewEngine(opts Options) (*Engine, error) {
	if opts.DB == nil {
		return nil, errors.New("migrator: Options.DB is required")
	}

	schemaName := opts.SchemaName
	if schemaName == "" {
		schemaName = strings.ReplaceAll(opts.DesiredVersionSource, "::", "-")
	}
	if schemaName == "" {
		return nil, errors.New("migrator: Options.SchemaName or DesiredVersionSource is required")
	}

	adapter := opts.Adapter
	if adapter == nil {
		var err error
		adapter, err = driver.Detect(opts.DB)
		if err != nil {
			return nil, err
		}
	}
	driverName := opts.DriverName
	if driverName == "" {
		driverName = adapter.Name()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		if opts.BasePath == "" {
			return nil, errors.New("migrator: Options.BasePath or Options.SchemaPath is required")
		}
		schemaPath = filepath.Join(opts.BasePath, schemaName)
	}

	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("schema", schemaName)

	var desired *Version
	if opts.DesiredVersion != "" {
		v, err := ParseVersion(opts.DesiredVersion)
		if err != nil {
			return nil, err
		}
		desired = &v
	}

	layout, err := NewScanner(schemaPath, driverName, log).Scan()
	if err != nil {
		return nil, err
	}

	return &Engine{
		db:       opts.DB,
		adapter:  adapter,
		schema:   schemaName,
		desired:  desired,
		log:      log,
		store:    NewStore(adapter),
		executor: NewExecutor(opts.DB, adapter, log),
		layout:   layout,
		graph:    BuildGraph(layout.Edges),
	}, nil
}

// CurrentVersion returns the schema's recorded version, or Zero if absent.
func (e *Engine) CurrentVersion(ctx context.Context) (Version, error) {
	return e.store.CurrentVersion(ctx, e.db, e.schema)
}

// Plan computes the shortest-path sequence of edges from "from" to "to"
// without executing anything (§4.4, §6.3 plan(from, to)).
func (e *Engine) Plan(from, to Version) ([]Edge, error) {
	return e.graph.ShortestPath(from, to)
}

// resolveDesired implements the §4.4 auto-target rule: the highest version
// reachable from current when no desired version was configured.
func (e *Engine) resolveDesired(current Version) (Version, error) {
	if e.desired != nil {
		return *e.desired, nil
	}
	if !e.graph.HasVertex(current) {
		return Version{}, &UnknownCurrentVersionError{Schema: e.schema, Current: current}
	}
	best, ok := e.graph.HighestReachable(current)
	if !ok {
		return Version{}, &UnknownCurrentVersionError{Schema: e.schema, Current: current}
	}
	return best, nil
}

// MigrateTo plans and executes a migration of this engine's schema to the
// given target version (§6.3 migrate_to).
func (e *Engine) MigrateTo(ctx context.Context, to Version) error {
	current, err := e.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	if !e.graph.HasVertex(current) {
		return &UnknownCurrentVersionError{Schema: e.schema, Current: current}
	}

	edges, err := e.graph.ShortestPath(current, to)
	if err != nil {
		return err
	}

	return e.executor.Execute(ctx, e.schema, e.layout, edges, !current.IsZero())
}

// Migrate resolves the desired version (explicit, or auto-target) and
// migrates to it (§6.3 migrate).
func (e *Engine) Migrate(ctx context.Context) error {
	current, err := e.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	desired, err := e.resolveDesired(current)
	if err != nil {
		return err
	}
	return e.MigrateTo(ctx, desired)
}

// DeleteSchema migrates this engine's schema down to the zero version,
// removing it (§6.3 delete_schema).
func (e *Engine) DeleteSchema(ctx context.Context) error {
	return e.MigrateTo(ctx, Zero)
}
