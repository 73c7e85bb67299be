// Copyright (c) 2022 IndyKite
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

// Package supervisor exposes the migration engine over HTTP: a thin control
// surface a deployment can poll for status or trigger a migration through,
// instead of shelling out to a CLI front-end (out of scope for this module).
package supervisor

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"

	"github.com/sqlschema/migrate/config"
	"github.com/sqlschema/migrate/driver"
	"github.com/sqlschema/migrate/migrator"
)

// ComponentLogKey is the structured logging field naming the subsystem that
// produced a log line, ordered first by the nested formatter.
const ComponentLogKey = "component"

// Controller owns the engine this supervisor manages and the HTTP server
// exposing it.
type Controller struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	db     *sql.DB

	engine     *migrator.Engine
	bootstrap  *migrator.Bootstrap
	log        logrus.FieldLogger
	httpServer *httpServer
}

// Start validates cfg, builds the configured Engine against db, starts the
// HTTP server, and blocks until SIGINT/SIGTERM.
func Start(cfg *config.Config, db *sql.DB) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	interruptChan := make(chan os.Signal, 1)
	signal.Notify(interruptChan, os.Interrupt, syscall.SIGTERM)

	log := logrus.New()
	log.SetLevel(stringToLogrusLogLevel(cfg.Supervisor.LogLevel))
	log.Formatter = &nested.Formatter{FieldsOrder: []string{ComponentLogKey}}
	log.Info("starting supervisor")

	ctx, cancel := context.WithCancel(context.Background())

	c, err := newController(ctx, cancel, cfg, db, log)
	if err != nil {
		cancel()
		return err
	}

	c.httpServer = runHTTPServer(ctx, c, log)

	<-interruptChan
	c.stop()
	return nil
}

func newController(
	ctx context.Context, cancel context.CancelFunc, cfg *config.Config, db *sql.DB, log logrus.FieldLogger,
) (*Controller, error) {
	adapter, err := resolveAdapter(db, cfg.Migrator.DriverName)
	if err != nil {
		return nil, err
	}

	engine, err := migrator.NewEngine(migrator.Options{
		DB:             db,
		SchemaName:     cfg.Migrator.SchemaName,
		DesiredVersion: cfg.Migrator.DesiredVersion,
		DriverName:     cfg.Migrator.DriverName,
		Adapter:        adapter,
		BasePath:       cfg.Migrator.BasePath,
		SchemaPath:     cfg.Migrator.SchemaPath,
		Log:            log,
	})
	if err != nil {
		return nil, err
	}

	boot, err := migrator.NewBootstrap(engine, cfg.Migrator.BasePath, "")
	if err != nil {
		return nil, err
	}

	return &Controller{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		db:        db,
		engine:    engine,
		bootstrap: boot,
		log:       log,
	}, nil
}

func resolveAdapter(db *sql.DB, driverName string) (driver.Adapter, error) {
	switch driverName {
	case "", "auto":
		return driver.Detect(db)
	case "Pg":
		return driver.Postgres{}, nil
	case "mysql":
		return driver.MySQL{}, nil
	case "sqlite3":
		return driver.SQLite{}, nil
	default:
		return driver.Detect(db)
	}
}

func stringToLogrusLogLevel(level string) logrus.Level {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		l = logrus.InfoLevel
	}
	return l
}

func (c *Controller) stop() {
	c.log.Debug("interrupt signal received, stopping")
	c.cancel()
	if c.httpServer != nil {
		_ = c.httpServer.close()
	}
	_ = c.db.Close()
	c.log.Info("supervisor stopped")
}
