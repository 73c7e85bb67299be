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

	"github.com/sirupsen/logrus"
)

// Bootstrap orchestrates the self-hosting dance described in §4.7: the
// engine's own bookkeeping schema, migration-directories, is migrated with
// the exact same mechanism used for user schemas, just against a second
// Engine rooted at the same base path.
type Bootstrap struct {
	internal *Engine
	user     *Engine
	store    *Store
	log      logrus.FieldLogger
}

// NewBootstrap builds the internal-schema Engine alongside the caller's
// already-constructed user-schema Engine. internalDesiredVersion pins the
// version the internal schema must be brought to; an empty string lets it
// auto-target its own highest reachable version, same as any other schema.
func NewBootstrap(user *Engine, basePath, internalDesiredVersion string) (*Bootstrap, error) {
	internal, err := NewEngine(Options{
		DB:             user.db,
		SchemaName:     InternalSchema,
		DesiredVersion: internalDesiredVersion,
		DriverName:     user.adapter.Name(),
		Adapter:        user.adapter,
		BasePath:       basePath,
		Log:            user.log,
	})
	if err != nil {
		return nil, err
	}
	return &Bootstrap{
		internal: internal,
		user:     user,
		store:    NewStore(user.adapter),
		log:      user.log.WithField("component", "bootstrap"),
	}, nil
}

// FullMigrate runs the internal schema's migration first (its own
// transaction), then the user schema's (a second, separate transaction),
// per §4.7. Until the internal schema's bookkeeping tables exist, its
// current_version reads tolerate "table missing" as absent (§4.7, §7),
// which is what lets the very first run bootstrap itself.
func (b *Bootstrap) FullMigrate(ctx context.Context) error {
	b.log.Info("migrating internal schema")
	if err := b.internal.Migrate(ctx); err != nil {
		return &BootstrapFailureError{Err: err}
	}

	b.log.Info("migrating user schema")
	return b.user.Migrate(ctx)
}

// FullDeleteSchema removes the user schema, then tears down the internal
// schema too if no other user schemas remain recorded (§4.7).
func (b *Bootstrap) FullDeleteSchema(ctx context.Context) error {
	if err := b.user.DeleteSchema(ctx); err != nil {
		return err
	}

	remaining, err := b.store.InstalledSchemas(ctx, b.user.db)
	if err != nil {
		return &BootstrapFailureError{Err: err}
	}
	for _, schema := range remaining {
		if schema != InternalSchema {
			b.log.WithField("remaining_schema", schema).Debug("other schemas still installed, keeping internal schema")
			return nil
		}
	}

	b.log.Info("no user schemas remain, tearing down internal schema")
	if err := b.internal.DeleteSchema(ctx); err != nil {
		return &BootstrapFailureError{Err: err}
	}
	return nil
}
