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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort     = 8080
	DefaultLogLevel = "warn"
	DefaultBasePath = "schemas"
)

// versionLikePattern mirrors the engine's own version syntax (a non-negative
// decimal number), so a malformed desired_version is rejected at config load
// time rather than surfacing later as a BadVersionSyntaxError.
var versionLikePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

type (
	// Config is the root of the engine's TOML configuration file.
	Config struct {
		Supervisor *Supervisor `toml:"supervisor"`
		Migrator   *Migrator   `toml:"migrator"`
	}

	// Supervisor configures the optional HTTP control surface (SPEC_FULL.md §3).
	Supervisor struct {
		Port     int    `toml:"port"`
		LogLevel string `toml:"log_level"`
	}

	// Migrator configures the default engine instance the supervisor and any
	// CLI front-end build from this file.
	Migrator struct {
		BasePath       string `toml:"base_path"`
		SchemaName     string `toml:"schema_name"`
		DesiredVersion string `toml:"desired_version"`
		DriverName     string `toml:"driver_name"`
		SchemaPath     string `toml:"schema_path"`
	}
)

// LogLevelValues enumerates the logrus levels this configuration accepts.
var LogLevelValues = []string{"fatal", "error", "warn", "info", "debug", "trace"}

// LoadConfig reads and parses the TOML file at path into a validated Config.
func LoadConfig(path string) (*Config, error) {
	c := &Config{}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	if err = toml.Unmarshal(content, c); err != nil {
		return nil, err
	}

	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate normalizes defaults and checks that Config is internally
// consistent; call it after building a Config by hand as well as after
// LoadConfig (which calls it already).
func (config *Config) Validate() error {
	if config.Migrator == nil {
		return errors.New("migrator field is missing")
	}
	config.normalizeData()

	if config.Supervisor.Port < 1024 || config.Supervisor.Port > 65535 {
		return errors.New("port number must be in range 1024 - 65535")
	}

	if !containsString(LogLevelValues, config.Supervisor.LogLevel) {
		return fmt.Errorf("logLevel value '%s' invalid, must be one of '%s'",
			config.Supervisor.LogLevel, strings.Join(LogLevelValues, ","))
	}

	if config.Migrator.SchemaName == "" {
		return errors.New("migrator.schema_name is missing")
	}

	if config.Migrator.DesiredVersion != "" {
		if !versionLikePattern.MatchString(config.Migrator.DesiredVersion) {
			return fmt.Errorf("migrator.desired_version '%s' is not a valid version", config.Migrator.DesiredVersion)
		}
	}

	return nil
}

func containsString(arrayString []string, searchString string) bool {
	for _, s := range arrayString {
		if s == searchString {
			return true
		}
	}
	return false
}

func (config *Config) normalizeData() {
	if config.Supervisor == nil {
		config.Supervisor = &Supervisor{}
	}
	if config.Supervisor.Port == 0 {
		config.Supervisor.Port = DefaultPort
	}

	if config.Supervisor.LogLevel == "" {
		config.Supervisor.LogLevel = DefaultLogLevel
	}
	config.Supervisor.LogLevel = strings.ToLower(config.Supervisor.LogLevel)

	if config.Migrator.BasePath == "" {
		config.Migrator.BasePath = DefaultBasePath
	}
	// SchemaPath, left empty, is resolved by the Engine itself as
	// <base-path>/<schema-name> (the root the scanner walks for per-driver
	// and shared directories); only an explicit override is normalized here.
}
