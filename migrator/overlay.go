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
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScriptFile is one overlaid script: a base name and the path whose body
// supplies it (the driver-specific file if present, otherwise the _common
// file).
type ScriptFile struct {
	Name string
	Path string
}

// Overlay computes the ordered script list for a single install or
// transition directory name, merging the driver-specific (or _generic) and
// _common sources: the union of base names, driver body wins on conflict,
// sorted by base name.
func Overlay(src *ScriptSource) ([]ScriptFile, error) {
	if src == nil {
		return nil, nil
	}

	driverFiles, err := listSQLFiles(src.DriverPath)
	if err != nil {
		return nil, err
	}
	commonFiles, err := listSQLFiles(src.CommonPath)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(driverFiles)+len(commonFiles))
	for name, path := range commonFiles {
		merged[name] = path
	}
	for name, path := range driverFiles {
		merged[name] = path // driver-specific body wins over _common
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]ScriptFile, 0, len(names))
	for _, name := range names {
		files = append(files, ScriptFile{Name: name, Path: merged[name]})
	}
	return files, nil
}

// listSQLFiles lists the base names of every non-hidden file directly under
// dir (dir may be empty, meaning "no such source").
func listSQLFiles(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ScriptReadFailureError{Path: dir, Err: err}
	}

	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		files[name] = filepath.Join(dir, name)
	}
	return files, nil
}

// ReadScript reads the body of a script file, wrapping I/O errors as
// ScriptReadFailureError.
func ReadScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ScriptReadFailureError{Path: path, Err: err}
	}
	return string(data), nil
}
