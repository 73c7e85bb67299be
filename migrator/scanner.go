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
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	commonDirName  = "_common"
	genericDirName = "_generic"
)

var (
	installDirPattern    = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)$`)
	transitionDirPattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)-([0-9]+(?:\.[0-9]+)?)$`)
)

// Edge is one directed transition in the migration graph: running the
// scripts in DirName moves a schema from From to To.
type Edge struct {
	From    Version
	To      Version
	DirName string
}

// ScriptSource names the one or two on-disk directories that together
// supply the scripts for a single install or transition directory name: a
// driver-specific (or _generic) directory and, when a real driver directory
// is in use, an overlaid _common directory.
type ScriptSource struct {
	DirName      string
	DriverPath   string // "" if the driver has no scripts for this name
	CommonPath   string // "" unless a real per-driver directory is in use
	UsingGeneric bool
}

// Layout is the result of scanning one schema's directory tree for one
// driver: every install and transition directory name discovered, along
// with where to find its scripts.
type Layout struct {
	Installs    map[string]*ScriptSource // key: version text, e.g. "0.01"
	Transitions map[string]*ScriptSource // key: "from-to", e.g. "0.01-0.02"
	Edges       []Edge
}

// Scanner enumerates a schema's directory tree for a single driver,
// classifying entries as install directories, transition directories, or
// (with a warning) neither.
type Scanner struct {
	root       string // <base>/<schema-name>
	driverName string
	log        logrus.FieldLogger
}

// NewScanner creates a Scanner rooted at the schema directory root
// (<base>/<schema-name>), selecting scripts for the named driver.
func NewScanner(root, driverName string, log logrus.FieldLogger) *Scanner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scanner{root: root, driverName: driverName, log: log.WithField("component", "scanner")}
}

// Scan walks the driver directory (falling back to _generic) and the
// _common directory, merging their child directory names into a Layout.
func (s *Scanner) Scan() (*Layout, error) {
	driverDir, usingGeneric, err := s.selectDriverDir()
	if err != nil {
		return nil, err
	}

	layout := &Layout{
		Installs:    make(map[string]*ScriptSource),
		Transitions: make(map[string]*ScriptSource),
	}

	if driverDir != "" {
		if err := s.scanInto(layout, driverDir, usingGeneric, false); err != nil {
			return nil, err
		}
	}

	// _common only overlays a real per-driver directory, never _generic.
	if driverDir != "" && !usingGeneric {
		commonDir := filepath.Join(s.root, commonDirName)
		if isDir(commonDir) {
			if err := s.scanInto(layout, commonDir, false, true); err != nil {
				return nil, err
			}
		}
	}

	layout.Edges = layout.buildEdges()
	return layout, nil
}

// selectDriverDir implements the §4.1 driver selection rule: prefer a
// directory named exactly as the active driver, else _generic, else report
// that this schema has no scripts for this driver.
func (s *Scanner) selectDriverDir() (dir string, usingGeneric bool, err error) {
	named := filepath.Join(s.root, s.driverName)
	if isDir(named) {
		return named, false, nil
	}
	generic := filepath.Join(s.root, genericDirName)
	if isDir(generic) {
		return generic, true, nil
	}
	return "", false, nil
}

func (s *Scanner) scanInto(layout *Layout, dir string, usingGeneric, isCommon bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &ScriptReadFailureError{Path: dir, Err: err}
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.IsDir() {
			continue
		}
		childPath := filepath.Join(dir, name)

		switch {
		case installDirPattern.MatchString(name):
			if _, err := ParseVersion(name); err != nil {
				return &BadVersionSyntaxError{Text: name, Path: childPath}
			}
			s.assign(layout.Installs, name, childPath, usingGeneric, isCommon)

		case transitionDirPattern.MatchString(name):
			m := transitionDirPattern.FindStringSubmatch(name)
			if _, err := ParseVersion(m[1]); err != nil {
				return &BadVersionSyntaxError{Text: m[1], Path: childPath}
			}
			if _, err := ParseVersion(m[2]); err != nil {
				return &BadVersionSyntaxError{Text: m[2], Path: childPath}
			}
			s.assign(layout.Transitions, name, childPath, usingGeneric, isCommon)

		default:
			s.log.WithField("dir", childPath).Warn("ignoring directory with unrecognized name")
		}
	}
	return nil
}

func (s *Scanner) assign(set map[string]*ScriptSource, name, path string, usingGeneric, isCommon bool) {
	src, ok := set[name]
	if !ok {
		src = &ScriptSource{DirName: name}
		set[name] = src
	}
	if isCommon {
		src.CommonPath = path
	} else {
		src.DriverPath = path
		src.UsingGeneric = usingGeneric
	}
}

// buildEdges turns install directories into edges from the zero version,
// and transition directories into their labelled from->to edges.
func (l *Layout) buildEdges() []Edge {
	edges := make([]Edge, 0, len(l.Installs)+len(l.Transitions))

	for name := range l.Installs {
		v, err := ParseVersion(name)
		if err != nil {
			continue
		}
		edges = append(edges, Edge{From: Zero, To: v, DirName: name})
	}

	for name := range l.Transitions {
		m := transitionDirPattern.FindStringSubmatch(name)
		from, err1 := ParseVersion(m[1])
		to, err2 := ParseVersion(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		edges = append(edges, Edge{From: from, To: to, DirName: name})
	}

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].DirName < edges[j].DirName
	})
	return edges
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
