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
	"errors"
	"regexp"
	"strconv"

	"github.com/spf13/pflag"
)

// versionPattern matches a non-negative decimal number such as "0", "0.01"
// or "2.10". It deliberately rejects signs, exponents and anything else
// semver-shaped: schema versions here are flat decimals, not major.minor.patch.
var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Version is a parsed, non-negative decimal schema version. The zero value
// is the sentinel "schema absent" version. Ordering is numeric; the textual
// form used in a directory name is preserved for display and for insertion
// into the schema_log table.
type Version struct {
	text string
	num  float64
}

// Zero is the sentinel version denoting "schema absent".
var Zero = Version{text: "0", num: 0}

// ParseVersion parses the canonical textual form of a version, as found in
// an install or transition directory name. It returns BadVersionSyntaxError
// if s does not parse as a non-negative decimal number.
func ParseVersion(s string) (Version, error) {
	if !versionPattern.MatchString(s) {
		return Version{}, &BadVersionSyntaxError{Text: s}
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Version{}, &BadVersionSyntaxError{Text: s}
	}
	return Version{text: s, num: num}, nil
}

// IsZero reports whether v is the sentinel "absent" version. 0.00 and 0 are
// both zero regardless of which textual form parsed them.
func (v Version) IsZero() bool {
	return v.num == 0
}

// String returns the canonical textual form used when the version was
// parsed (or "0" for the zero value constructed directly).
func (v Version) String() string {
	if v.text == "" {
		return "0"
	}
	return v.text
}

// Less reports whether v sorts strictly before other, numerically.
func (v Version) Less(other Version) bool {
	return v.num < other.num
}

// Equal reports whether v and other are numerically equal, regardless of
// textual form (0 and 0.00 are Equal).
func (v Version) Equal(other Version) bool {
	return v.num == other.num
}

// Compare returns -1, 0 or 1 as v is numerically less than, equal to, or
// greater than other.
func (v Version) Compare(other Version) int {
	switch {
	case v.num < other.num:
		return -1
	case v.num > other.num:
		return 1
	default:
		return 0
	}
}

// MarshalJSON renders a Version as its canonical text form, so API
// responses carrying a Version show "0.01" rather than an opaque struct.
func (v Version) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(v.String())), nil
}

// UnmarshalJSON parses a JSON string into a Version using the same rules as
// ParseVersion.
func (v *Version) UnmarshalJSON(data []byte) error {
	text, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	return v.Set(text)
}

var _ pflag.Value = (*Version)(nil)

// Set parses s and replaces v's value. It implements flag.Value and
// pflag.Value so a calling CLI (out of scope for this module) can accept a
// desired version directly as a flag, without this module needing to know
// anything about flag parsing.
func (v *Version) Set(s string) error {
	if v == nil {
		return errors.New("migrator: Version.Set called on nil pointer")
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Type returns the flag type name, so Version can be registered with pflag.
func (v *Version) Type() string {
	return "version"
}
