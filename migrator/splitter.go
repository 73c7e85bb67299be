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

import "strings"

// SplitStatements breaks a script body into individual SQL statements using
// the end-of-line semicolon rule (§4.3): a semicolon that immediately
// precedes a line terminator, or that is the final non-whitespace character
// of the file, terminates a statement. A semicolon anywhere else is just a
// character. The splitter is text-only: it never parses quotes or
// comments, so a statement body that needs a non-terminating semicolon must
// keep something else on the same line, conventionally a "--" comment.
func SplitStatements(body string) []string {
	lines := splitAfterNewline(body)

	var statements []string
	var buf strings.Builder

	for i, line := range lines {
		buf.WriteString(line)

		content, terminator := stripLineTerminator(line)
		trimmedRight := strings.TrimRight(content, " \t")
		endsInSemicolon := strings.HasSuffix(trimmedRight, ";")

		isLast := i == len(lines)-1
		switch {
		case terminator != "" && endsInSemicolon:
			statements = append(statements, finalizeStatement(buf.String(), terminator))
			buf.Reset()
		case isLast && terminator == "" && endsInSemicolon:
			statements = append(statements, finalizeStatement(buf.String(), terminator))
			buf.Reset()
		}
	}

	if rest := strings.TrimSpace(buf.String()); rest != "" {
		statements = append(statements, rest)
	}

	out := statements[:0]
	for _, s := range statements {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinStatements is the inverse used by the idempotence property in §8: it
// joins statements with ";\n" including a trailing one, which SplitStatements
// is guaranteed to split back into the original list as long as no statement
// itself contains the literal sequence ";\n".
func JoinStatements(statements []string) string {
	var b strings.Builder
	for _, s := range statements {
		b.WriteString(s)
		b.WriteString(";\n")
	}
	return b.String()
}

// splitAfterNewline splits body into pieces, each ending with its own line
// terminator (\n or \r\n) except possibly the last, which has none.
func splitAfterNewline(body string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(body); i++ {
		if body[i] == '\n' {
			lines = append(lines, body[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, body[start:])
	return lines
}

// finalizeStatement strips the accumulated buffer's line terminator and its
// single end-of-line terminating semicolon, so SplitStatements truly
// inverts JoinStatements (§8 idempotence) instead of returning the
// statement with that semicolon still attached.
func finalizeStatement(buffered, terminator string) string {
	buffered = strings.TrimSuffix(buffered, terminator)
	trimmedRight := strings.TrimRight(buffered, " \t")
	trimmedRight = strings.TrimSuffix(trimmedRight, ";")
	return strings.TrimSpace(trimmedRight)
}

// stripLineTerminator returns the line's content without its trailing \r\n
// or \n, and the terminator that was removed ("" if none).
func stripLineTerminator(line string) (content, terminator string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}
