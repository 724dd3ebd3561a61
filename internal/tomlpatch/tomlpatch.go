// Package tomlpatch updates keys in a TOML document by table and key name
// while keeping every other line, including comments and unknown keys, as it was.
package tomlpatch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Document is a TOML file held as lines, indexed by table headers.
type Document struct {
	lines []string
}

// Parse checks that data is valid TOML and returns an editable document.
func Parse(data []byte) (*Document, error) {
	var probe map[string]any
	if err := toml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	return &Document{lines: lines}, nil
}

// Set assigns value to key inside table. An existing assignment is replaced in
// place, spanning multi-line arrays. A missing key is inserted at the end of its
// table. A missing table is created after the last table sharing its first
// name segment, or at the end of the document.
func (d *Document) Set(table, key string, value any) error {
	encoded, err := encodeValue(value)
	if err != nil {
		return fmt.Errorf("encoding %s.%s: %w", table, key, err)
	}
	assignment := key + " = " + encoded

	start, end, found := d.tableSpan(table)
	if !found {
		d.insertTable(table, assignment)
		return d.Validate()
	}

	for i := start + 1; i < end; i++ {
		k, ok := assignedKey(d.lines[i])
		if !ok || k != key {
			continue
		}
		last := valueEnd(d.lines, i)
		indent := d.lines[i][:len(d.lines[i])-len(strings.TrimLeft(d.lines[i], " \t"))]
		replaced := append([]string{indent + assignment}, d.lines[last+1:]...)
		d.lines = append(d.lines[:i], replaced...)
		return d.Validate()
	}

	// Insert after the last non-blank line of the table.
	at := end
	for at > start+1 && strings.TrimSpace(d.lines[at-1]) == "" {
		at--
	}
	d.lines = insert(d.lines, at, assignment)
	return d.Validate()
}

// Validate reparses the whole document.
func (d *Document) Validate() error {
	var probe map[string]any
	if err := toml.Unmarshal(d.Bytes(), &probe); err != nil {
		return fmt.Errorf("patched document is not valid TOML: %w", err)
	}
	return nil
}

// Bytes renders the document with a trailing newline.
func (d *Document) Bytes() []byte {
	if len(d.lines) == 0 {
		return nil
	}
	return []byte(strings.Join(d.lines, "\n") + "\n")
}

// Decode unmarshals the document into v.
func (d *Document) Decode(v any) error {
	return toml.Unmarshal(d.Bytes(), v)
}

// tableSpan returns the header line of table and the index of the next header
// (or len(lines)). The root table has header index -1.
func (d *Document) tableSpan(table string) (start, end int, found bool) {
	start = -1
	if table != "" {
		for i, line := range d.lines {
			if name, ok := tableHeader(line); ok && name == table {
				start, found = i, true
				break
			}
		}
		if !found {
			return 0, 0, false
		}
	}

	end = len(d.lines)
	for i := start + 1; i < len(d.lines); i++ {
		if _, ok := tableHeader(d.lines[i]); ok {
			end = i
			break
		}
		if isArrayTableHeader(d.lines[i]) {
			end = i
			break
		}
	}
	return start, end, true
}

func (d *Document) insertTable(table, assignment string) {
	family := strings.SplitN(table, ".", 2)[0]

	// End of the last table in the same family.
	at := -1
	for _, line := range d.lines {
		name, ok := tableHeader(line)
		if !ok {
			continue
		}
		if name == family || strings.HasPrefix(name, family+".") {
			_, end, _ := d.tableSpan(name)
			at = end
		}
	}
	if at < 0 {
		at = len(d.lines)
	}
	for at > 0 && strings.TrimSpace(d.lines[at-1]) == "" {
		at--
	}

	block := []string{"[" + table + "]", assignment}
	if at > 0 {
		block = append([]string{""}, block...)
	}
	rest := trimLeadingBlank(append([]string(nil), d.lines[at:]...))
	if len(rest) > 0 {
		block = append(block, "")
	}
	d.lines = append(append(d.lines[:at], block...), rest...)
}

// encodeValue renders value as TOML by marshaling a one-key document.
func encodeValue(value any) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetArraysMultiline(false)
	if err := enc.Encode(map[string]any{"v": value}); err != nil {
		return "", err
	}
	line := strings.TrimSpace(buf.String())
	_, encoded, ok := strings.Cut(line, "=")
	if !ok {
		return "", fmt.Errorf("unexpected encoding %q", line)
	}
	return strings.TrimSpace(encoded), nil
}

// tableHeader reports the table name of a [table] header line.
func tableHeader(line string) (string, bool) {
	s := stripComment(strings.TrimSpace(line))
	if !strings.HasPrefix(s, "[") || strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]") {
		return "", false
	}
	return normalizeKey(s[1 : len(s)-1]), true
}

func isArrayTableHeader(line string) bool {
	s := strings.TrimSpace(line)
	return strings.HasPrefix(s, "[[")
}

// assignedKey reports the key of a "key = value" line.
func assignedKey(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "[") {
		return "", false
	}
	k, _, ok := strings.Cut(s, "=")
	if !ok {
		return "", false
	}
	return normalizeKey(k), true
}

func normalizeKey(k string) string {
	parts := strings.Split(strings.TrimSpace(k), ".")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return strings.Join(parts, ".")
}

// valueEnd returns the last line of the assignment starting at line i,
// following brackets across lines for multi-line arrays and inline tables.
func valueEnd(lines []string, i int) int {
	depth := 0
	for j := i; j < len(lines); j++ {
		text := lines[j]
		if j == i {
			_, text, _ = strings.Cut(text, "=")
		}
		depth += bracketDelta(text)
		if depth <= 0 {
			return j
		}
	}
	return len(lines) - 1
}

// bracketDelta counts opening minus closing brackets outside strings and comments.
func bracketDelta(s string) int {
	delta := 0
	var quote rune
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '#':
			return delta
		case r == '[' || r == '{':
			delta++
		case r == ']' || r == '}':
			delta--
		}
	}
	return delta
}

func stripComment(s string) string {
	if i := strings.Index(s, "#"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func insert(lines []string, at int, line string) []string {
	lines = append(lines, "")
	copy(lines[at+1:], lines[at:])
	lines[at] = line
	return lines
}

func trimLeadingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return lines
}
