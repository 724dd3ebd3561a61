// Package manifest edits JSON project files (package.json, tsconfig.json,
// app.json) as structured documents.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/supanext/cli/internal/output"
)

// writeOptions renders manifests with two-space indentation and sorted keys so
// that rewriting a document is deterministic.
var writeOptions = &oj.Options{
	Indent:     2,
	Sort:       true,
	HTMLUnsafe: true,
}

// Document is a parsed JSON object.
type Document struct {
	root map[string]any
}

// New returns an empty document.
func New() *Document {
	return &Document{root: map[string]any{}}
}

// FromMap wraps m as a document.
func FromMap(m map[string]any) *Document {
	if m == nil {
		m = map[string]any{}
	}
	return &Document{root: m}
}

// Parse parses data, which must hold a JSON object.
func Parse(data []byte) (*Document, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return &Document{root: m}, nil
}

// Path builds an expression addressing nested object keys. Keys are used
// literally, so names like "@app/shared/*" need no escaping.
func Path(keys ...string) jp.Expr {
	x := jp.R()
	for _, k := range keys {
		x = x.C(k)
	}
	return x
}

// Get returns the value at the key path, or nil.
func (d *Document) Get(keys ...string) any {
	return Path(keys...).First(d.root)
}

// GetString returns the string at the key path, or "".
func (d *Document) GetString(keys ...string) string {
	s, _ := d.Get(keys...).(string)
	return s
}

// Set stores value at the key path, creating intermediate objects.
func (d *Document) Set(value any, keys ...string) error {
	if len(keys) == 0 {
		return fmt.Errorf("empty key path")
	}
	if err := Path(keys...).Set(d.root, value); err != nil {
		return fmt.Errorf("setting %v: %w", keys, err)
	}
	return nil
}

// Merge sets every entry of values under the object at keys. Existing entries
// with the same name are replaced; others are kept.
func (d *Document) Merge(values map[string]any, keys ...string) error {
	for name, v := range values {
		if err := d.Set(v, append(append([]string(nil), keys...), name)...); err != nil {
			return err
		}
	}
	return nil
}

// MergeScripts merges script entries into the "scripts" object.
func (d *Document) MergeScripts(scripts map[string]string) error {
	values := make(map[string]any, len(scripts))
	for k, v := range scripts {
		values[k] = v
	}
	return d.Merge(values, "scripts")
}

// AppendUnique appends value to the array at keys unless an equal element is
// already present. A missing array is created.
func (d *Document) AppendUnique(value any, keys ...string) error {
	existing := d.Get(keys...)
	var list []any
	switch v := existing.(type) {
	case nil:
	case []any:
		list = v
	default:
		return fmt.Errorf("%v is %T, not an array", keys, existing)
	}

	for _, item := range list {
		if oj.JSON(item, writeOptions) == oj.JSON(value, writeOptions) {
			return nil
		}
	}
	return d.Set(append(list, value), keys...)
}

// Map returns the underlying object.
func (d *Document) Map() map[string]any {
	return d.root
}

// Bytes renders the document with a trailing newline.
func (d *Document) Bytes() []byte {
	return []byte(oj.JSON(d.root, writeOptions) + "\n")
}

// Read parses the JSON file at path.
func Read(fsys billy.Filesystem, path string) (*Document, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Write renders doc to path, creating parent directories.
func Write(fsys billy.Filesystem, path string, doc *Document) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := util.WriteFile(fsys, path, doc.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Edit reads the JSON file at path, applies fn and writes the result back.
// With create set, a missing file starts as an empty object. The structural
// diff is logged in verbose mode.
func Edit(fsys billy.Filesystem, path string, create bool, fn func(*Document) error) error {
	before, err := util.ReadFile(fsys, path)
	var doc *Document
	switch {
	case err == nil:
		if doc, err = Parse(before); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	case os.IsNotExist(err) && create:
		doc = New()
	default:
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := fn(doc); err != nil {
		return fmt.Errorf("editing %s: %w", path, err)
	}

	if err := Write(fsys, path, doc); err != nil {
		return err
	}
	output.LogManifestDiff(path, before, doc.Bytes())
	return nil
}
