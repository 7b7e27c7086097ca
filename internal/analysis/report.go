package analysis

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NameMap maps a declaration name to an ordered list of member names
// (methods of a class, or positional parameters of a function).
// Setting an existing key replaces its value without moving it.
type NameMap struct {
	m *orderedmap.OrderedMap[string, []string]
}

// NewNameMap creates an empty NameMap.
func NewNameMap() *NameMap {
	return &NameMap{m: orderedmap.New[string, []string]()}
}

// Set records names under key. A repeated key keeps its original position.
func (n *NameMap) Set(key string, names []string) {
	if names == nil {
		names = []string{}
	}
	n.m.Set(key, names)
}

// Get returns the names recorded under key.
func (n *NameMap) Get(key string) ([]string, bool) {
	return n.m.Get(key)
}

// Keys returns the keys in insertion order.
func (n *NameMap) Keys() []string {
	keys := make([]string, 0, n.m.Len())
	for pair := n.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (n *NameMap) Len() int {
	return n.m.Len()
}

func (n *NameMap) MarshalJSON() ([]byte, error) {
	return n.m.MarshalJSON()
}

func (n *NameMap) MarshalYAML() (interface{}, error) {
	return n.m.MarshalYAML()
}

// FileReport holds the structural facts extracted from one source file.
// Either Err is set and every structural field is empty, or Err is nil.
type FileReport struct {
	Imports   []string
	Classes   *NameMap
	Functions *NameMap
	Variables [][]string
	Lines     int
	Err       *FileError
}

func newFileReport() *FileReport {
	return &FileReport{
		Imports:   []string{},
		Classes:   NewNameMap(),
		Functions: NewNameMap(),
		Variables: [][]string{},
	}
}

func failedReport(err *FileError) *FileReport {
	return &FileReport{Err: err}
}

// Failed reports whether the file could not be analyzed.
func (r *FileReport) Failed() bool {
	return r.Err != nil
}

// fileReportDoc fixes the field order of the serialized schema.
type fileReportDoc struct {
	Imports   []string   `json:"imports" yaml:"imports"`
	Classes   *NameMap   `json:"classes" yaml:"classes"`
	Functions *NameMap   `json:"functions" yaml:"functions"`
	Variables [][]string `json:"variables" yaml:"variables"`
	Lines     int        `json:"lines" yaml:"lines"`
}

type errorDoc struct {
	Error string `json:"error" yaml:"error"`
}

func (r *FileReport) doc() interface{} {
	if r.Err != nil {
		return errorDoc{Error: r.Err.Error()}
	}
	return fileReportDoc{
		Imports:   r.Imports,
		Classes:   r.Classes,
		Functions: r.Functions,
		Variables: r.Variables,
		Lines:     r.Lines,
	}
}

func (r *FileReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.doc())
}

func (r *FileReport) MarshalYAML() (interface{}, error) {
	return r.doc(), nil
}

// DirectoryReport maps file paths to their reports in scan order.
type DirectoryReport struct {
	m *orderedmap.OrderedMap[string, *FileReport]
}

// NewDirectoryReport creates an empty DirectoryReport.
func NewDirectoryReport() *DirectoryReport {
	return &DirectoryReport{m: orderedmap.New[string, *FileReport]()}
}

// Add records the report for path.
func (d *DirectoryReport) Add(path string, report *FileReport) {
	d.m.Set(path, report)
}

// Get returns the report for path.
func (d *DirectoryReport) Get(path string) (*FileReport, bool) {
	return d.m.Get(path)
}

// Paths returns the analyzed paths in scan order.
func (d *DirectoryReport) Paths() []string {
	paths := make([]string, 0, d.m.Len())
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		paths = append(paths, pair.Key)
	}
	return paths
}

// Len returns the number of analyzed files.
func (d *DirectoryReport) Len() int {
	return d.m.Len()
}

// Each calls fn for every file in scan order.
func (d *DirectoryReport) Each(fn func(path string, report *FileReport)) {
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

func (d *DirectoryReport) MarshalJSON() ([]byte, error) {
	return d.m.MarshalJSON()
}

func (d *DirectoryReport) MarshalYAML() (interface{}, error) {
	return d.m.MarshalYAML()
}
