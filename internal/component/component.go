package component

import (
	"scantree/internal/report"
)

// Type is the kind of node in the built component tree. Modules from the
// report are dissolved during construction and never appear here.
type Type string

const (
	TypeProject   Type = "PROJECT"
	TypeDirectory Type = "DIRECTORY"
	TypeFile      Type = "FILE"
)

// Status mirrors the change status of the underlying report record.
type Status string

const (
	StatusAdded       Status = "ADDED"
	StatusSame        Status = "SAME"
	StatusChanged     Status = "CHANGED"
	StatusUnavailable Status = "UNAVAILABLE"
)

// ReportAttributes ties a built component back to the scanner report.
type ReportAttributes struct {
	Ref     int    // 0 when the node has no report record (implicit directory)
	Path    string // project-relative; empty for the project root
	ScmPath string // empty when the node has no SCM location
}

// ProjectAttributes is present on PROJECT components only.
type ProjectAttributes struct {
	Version string
}

// FileAttributes is present on FILE components only.
type FileAttributes struct {
	IsTest   bool
	Language string
	Lines    int
}

// Component is one node of the canonical hierarchical tree built from a
// scanner report. A tree is built once per analysis and treated as read-only
// afterwards; later pipeline steps share it by reference.
type Component struct {
	Type        Type
	UUID        string
	Key         string // internal, db-scoped key
	PublicKey   string
	Name        string
	Description string
	Status      Status
	Report      ReportAttributes
	Project     *ProjectAttributes // PROJECT only
	File        *FileAttributes    // FILE only
	Children    []*Component
}

// KeyGenerator derives a component key from the report root and a
// project-relative path. An empty path addresses the project itself.
// Generators must be deterministic and injective over distinct
// (root, path) pairs within one analysis.
type KeyGenerator interface {
	GenerateKey(root *report.Component, path string) string
}

// UUIDSupplier resolves the uuid for a component key. The same key must
// always yield the same uuid against the same backing store.
type UUIDSupplier interface {
	UUIDFor(key string) (string, error)
}

// ComponentSupplier resolves a report record by ref. It must be total over
// all refs reachable from the root.
type ComponentSupplier interface {
	ComponentByRef(ref int) (*report.Component, error)
}
