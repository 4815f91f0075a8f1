package report

// ComponentType is the kind of record the scanner emitted.
type ComponentType string

const (
	TypeProject   ComponentType = "PROJECT"
	TypeModule    ComponentType = "MODULE"
	TypeDirectory ComponentType = "DIRECTORY"
	TypeFile      ComponentType = "FILE"
)

// FileStatus is the change status the scanner computed for a record by
// comparing against the previous analysis.
type FileStatus string

const (
	StatusAdded       FileStatus = "ADDED"
	StatusSame        FileStatus = "SAME"
	StatusChanged     FileStatus = "CHANGED"
	StatusUnavailable FileStatus = "UNAVAILABLE"
)

// Component is a single flat record of the scanner report. Records point at
// their children by ref; refs are only meaningful within one report.
type Component struct {
	Ref         int           `json:"ref"`
	Type        ComponentType `json:"type"`
	ChildRefs   []int         `json:"child_refs,omitempty"`
	Path        string        `json:"path,omitempty"` // project-relative, '/'-separated
	Name        string        `json:"name,omitempty"`
	Description string        `json:"description,omitempty"`
	Version     string        `json:"version,omitempty"`
	Status      FileStatus    `json:"status,omitempty"`

	// File-only attributes.
	IsTest   bool   `json:"is_test,omitempty"`
	Language string `json:"language,omitempty"`
	Lines    int    `json:"lines,omitempty"`
}

// Report is the full output of one scan: a ref-indexed set of flat records
// plus the ref of the project root.
type Report struct {
	RootRef     int          `json:"root_ref"`
	ScmBasePath string       `json:"scm_base_path,omitempty"`
	Components  []*Component `json:"components"`
}
