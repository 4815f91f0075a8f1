package analysis

// Branch identifies the branch an analysis runs against.
type Branch struct {
	Name string
	Main bool
}

// Project is the previously persisted identity of the analyzed project.
// Name and Description may be empty when the project has never been
// analyzed before.
type Project struct {
	Key         string
	Name        string
	Description string
}

// BaseAnalysis carries the data kept from the most recent prior analysis
// of the same project. A nil *BaseAnalysis means there is no prior analysis.
type BaseAnalysis struct {
	Version string
}
