package storage

import (
	"context"

	"scantree/internal/analysis"
	"scantree/internal/component"
)

// Store combines component tree persistence and analysis history.
type Store interface {
	ComponentStore
	AnalysisStore
	Close() error
}

// ComponentStore defines operations for persisting built component trees.
type ComponentStore interface {
	// SaveTree upserts every component of a built tree in one transaction.
	SaveTree(ctx context.Context, root *component.Component) error

	// UUIDByKey returns the uuid a component key was persisted under, if any.
	UUIDByKey(ctx context.Context, key string) (string, bool, error)
}

// AnalysisStore defines operations over prior analyses of a project.
type AnalysisStore interface {
	// ProjectByKey returns the previously persisted project identity,
	// or nil when the project has never been analyzed.
	ProjectByKey(ctx context.Context, key string) (*analysis.Project, error)

	// BaseAnalysis returns the most recent analysis of the project,
	// or nil when there is none.
	BaseAnalysis(ctx context.Context, projectUUID string) (*analysis.BaseAnalysis, error)

	// RecordAnalysis appends a finished analysis to the project history.
	RecordAnalysis(ctx context.Context, projectUUID, version string) error
}
