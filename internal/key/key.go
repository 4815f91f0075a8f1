package key

import (
	"context"

	"github.com/google/uuid"

	"scantree/internal/analysis"
	"scantree/internal/report"
)

// componentNamespace is the fixed UUID namespace for minting component
// uuids. Changing it would re-identify every component ever persisted.
var componentNamespace = uuid.MustParse("8f14e45f-ceea-4a7b-9c3d-2b0d7b3dcb6d")

// ScopedGenerator produces internal, db-scoped component keys. Keys built
// off the main branch carry the branch name so that branch components never
// collide with main-branch rows.
type ScopedGenerator struct {
	project analysis.Project
	branch  analysis.Branch
}

func NewScopedGenerator(project analysis.Project, branch analysis.Branch) *ScopedGenerator {
	return &ScopedGenerator{project: project, branch: branch}
}

func (g *ScopedGenerator) GenerateKey(_ *report.Component, path string) string {
	key := g.project.Key
	if !g.branch.Main && g.branch.Name != "" {
		key += ":BRANCH:" + g.branch.Name
	}
	if path == "" {
		return key
	}
	return key + ":" + path
}

// PublicGenerator produces branch-agnostic, public-facing component keys.
type PublicGenerator struct {
	project analysis.Project
}

func NewPublicGenerator(project analysis.Project) *PublicGenerator {
	return &PublicGenerator{project: project}
}

func (g *PublicGenerator) GenerateKey(_ *report.Component, path string) string {
	if path == "" {
		return g.project.Key
	}
	return g.project.Key + ":" + path
}

// UUIDLookup finds the uuid a component key was persisted under in a
// previous analysis. Implemented by the storage layer.
type UUIDLookup interface {
	UUIDByKey(ctx context.Context, key string) (string, bool, error)
}

// StoreUUIDSupplier resolves component uuids: a key that was already
// persisted keeps its stored uuid, anything else gets a version-5 UUID
// derived from the key. Either way the same key always yields the same
// uuid. A supplier serves exactly one analysis; it holds the analysis
// context for its storage lookups.
type StoreUUIDSupplier struct {
	ctx    context.Context
	lookup UUIDLookup // nil disables the storage lookup
}

func NewStoreUUIDSupplier(ctx context.Context, lookup UUIDLookup) *StoreUUIDSupplier {
	return &StoreUUIDSupplier{ctx: ctx, lookup: lookup}
}

func (s *StoreUUIDSupplier) UUIDFor(key string) (string, error) {
	if s.lookup != nil {
		existing, ok, err := s.lookup.UUIDByKey(s.ctx, key)
		if err != nil {
			return "", err
		}
		if ok {
			return existing, nil
		}
	}
	return uuid.NewSHA1(componentNamespace, []byte(key)).String(), nil
}
