package pipeline

import (
	"context"
	"fmt"

	"scantree/internal/analysis"
	"scantree/internal/component"
	"scantree/internal/config"
	"scantree/internal/key"
	"scantree/internal/report"
	"scantree/internal/storage"
)

// AnalysisRun wires the ordered steps of one analysis batch: ingest the
// scanner report, build the component tree, persist it, derive the changed
// view and record the analysis. Steps share their intermediate results
// through an analysisState value.
type AnalysisRun struct {
	cfg        *config.Config
	store      storage.Store
	reportPath string
	state      *analysisState
}

func NewAnalysisRun(cfg *config.Config, store storage.Store, reportPath string) *AnalysisRun {
	return &AnalysisRun{cfg: cfg, store: store, reportPath: reportPath}
}

type analysisState struct {
	report  *report.Report
	cache   *report.Cache
	tree    *component.Component
	changed *component.Component
}

// Run executes the analysis steps in order. The listener, when non-nil, is
// notified exactly once, whether the run completed or failed.
func (r *AnalysisRun) Run(ctx context.Context, listener Listener) error {
	state := &analysisState{}
	r.state = state
	steps := []Step{
		&loadReportStep{path: r.reportPath, state: state},
		&buildTreeStep{ctx: ctx, cfg: r.cfg, store: r.store, state: state},
		&persistComponentsStep{ctx: ctx, store: r.store, state: state},
		&changedTreeStep{state: state},
		&recordAnalysisStep{ctx: ctx, store: r.store, state: state},
	}
	return NewExecutor(listener).Execute(steps)
}

// Tree exposes the canonical tree built by the last Run, nil before the
// build step completed.
func (r *AnalysisRun) Tree() *component.Component {
	if r.state == nil {
		return nil
	}
	return r.state.tree
}

// ChangedTree exposes the differential view computed by the last Run.
func (r *AnalysisRun) ChangedTree() *component.Component {
	if r.state == nil {
		return nil
	}
	return r.state.changed
}

type loadReportStep struct {
	path  string
	state *analysisState
}

func (s *loadReportStep) Description() string { return "Load scanner report" }

func (s *loadReportStep) Execute(ctx Context) error {
	rep, err := report.Read(s.path)
	if err != nil {
		return err
	}
	cache := report.NewCache(rep)
	if err := report.ValidateAcyclic(rep, cache); err != nil {
		return err
	}
	s.state.report = rep
	s.state.cache = cache
	return ctx.Statistics().Add("reportComponents", len(rep.Components))
}

type buildTreeStep struct {
	ctx   context.Context
	cfg   *config.Config
	store storage.Store
	state *analysisState
}

func (s *buildTreeStep) Description() string { return "Build component tree" }

func (s *buildTreeStep) Execute(ctx Context) error {
	root, err := s.state.cache.ComponentByRef(s.state.report.RootRef)
	if err != nil {
		return err
	}

	branch := s.cfg.Branch()
	project := analysis.Project{Key: s.cfg.Project.Key}
	keyGenerator := key.NewScopedGenerator(project, branch)
	projectKey := keyGenerator.GenerateKey(root, "")

	// Branch-aware naming and version fallback need what a prior analysis
	// persisted, when there was one.
	if previous, err := s.store.ProjectByKey(s.ctx, projectKey); err != nil {
		return err
	} else if previous != nil {
		project.Name = previous.Name
		project.Description = previous.Description
	}

	var base *analysis.BaseAnalysis
	if projectUUID, ok, err := s.store.UUIDByKey(s.ctx, projectKey); err != nil {
		return err
	} else if ok {
		if base, err = s.store.BaseAnalysis(s.ctx, projectUUID); err != nil {
			return err
		}
	}

	builder := component.NewTreeBuilder(
		key.NewScopedGenerator(project, branch),
		key.NewPublicGenerator(project),
		key.NewStoreUUIDSupplier(s.ctx, s.store),
		s.state.cache,
		project,
		branch,
		base,
	)

	scmBasePath := s.state.report.ScmBasePath
	if scmBasePath == "" {
		scmBasePath = s.cfg.Scm.BasePath
	}

	tree, err := builder.BuildProject(root, scmBasePath)
	if err != nil {
		return err
	}
	s.state.tree = tree
	return ctx.Statistics().Add("components", countComponents(tree))
}

type persistComponentsStep struct {
	ctx   context.Context
	store storage.Store
	state *analysisState
}

func (s *persistComponentsStep) Description() string { return "Persist components" }

func (s *persistComponentsStep) Execute(ctx Context) error {
	return s.store.SaveTree(s.ctx, s.state.tree)
}

type changedTreeStep struct {
	state *analysisState
}

func (s *changedTreeStep) Description() string { return "Compute changed component tree" }

func (s *changedTreeStep) Execute(ctx Context) error {
	changed, err := component.BuildChangedComponentTreeRoot(s.state.tree)
	if err != nil {
		return err
	}
	s.state.changed = changed
	return ctx.Statistics().Add("changedFiles", countFiles(changed))
}

type recordAnalysisStep struct {
	ctx   context.Context
	store storage.Store
	state *analysisState
}

func (s *recordAnalysisStep) Description() string { return "Record analysis" }

func (s *recordAnalysisStep) Execute(ctx Context) error {
	tree := s.state.tree
	if tree.Project == nil {
		return fmt.Errorf("built tree root %q has no project attributes", tree.Key)
	}
	return s.store.RecordAnalysis(s.ctx, tree.UUID, tree.Project.Version)
}

func countComponents(c *component.Component) int {
	count := 1
	for _, child := range c.Children {
		count += countComponents(child)
	}
	return count
}

func countFiles(c *component.Component) int {
	if c.Type == component.TypeFile {
		return 1
	}
	count := 0
	for _, child := range c.Children {
		count += countFiles(child)
	}
	return count
}
