package component

import (
	"fmt"
	"strings"

	"scantree/internal/analysis"
	"scantree/internal/report"
)

// DefaultProjectVersion is recorded when neither the report nor the
// previous analysis carries a project version.
const DefaultProjectVersion = "not provided"

// TreeBuilder turns the flat, ref-indexed records of one scanner report
// into the canonical component tree. One builder is safe to reuse across
// independent builds: all per-call state travels in a buildContext value.
type TreeBuilder struct {
	keyGenerator       KeyGenerator
	publicKeyGenerator KeyGenerator
	uuids              UUIDSupplier
	components         ComponentSupplier
	project            analysis.Project
	branch             analysis.Branch
	baseAnalysis       *analysis.BaseAnalysis
}

// NewTreeBuilder wires a builder with its capability suppliers and the
// per-analysis context. baseAnalysis may be nil when the project has never
// been analyzed before.
func NewTreeBuilder(
	keyGenerator, publicKeyGenerator KeyGenerator,
	uuids UUIDSupplier,
	components ComponentSupplier,
	project analysis.Project,
	branch analysis.Branch,
	baseAnalysis *analysis.BaseAnalysis,
) *TreeBuilder {
	return &TreeBuilder{
		keyGenerator:       keyGenerator,
		publicKeyGenerator: publicKeyGenerator,
		uuids:              uuids,
		components:         components,
		project:            project,
		branch:             branch,
		baseAnalysis:       baseAnalysis,
	}
}

// buildContext is the immutable per-call state of one BuildProject call.
type buildContext struct {
	root        *report.Component
	scmBasePath string // trimmed; empty means no SCM base was supplied
}

// scratchNode is a transient trie node keyed by path segment. It exists
// only while one BuildProject call runs. Children keep insertion order so
// the output tree is deterministic for identical input.
type scratchNode struct {
	component *report.Component
	order     []string
	children  map[string]*scratchNode
}

func newScratchNode() *scratchNode {
	return &scratchNode{children: make(map[string]*scratchNode)}
}

func (n *scratchNode) child(segment string) *scratchNode {
	if c, ok := n.children[segment]; ok {
		return c
	}
	c := newScratchNode()
	n.children[segment] = c
	n.order = append(n.order, segment)
	return c
}

// BuildProject builds the full component tree from a PROJECT-typed report
// root. The report reference graph reachable from the root must be acyclic;
// see report.ValidateAcyclic.
func (b *TreeBuilder) BuildProject(root *report.Component, scmBasePath string) (*Component, error) {
	if root.Type != report.TypeProject {
		return nil, fmt.Errorf("expected root component of type %q, got %q", report.TypeProject, root.Type)
	}

	bc := buildContext{
		root:        root,
		scmBasePath: strings.TrimSpace(scmBasePath),
	}

	scratchRoot, err := b.buildFolderHierarchy(root)
	if err != nil {
		return nil, err
	}
	return b.buildNode(bc, scratchRoot, "")
}

// buildFolderHierarchy flattens the report into a path trie. The traversal
// is breadth-first over child refs; module records are dissolved by
// splicing their children into the queue instead of materializing a node.
func (b *TreeBuilder) buildFolderHierarchy(root *report.Component) (*scratchNode, error) {
	queue, err := b.resolveChildren(root)
	if err != nil {
		return nil, err
	}

	scratchRoot := newScratchNode()
	scratchRoot.component = root

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		switch c.Type {
		case report.TypeFile:
			if err := addFileOrDirectory(scratchRoot, c); err != nil {
				return nil, err
			}
		case report.TypeDirectory:
			if err := addFileOrDirectory(scratchRoot, c); err != nil {
				return nil, err
			}
			children, err := b.resolveChildren(c)
			if err != nil {
				return nil, err
			}
			queue = append(queue, children...)
		case report.TypeModule:
			children, err := b.resolveChildren(c)
			if err != nil {
				return nil, err
			}
			queue = append(queue, children...)
		default:
			return nil, fmt.Errorf("unsupported component type %q (ref %d)", c.Type, c.Ref)
		}
	}
	return scratchRoot, nil
}

func (b *TreeBuilder) resolveChildren(c *report.Component) ([]*report.Component, error) {
	children := make([]*report.Component, 0, len(c.ChildRefs))
	for _, ref := range c.ChildRefs {
		child, err := b.components.ComponentByRef(ref)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// addFileOrDirectory inserts a record into the trie at its split path. The
// chain starts under an explicit "" entry so that the true top level is
// never confused with the project node itself.
func addFileOrDirectory(root *scratchNode, c *report.Component) error {
	if c.Type == report.TypeFile && c.Path == "" {
		return fmt.Errorf("file component (ref %d) has no relative path", c.Ref)
	}
	current := root.child("")
	// A directory with an empty path is the top level itself; splitting ""
	// would produce one empty segment and nest it a level too deep.
	if c.Path != "" {
		for _, segment := range strings.Split(c.Path, "/") {
			current = current.child(segment)
		}
	}
	current.component = c
	return nil
}

func (b *TreeBuilder) buildNode(bc buildContext, node *scratchNode, currentPath string) (*Component, error) {
	children, err := b.buildChildren(bc, node, currentPath)
	if err != nil {
		return nil, err
	}

	if c := node.component; c != nil {
		switch c.Type {
		case report.TypeFile:
			return b.buildFile(bc, c)
		case report.TypeProject:
			return b.buildProjectNode(bc, children)
		}
	}
	return b.buildDirectory(bc, currentPath, node.component, children)
}

// buildChildren builds each child subtree, compressing chains of
// single-child intermediate directories into one compound path segment
// first, the way a filesystem listing collapses sparse folder chains.
func (b *TreeBuilder) buildChildren(bc buildContext, node *scratchNode, currentPath string) ([]*Component, error) {
	children := make([]*Component, 0, len(node.order))

	for _, segment := range node.order {
		path := joinPath(currentPath, segment)
		n := node.children[segment]

		for len(n.order) == 1 {
			childSegment := n.order[0]
			child := n.children[childSegment]
			if len(child.order) == 0 {
				break
			}
			path = joinPath(path, childSegment)
			n = child
		}

		built, err := b.buildNode(bc, n, path)
		if err != nil {
			return nil, err
		}
		children = append(children, built)
	}
	return children, nil
}

func joinPath(currentPath, segment string) string {
	if currentPath == "" {
		return segment
	}
	return currentPath + "/" + segment
}

func (b *TreeBuilder) buildProjectNode(bc buildContext, children []*Component) (*Component, error) {
	key := b.keyGenerator.GenerateKey(bc.root, "")
	uuid, err := b.uuids.UUIDFor(key)
	if err != nil {
		return nil, err
	}
	status, err := convertStatus(bc.root.Status)
	if err != nil {
		return nil, err
	}

	c := &Component{
		Type:      TypeProject,
		UUID:      uuid,
		Key:       key,
		PublicKey: b.publicKeyGenerator.GenerateKey(bc.root, ""),
		Status:    status,
		Project:   &ProjectAttributes{Version: b.projectVersion(bc.root)},
		Report:    b.reportAttributes(bc, bc.root.Ref, bc.root.Path, bc.root.Path),
		Children:  children,
	}
	b.setNameAndDescription(bc.root, c)
	return c, nil
}

func (b *TreeBuilder) buildFile(bc buildContext, c *report.Component) (*Component, error) {
	if c.Lines <= 0 {
		return nil, fmt.Errorf("file %q has no line", c.Path)
	}
	key := b.keyGenerator.GenerateKey(bc.root, c.Path)
	uuid, err := b.uuids.UUIDFor(key)
	if err != nil {
		return nil, err
	}
	status, err := convertStatus(c.Status)
	if err != nil {
		return nil, err
	}

	publicKey := b.publicKeyGenerator.GenerateKey(bc.root, c.Path)
	return &Component{
		Type:        TypeFile,
		UUID:        uuid,
		Key:         key,
		PublicKey:   publicKey,
		Name:        nameOfOthers(c, publicKey),
		Description: strings.TrimSpace(c.Description),
		Status:      status,
		Report:      b.reportAttributes(bc, c.Ref, c.Path, c.Path),
		File: &FileAttributes{
			IsTest:   c.IsTest,
			Language: strings.TrimSpace(c.Language),
			Lines:    c.Lines,
		},
	}, nil
}

// buildDirectory synthesizes a DIRECTORY component for a trie node,
// whether or not the report carried an explicit record for it.
func (b *TreeBuilder) buildDirectory(bc buildContext, path string, c *report.Component, children []*Component) (*Component, error) {
	nonEmptyPath := path
	if nonEmptyPath == "" {
		nonEmptyPath = "/"
	}
	key := b.keyGenerator.GenerateKey(bc.root, nonEmptyPath)
	uuid, err := b.uuids.UUIDFor(key)
	if err != nil {
		return nil, err
	}

	ref := 0
	if c != nil {
		ref = c.Ref
	}
	publicKey := b.publicKeyGenerator.GenerateKey(bc.root, nonEmptyPath)
	return &Component{
		Type:      TypeDirectory,
		UUID:      uuid,
		Key:       key,
		PublicKey: publicKey,
		Name:      publicKey,
		Status:    StatusUnavailable,
		Report:    b.reportAttributes(bc, ref, nonEmptyPath, path),
		Children:  children,
	}, nil
}

func (b *TreeBuilder) setNameAndDescription(root *report.Component, c *Component) {
	if b.branch.Main {
		c.Name = b.nameOfProject(root)
		c.Description = root.Description
		return
	}
	// Off the main branch the report never renames the project.
	c.Name = b.project.Name
	c.Description = b.project.Description
}

func (b *TreeBuilder) nameOfProject(root *report.Component) string {
	if name := strings.TrimSpace(root.Name); name != "" {
		return name
	}
	return b.project.Name
}

func nameOfOthers(c *report.Component, defaultName string) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return defaultName
}

func (b *TreeBuilder) projectVersion(root *report.Component) string {
	if version := strings.TrimSpace(root.Version); version != "" {
		return version
	}
	if b.baseAnalysis != nil && b.baseAnalysis.Version != "" {
		return b.baseAnalysis.Version
	}
	return DefaultProjectVersion
}

func (b *TreeBuilder) reportAttributes(bc buildContext, ref int, path, scmRelativePath string) ReportAttributes {
	return ReportAttributes{
		Ref:     ref,
		Path:    path,
		ScmPath: computeScmPath(bc.scmBasePath, scmRelativePath),
	}
}

func computeScmPath(scmBasePath, scmRelativePath string) string {
	if scmRelativePath == "" {
		return ""
	}
	if scmBasePath == "" {
		return scmRelativePath
	}
	return scmBasePath + "/" + scmRelativePath
}

func convertStatus(status report.FileStatus) (Status, error) {
	switch status {
	case report.StatusAdded:
		return StatusAdded, nil
	case report.StatusSame:
		return StatusSame, nil
	case report.StatusChanged:
		return StatusChanged, nil
	case report.StatusUnavailable, "":
		// An absent status means the scanner had nothing to compare against.
		return StatusUnavailable, nil
	default:
		return "", fmt.Errorf("unsupported component status %q", status)
	}
}
