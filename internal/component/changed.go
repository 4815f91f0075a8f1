package component

import "fmt"

// BuildChangedComponentTreeRoot derives the pruned "what changed" view of a
// built tree. Only files whose status is not SAME survive, together with the
// directories on the path to them. The project root is always kept, even
// when nothing changed; its child list is then empty.
func BuildChangedComponentTreeRoot(project *Component) (*Component, error) {
	changed, err := buildChangedComponentTree(project)
	if err != nil {
		return nil, err
	}
	return changed, nil
}

func buildChangedComponentTree(c *Component) (*Component, error) {
	switch c.Type {
	case TypeProject:
		return buildChangedProject(c)
	case TypeDirectory:
		return buildChangedDirectory(c)
	case TypeFile:
		return buildChangedFile(c), nil
	default:
		return nil, fmt.Errorf("unsupported component type %q", c.Type)
	}
}

func buildChangedProject(c *Component) (*Component, error) {
	children, err := buildChangedChildren(c)
	if err != nil {
		return nil, err
	}
	copied := changedComponent(c)
	copied.Project = &ProjectAttributes{Version: c.Project.Version}
	copied.Children = children
	return copied, nil
}

// buildChangedDirectory keeps a directory only when at least one descendant
// changed. Directories are never change-markers by themselves.
func buildChangedDirectory(c *Component) (*Component, error) {
	children, err := buildChangedChildren(c)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}
	copied := changedComponent(c)
	copied.Children = children
	return copied, nil
}

func buildChangedFile(c *Component) *Component {
	if c.Status == StatusSame {
		return nil
	}
	copied := changedComponent(c)
	copied.File = &FileAttributes{
		IsTest:   c.File.IsTest,
		Language: c.File.Language,
		Lines:    c.File.Lines,
	}
	return copied
}

func buildChangedChildren(c *Component) ([]*Component, error) {
	var children []*Component
	for _, child := range c.Children {
		changed, err := buildChangedComponentTree(child)
		if err != nil {
			return nil, err
		}
		if changed != nil {
			children = append(children, changed)
		}
	}
	return children, nil
}

func changedComponent(c *Component) *Component {
	return &Component{
		Type:        c.Type,
		UUID:        c.UUID,
		Key:         c.Key,
		PublicKey:   c.PublicKey,
		Name:        c.Name,
		Description: c.Description,
		Status:      c.Status,
		Report:      c.Report,
	}
}
