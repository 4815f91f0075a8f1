package report

import "fmt"

// Cache indexes the flat records of one report by ref so the tree builder
// can resolve child references in constant time.
type Cache struct {
	byRef map[int]*Component
}

// NewCache builds the ref index for a report.
func NewCache(r *Report) *Cache {
	byRef := make(map[int]*Component, len(r.Components))
	for _, c := range r.Components {
		byRef[c.Ref] = c
	}
	return &Cache{byRef: byRef}
}

// ComponentByRef resolves a record by its ref. Every ref reachable from the
// root must resolve; a miss means the report is corrupt.
func (c *Cache) ComponentByRef(ref int) (*Component, error) {
	component, ok := c.byRef[ref]
	if !ok {
		return nil, fmt.Errorf("no component found for ref %d", ref)
	}
	return component, nil
}
