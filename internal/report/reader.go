package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// Read loads and deserializes a scanner report from disk.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report JSON: %w", err)
	}

	if len(r.Components) == 0 {
		return nil, fmt.Errorf("report contains no components")
	}

	return &r, nil
}

// ValidateAcyclic checks that every ref reachable from the root resolves to
// a record and that the child-ref graph is a DAG. Tree construction assumes
// both, so a violation here is a fatal input error.
func ValidateAcyclic(r *Report, cache *Cache) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[int]int, len(r.Components))

	var visit func(ref int) error
	visit = func(ref int) error {
		switch state[ref] {
		case visiting:
			return fmt.Errorf("component ref %d is part of a reference cycle", ref)
		case done:
			return nil
		}
		state[ref] = visiting

		c, err := cache.ComponentByRef(ref)
		if err != nil {
			return err
		}
		for _, child := range c.ChildRefs {
			if err := visit(child); err != nil {
				return err
			}
		}

		state[ref] = done
		return nil
	}

	return visit(r.RootRef)
}
