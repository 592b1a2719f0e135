package features

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Categories maps a canonical category string to the integer code it was given
// at training time. A zero value is an empty table.
type Categories struct {
	codes map[string]int
}

// NewCategories copies codes into a read-only table.
func NewCategories(codes map[string]int) (Categories, error) {
	c := Categories{codes: make(map[string]int, len(codes))}
	for k, v := range codes {
		if v < 0 {
			return Categories{}, fmt.Errorf("category %q has negative code %d", k, v)
		}
		c.codes[k] = v
	}
	return c, nil
}

// fromClasses builds a table from an ordered class list, where position is the code.
func fromClasses(classes []string) (Categories, error) {
	codes := make(map[string]int, len(classes))
	for i, name := range classes {
		if _, dup := codes[name]; dup {
			return Categories{}, fmt.Errorf("category %q listed twice", name)
		}
		codes[name] = i
	}
	return Categories{codes: codes}, nil
}

// Code returns the code for value. Unknown values report false.
func (c Categories) Code(value string) (int, bool) {
	code, ok := c.codes[value]
	return code, ok
}

// Len returns the number of known categories.
func (c Categories) Len() int {
	return len(c.codes)
}

// Names returns the known categories ordered by code, then name.
func (c Categories) Names() []string {
	names := make([]string, 0, len(c.codes))
	for k := range c.codes {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := c.codes[names[i]], c.codes[names[j]]
		if ci != cj {
			return ci < cj
		}
		return names[i] < names[j]
	})
	return names
}

// UnmarshalJSON accepts either {"Bronx": 0, ...} or ["Bronx", ...].
func (c *Categories) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var classes []string
		if err := json.Unmarshal(data, &classes); err != nil {
			return err
		}
		parsed, err := fromClasses(classes)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var codes map[string]int
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	parsed, err := NewCategories(codes)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML accepts a mapping or a sequence, like UnmarshalJSON.
func (c *Categories) UnmarshalYAML(node *yaml.Node) error {
	var (
		parsed Categories
		err    error
	)
	switch node.Kind {
	case yaml.SequenceNode:
		var classes []string
		if err := node.Decode(&classes); err != nil {
			return err
		}
		parsed, err = fromClasses(classes)
	case yaml.MappingNode:
		var codes map[string]int
		if err := node.Decode(&codes); err != nil {
			return err
		}
		parsed, err = NewCategories(codes)
	default:
		return fmt.Errorf("line %d: encoder table must be a mapping or a list", node.Line)
	}
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
