package mapper

import (
	"slices"
	"strings"
)

// wildcardTree indexes wildcard mappers by the key segments in front of
// the placeholder. A node holding mappers is a leaf: wildcard keys do not
// nest.
type wildcardTree struct {
	parts   map[string]*wildcardTree
	mappers []*PropertyMapper
}

func newWildcardTree() *wildcardTree {
	return &wildcardTree{parts: make(map[string]*wildcardTree)}
}

// add registers m under the segments of key preceding the placeholder
func (t *wildcardTree) add(m *PropertyMapper, delim byte, key string) {
	level := t
	for _, part := range strings.Split(key, string(delim)) {
		if strings.Contains(part, "<") {
			level.mappers = append(level.mappers, m)
			return
		}
		next, ok := level.parts[part]
		if !ok {
			next = newWildcardTree()
			level.parts[part] = next
		}
		level = next
	}
}

// remove drops m from every node
func (t *wildcardTree) remove(m *PropertyMapper) {
	t.mappers = slices.DeleteFunc(t.mappers, func(c *PropertyMapper) bool { return c == m })
	for _, next := range t.parts {
		next.remove(m)
	}
}

// find walks key from index, one delim-separated segment at a time, and
// returns the mappers of the first leaf whose patterns match the whole key
func (t *wildcardTree) find(key string, index int, delim byte) []*PropertyMapper {
	level := t
	for {
		if len(level.mappers) > 0 {
			var out []*PropertyMapper
			for _, m := range level.mappers {
				if m.MatchesWildcardOptionName(key) {
					out = append(out, m)
				}
			}
			return out
		}
		if index > len(key) {
			return nil
		}
		rel := strings.IndexByte(key[index:], delim)
		if rel <= 0 {
			return nil
		}
		next := index + rel
		if next == len(key)-1 {
			return nil
		}
		child, ok := level.parts[key[index:next]]
		if !ok {
			return nil
		}
		level = child
		index = next + 1
	}
}
