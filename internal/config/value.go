package config

// Value is a configuration value together with where it came from.
// A nil Value, or one with an empty Value string, is absent.
type Value struct {
	Name          string
	Value         string
	RawValue      string
	SourceName    string
	SourceOrdinal int

	expanded bool
}

// Present reports whether v carries a value
func (v *Value) Present() bool {
	return v != nil && v.Value != ""
}

// String returns the value, or "" for a nil Value
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return v.Value
}

// WithName returns a copy of v with a different name
func (v *Value) WithName(name string) *Value {
	c := *v
	c.Name = name
	return &c
}

// WithValue returns a copy of v with a different value
func (v *Value) WithValue(value string) *Value {
	c := *v
	c.Value = value
	return &c
}

// Expanded reports whether expressions in the value were already expanded
func (v *Value) Expanded() bool {
	return v != nil && (v.expanded || v.Value != v.RawValue)
}

func (v *Value) markExpanded() *Value {
	c := *v
	c.expanded = true
	return &c
}
