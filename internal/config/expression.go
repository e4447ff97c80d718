package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

const (
	// ExpressionPriority runs expansion below property mapping and above the recursion guard
	ExpressionPriority = 800

	maxExpansionDepth = 32
)

var (
	// ErrExpansion is returned when a ${...} expression cannot be expanded
	ErrExpansion = errors.New("could not expand value")

	// ErrExpansionDepth is returned when expressions reference each other too deeply
	ErrExpansionDepth = errors.New("expression expansion too deep")
)

// ExpressionInterceptor expands ${name} and ${name:default} expressions in
// values coming from the sources
type ExpressionInterceptor struct {
	Log logr.Logger
}

func (e *ExpressionInterceptor) Priority() int {
	return ExpressionPriority
}

func (e *ExpressionInterceptor) GetValue(ctx Context, name string) *Value {
	v := ctx.Proceed(name)
	if !v.Present() || v.Expanded() || !strings.Contains(v.Value, "${") {
		return v
	}

	expanded, err := ExpandInScope(ctx.Scope(), name, v.Value, func(ref string) (string, bool) {
		r := ctx.Proceed(ref)
		return r.String(), r.Present()
	})
	if err != nil {
		if errors.Is(err, ErrExpansionDepth) {
			e.Log.V(1).Info("giving up expanding value", "name", name, "depth", maxExpansionDepth)
		}
		ctx.Scope().Fail(fmt.Errorf("property %s: %w", name, err))
		return nil
	}
	return v.WithValue(expanded).markExpanded()
}

func (e *ExpressionInterceptor) IterateNames(ctx Context) []string {
	return ctx.IterateNames()
}

// ExpandInScope expands value, the value of name, with the names being
// expanded tracked in scope. A reference back to one of them is an error,
// as is nesting deeper than the depth limit.
func ExpandInScope(scope *Scope, name, value string, lookup func(name string) (string, bool)) (string, error) {
	leave, ok := scope.enterExpansion(name, maxExpansionDepth)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrExpansionDepth, value)
	}
	defer leave()

	var cycle string
	expanded, err := Expand(value, func(ref string) (string, bool) {
		if scope.IsExpanding(ref) {
			if cycle == "" {
				cycle = ref
			}
			return "", false
		}
		return lookup(ref)
	})
	if cycle != "" {
		return "", fmt.Errorf("%w %q: circular reference to %s", ErrExpansion, value, cycle)
	}
	return expanded, err
}

// Expand replaces ${name} with the value lookup returns for name. The form
// ${name:default} falls back to default, which may itself contain
// expressions. $${ produces a literal ${. A reference with no value and
// no default is an error.
func Expand(value string, lookup func(name string) (string, bool)) (string, error) {
	var b strings.Builder
	for i := 0; i < len(value); {
		switch {
		case strings.HasPrefix(value[i:], "$${"):
			b.WriteString("${")
			i += 3
		case strings.HasPrefix(value[i:], "${"):
			end := closingBrace(value, i+2)
			if end < 0 {
				return "", fmt.Errorf("%w %q: unterminated expression", ErrExpansion, value)
			}
			expr := value[i+2 : end]
			ref, def, hasDefault := splitDefault(expr)
			if v, ok := lookup(ref); ok && v != "" {
				b.WriteString(v)
			} else if hasDefault {
				d, err := Expand(def, lookup)
				if err != nil {
					return "", err
				}
				b.WriteString(d)
			} else {
				return "", fmt.Errorf("%w %q: no value for %s", ErrExpansion, value, ref)
			}
			i = end + 1
		default:
			b.WriteByte(value[i])
			i++
		}
	}
	return b.String(), nil
}

// closingBrace returns the index of the brace closing the expression that
// starts at from, honouring nested expressions
func closingBrace(s string, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "${"):
			depth++
			i++
		case s[i] == '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func splitDefault(expr string) (name, def string, ok bool) {
	depth := 0
	for i := 0; i < len(expr); i++ {
		switch {
		case strings.HasPrefix(expr[i:], "${"):
			depth++
			i++
		case expr[i] == '}':
			depth--
		case expr[i] == ':' && depth == 0:
			return expr[:i], expr[i+1:], true
		}
	}
	return expr, "", false
}
