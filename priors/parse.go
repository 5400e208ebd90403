package priors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// exprPattern matches "name ~ family(p1, p2)", e.g. "beta ~ uniform(0, 1)".
var exprPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*~\s*([A-Za-z]+)\s*\(\s*([^,]+?)\s*,\s*([^)]+?)\s*\)\s*$`)

var familyNames = map[string]Family{
	"uniform":   Uniform,
	"normal":    Normal,
	"lognormal": LogNormal,
	"gamma":     Gamma,
}

// ParseExpression parses a single "name ~ family(p1, p2)" declaration.
func ParseExpression(expr string) (Prior, error) {
	m := exprPattern.FindStringSubmatch(expr)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrParse, expr)
	}
	name, familyName, p1s, p2s := m[1], strings.ToLower(m[2]), m[3], m[4]

	family, ok := familyNames[familyName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, familyName)
	}
	p1, err := strconv.ParseFloat(p1s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: p1 %q: %v", ErrParse, p1s, err)
	}
	p2, err := strconv.ParseFloat(p2s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: p2 %q: %v", ErrParse, p2s, err)
	}
	return New(name, family, p1, p2)
}

// ParseSequence parses multiple "name ~ family(p1, p2)" declarations and
// resolves them into a PriorSet against the model's gdata and ldata
// namespaces (see NewSet).
func ParseSequence(gdataNames, ldataNames []string, exprs ...string) (*Set, error) {
	ps := make([]Prior, len(exprs))
	for i, e := range exprs {
		p, err := ParseExpression(e)
		if err != nil {
			return nil, fmt.Errorf("priors: ParseSequence[%d]: %w", i, err)
		}
		ps[i] = p
	}
	return NewSet(gdataNames, ldataNames, ps...)
}
