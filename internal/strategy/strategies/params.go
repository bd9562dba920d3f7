package strategies

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
)

// ParamSpec declares one tunable strategy or filter parameter.
type ParamSpec struct {
	Name        string
	Default     decimal.Decimal
	Integer     bool // value must be a whole number no larger than math.MaxInt32
	Positive    bool // value must be > 0
	NonNegative bool // value must be >= 0
}

var maxIntParam = decimal.NewFromInt(math.MaxInt32)

// Params holds resolved parameter values keyed by name.
type Params map[string]decimal.Decimal

// Decimal returns the named value, or zero when absent.
func (p Params) Decimal(name string) decimal.Decimal {
	return p[name]
}

// Int returns the named value truncated to an int.
func (p Params) Int(name string) int {
	return int(p[name].IntPart())
}

// Resolve merges overrides onto the declared defaults and validates the result.
// Unknown names and values violating a spec are rejected with ports.ErrInvalidParameter.
func Resolve(specs []ParamSpec, overrides map[string]decimal.Decimal) (Params, error) {
	known := make(map[string]ParamSpec, len(specs))
	resolved := make(Params, len(specs))
	for _, s := range specs {
		known[s.Name] = s
		resolved[s.Name] = s.Default
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown parameter %q (accepted: %s)", ports.ErrInvalidParameter, name, specNames(specs))
		}
		v := overrides[name]
		if err := spec.check(v); err != nil {
			return nil, err
		}
		resolved[name] = v
	}
	return resolved, nil
}

// ParseParams converts raw textual overrides into decimals.
func ParseParams(raw map[string]string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(raw))
	for name, s := range raw {
		v, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q has non-numeric value %q", ports.ErrInvalidParameter, name, s)
		}
		out[name] = v
	}
	return out, nil
}

func (s ParamSpec) check(v decimal.Decimal) error {
	if s.Integer && !v.Equal(v.Truncate(0)) {
		return fmt.Errorf("%w: parameter %q must be an integer, got %s", ports.ErrInvalidParameter, s.Name, v)
	}
	if s.Integer && v.Abs().GreaterThan(maxIntParam) {
		return fmt.Errorf("%w: parameter %q is out of range, got %s", ports.ErrInvalidParameter, s.Name, v)
	}
	if s.NonNegative && v.IsNegative() {
		return fmt.Errorf("%w: parameter %q must not be negative, got %s", ports.ErrInvalidParameter, s.Name, v)
	}
	if s.Positive && !v.IsPositive() {
		return fmt.Errorf("%w: parameter %q must be positive, got %s", ports.ErrInvalidParameter, s.Name, v)
	}
	return nil
}

func specNames(specs []ParamSpec) string {
	if len(specs) == 0 {
		return "none"
	}
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

func intParam(name string, def int64) ParamSpec {
	return ParamSpec{Name: name, Default: decimal.NewFromInt(def), Integer: true, Positive: true}
}

func decimalParam(name, def string) ParamSpec {
	return ParamSpec{Name: name, Default: decimal.RequireFromString(def), Positive: true}
}

func nonNegativeParam(name, def string) ParamSpec {
	return ParamSpec{Name: name, Default: decimal.RequireFromString(def), NonNegative: true}
}
