// Package strategy resolves strategy and filter names into runnable signal generators.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/filters"
	"cryptoTrade/internal/strategy/strategies"

	"github.com/shopspring/decimal"
)

// Registry maps canonical names to strategy constructors and filter wrappers.
// It is built once by NewRegistry and is read-only afterwards.
type Registry struct {
	strategies map[string]strategies.Definition
	filters    map[string]filters.Definition
	logger     ports.Logger
}

// NewRegistry creates a registry holding every built-in strategy and filter.
func NewRegistry(logger ports.Logger) *Registry {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	r := &Registry{
		strategies: make(map[string]strategies.Definition),
		filters:    make(map[string]filters.Definition),
		logger:     logger,
	}
	for _, def := range strategies.Builtins() {
		r.strategies[def.Name] = def
	}
	for _, def := range filters.Builtins() {
		r.filters[def.Name] = def
	}
	return r
}

// Names lists the registered strategy names in sorted order.
func (r *Registry) Names() []string {
	return sortedKeys(r.strategies)
}

// FilterNames lists the registered filter names in sorted order.
func (r *Registry) FilterNames() []string {
	return sortedKeys(r.filters)
}

// Describe returns the one-line description of a strategy or filter.
func (r *Registry) Describe(name string) string {
	if def, ok := r.strategies[name]; ok {
		return def.Description
	}
	if def, ok := r.filters[name]; ok {
		return def.Description
	}
	return ""
}

// Params returns the parameter declarations of a strategy or filter.
func (r *Registry) Params(name string) ([]strategies.ParamSpec, error) {
	if def, ok := r.strategies[name]; ok {
		return def.Params, nil
	}
	if def, ok := r.filters[name]; ok {
		return def.Params, nil
	}
	return nil, r.unknown(name)
}

// New builds the named strategy with overrides applied on top of its defaults.
func (r *Registry) New(name string, overrides map[string]decimal.Decimal) (ports.Strategy, error) {
	def, ok := r.strategies[name]
	if !ok {
		return nil, r.unknown(name)
	}
	p, err := strategies.Resolve(def.Params, overrides)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", name, err)
	}
	return def.Build(p, r.logger), nil
}

// Wrap applies one filter to inner.
func (r *Registry) Wrap(inner ports.Strategy, spec domain.FilterSpec) (ports.Strategy, error) {
	def, ok := r.filters[spec.Name]
	if !ok {
		return nil, fmt.Errorf("%w: filter %q (available: %s)", ports.ErrUnknownStrategy, spec.Name, strings.Join(r.FilterNames(), ", "))
	}
	p, err := strategies.Resolve(def.Params, spec.Params)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", spec.Name, err)
	}
	return def.Wrap(inner, p, r.logger), nil
}

// Resolve builds the named strategy and stacks filters on it in list order,
// first innermost: [a, b] yields b(a(strategy)).
func (r *Registry) Resolve(name string, overrides map[string]decimal.Decimal, specs []domain.FilterSpec) (ports.Strategy, error) {
	s, err := r.New(name, overrides)
	if err != nil {
		return nil, err
	}
	for _, spec := range specs {
		s, err = r.Wrap(s, spec)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *Registry) unknown(name string) error {
	return fmt.Errorf("%w: %q (available: %s)", ports.ErrUnknownStrategy, name, strings.Join(r.Names(), ", "))
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
