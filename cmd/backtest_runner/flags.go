package main

import (
	"fmt"
	"strings"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/strategies"

	"github.com/shopspring/decimal"
)

// parseKeyValues turns ["k=v", ...] into a map, rejecting malformed or repeated keys.
func parseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", ports.ErrInvalidParameter, pair)
		}
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("%w: %q given twice", ports.ErrInvalidParameter, k)
		}
		out[k] = v
	}
	return out, nil
}

// strategyParams parses --param values.
func strategyParams(pairs []string) (map[string]decimal.Decimal, error) {
	raw, err := parseKeyValues(pairs)
	if err != nil {
		return nil, err
	}
	return strategies.ParseParams(raw)
}

// filterSpecs combines --filter names (innermost first) with --filter-param
// values of the form filter.key=value.
func filterSpecs(names, pairs []string) ([]domain.FilterSpec, error) {
	raw, err := parseKeyValues(pairs)
	if err != nil {
		return nil, err
	}
	byFilter := make(map[string]map[string]string)
	for k, v := range raw {
		filter, param, ok := strings.Cut(k, ".")
		if !ok || filter == "" || param == "" {
			return nil, fmt.Errorf("%w: filter parameter %q must look like filter.key=value", ports.ErrInvalidParameter, k)
		}
		if byFilter[filter] == nil {
			byFilter[filter] = make(map[string]string)
		}
		byFilter[filter][param] = v
	}

	specs := make([]domain.FilterSpec, 0, len(names))
	used := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		params, err := strategies.ParseParams(byFilter[name])
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
		used[name] = true
		specs = append(specs, domain.FilterSpec{Name: name, Params: params})
	}
	for filter := range byFilter {
		if !used[filter] {
			return nil, fmt.Errorf("%w: parameters given for filter %q which is not applied", ports.ErrInvalidParameter, filter)
		}
	}
	return specs, nil
}
