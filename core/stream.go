package core

import (
	"fmt"

	"github.com/tsawler/cosparse/internal/filters"
)

// Filter is one entry of a stream's filter chain.
type Filter struct {
	Name   string // full name, abbreviations expanded
	Params Dict   // nil when the filter has no decode parameters
}

// Filters returns the stream's filter chain in the order it is applied
// when decoding. Filter, DecodeParms and their elements may be indirect;
// a null DecodeParms entry means no parameters, and a single dictionary
// alongside a filter array applies to every filter.
func (s *Stream) Filters() ([]Filter, error) {
	var names Array
	switch v := s.Dict.Get("Filter").(type) {
	case nil, Null:
		return nil, nil
	case Name:
		names = Array{v}
	case Array:
		names = v
	default:
		return nil, fmt.Errorf("invalid Filter type: %T", v)
	}

	parms := s.Dict.Get("DecodeParms")
	chain := make([]Filter, 0, len(names))
	for i := range names {
		name, ok := names.GetName(i)
		if !ok {
			return nil, fmt.Errorf("filter %d is not a name: %v", i, names[i])
		}
		var params Dict
		switch p := parms.(type) {
		case Array:
			params, _ = p.Get(i).(Dict)
		case Dict:
			params = p
		}
		chain = append(chain, Filter{Name: filters.Canonical(string(name)), Params: params})
	}
	return chain, nil
}

// Decode returns the stream bytes with every filter in the chain removed.
func (s *Stream) Decode() ([]byte, error) {
	chain, err := s.Filters()
	if err != nil {
		return nil, err
	}
	data, err := s.Raw()
	if err != nil {
		return nil, err
	}
	for i, f := range chain {
		data, err = filters.Decode(f.Name, data, toParams(f.Params))
		if err != nil {
			if len(chain) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, f.Name, err)
		}
	}
	return data, nil
}

// toParams converts decode parameters to the plain Go values the filters
// expect. Entries of other types are dropped.
func toParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}
	params := make(filters.Params, len(dict))
	for k := range dict {
		switch v := dict.Get(k).(type) {
		case Int:
			params[k] = int(v)
		case Real:
			params[k] = float64(v)
		case Bool:
			params[k] = bool(v)
		case Name:
			params[k] = string(v)
		case String:
			params[k] = string(v)
		}
	}
	return params
}
