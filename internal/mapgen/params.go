package mapgen

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/palette"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/random"
)

// ComputedParameters is the resolved parameter tree of a map or palette:
// the concrete value of every local parameter plus one child tree per
// referenced palette, in declared order.
type ComputedParameters struct {
	This     map[cdda.ParameterID]string `json:"this,omitempty"`
	Palettes []PaletteParameters         `json:"palettes,omitempty"`
}

// PaletteParameters is the computed tree of one referenced palette.
type PaletteParameters struct {
	ID         cdda.PaletteID     `json:"id"`
	Parameters ComputedParameters `json:"parameters"`
}

// Value looks a parameter up by name: local values first, then palette
// children in declared order. The first hit wins.
func (p *ComputedParameters) Value(id cdda.ParameterID) (string, bool) {
	if p == nil {
		return "", false
	}
	if v, ok := p.This[id]; ok {
		return v, true
	}
	for i := range p.Palettes {
		if v, ok := p.Palettes[i].Parameters.Value(id); ok {
			return v, true
		}
	}
	return "", false
}

// Child returns the computed tree of a referenced palette, searching the
// whole tree depth-first.
func (p *ComputedParameters) Child(id cdda.PaletteID) *ComputedParameters {
	if p == nil {
		return nil
	}
	for i := range p.Palettes {
		if p.Palettes[i].ID == id {
			return &p.Palettes[i].Parameters
		}
		if c := p.Palettes[i].Parameters.Child(id); c != nil {
			return c
		}
	}
	return nil
}

// Resolver resolves parameters and characters against the global palette
// registry. All weighted choices draw from the one generator so a seed and
// a project together determine the output.
type Resolver struct {
	Palettes palette.Map
	Rng      *rand.Rand
}

// NewResolver creates a resolver over a palette registry.
func NewResolver(palettes palette.Map, rng *rand.Rand) *Resolver {
	return &Resolver{Palettes: palettes, Rng: rng}
}

// ComputeParameters resolves a parameter map and a palette reference list
// into a ComputedParameters tree, recursing through referenced palettes.
// Palette ids already seen on the walk are skipped so cyclic includes
// terminate.
func (r *Resolver) ComputeParameters(params map[cdda.ParameterID]cdda.Parameter, refs []cdda.MapObjectID) (*ComputedParameters, error) {
	return r.computeParameters(params, refs, map[cdda.PaletteID]bool{})
}

func (r *Resolver) computeParameters(params map[cdda.ParameterID]cdda.Parameter, refs []cdda.MapObjectID, visited map[cdda.PaletteID]bool) (*ComputedParameters, error) {
	computed := &ComputedParameters{This: make(map[cdda.ParameterID]string)}

	// Resolve local parameters in name order so the generator is consumed
	// deterministically regardless of map iteration order.
	names := make([]cdda.ParameterID, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, name := range names {
		v, err := r.resolveMapGenValue(params[name].Default, computed)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		computed.This[name] = v
	}

	for _, ref := range refs {
		id, err := r.paletteRefID(ref, computed)
		if err != nil {
			return nil, err
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		p, ok := r.Palettes[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedPalette, id)
		}

		child, err := r.computeParameters(p.Parameters, p.Palettes, visited)
		if err != nil {
			return nil, fmt.Errorf("palette %s: %w", id, err)
		}
		computed.Palettes = append(computed.Palettes, PaletteParameters{ID: id, Parameters: *child})
	}

	return computed, nil
}

// resolveMapGenValue draws a concrete value from a parameter default.
// Param and switch defaults may only reference values computed before them.
func (r *Resolver) resolveMapGenValue(v cdda.MapGenValue, scope *ComputedParameters) (string, error) {
	switch v.Kind {
	case cdda.MapGenSimple:
		return v.Simple, nil

	case cdda.MapGenDistribution:
		weights := make([]int, len(v.Distribution))
		for i, w := range v.Distribution {
			weights[i] = w.Weight
		}
		i := random.PickIndex(r.Rng, weights)
		if i < 0 {
			return "", fmt.Errorf("%w: empty distribution", ErrUnresolvedParameter)
		}
		return v.Distribution[i].Value, nil

	case cdda.MapGenParam:
		if val, ok := scope.Value(cdda.ParameterID(v.Param.Param)); ok {
			return val, nil
		}
		if v.Param.Fallback != "" {
			return v.Param.Fallback, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnresolvedParameter, v.Param.Param)

	case cdda.MapGenSwitch:
		val, ok := switchLookup(scope, v.Switch, v.Cases)
		if !ok {
			return "", fmt.Errorf("%w: switch on %s", ErrUnresolvedParameter, v.Switch.Param)
		}
		return val, nil

	default:
		return "", fmt.Errorf("%w: unknown value kind %d", ErrUnresolvedParameter, v.Kind)
	}
}

// paletteRefID resolves a palette reference to a concrete palette id.
// Weighted groups are sampled here, once; the chosen id is recorded in the
// computed tree, which later character lookups consult.
func (r *Resolver) paletteRefID(ref cdda.MapObjectID, scope *ComputedParameters) (cdda.PaletteID, error) {
	switch ref.Kind {
	case cdda.ObjectIDSingle:
		id, ok := r.maybeParamString(ref.Single.Value, scope)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnresolvedPalette, ref.Single.Value.Param.Param)
		}
		return cdda.PaletteID(id), nil

	case cdda.ObjectIDParam:
		if val, ok := scope.Value(cdda.ParameterID(ref.Param.Param)); ok {
			return cdda.PaletteID(val), nil
		}
		if ref.Param.Fallback != "" {
			return cdda.PaletteID(ref.Param.Fallback), nil
		}
		return "", fmt.Errorf("%w: parameter %s", ErrUnresolvedPalette, ref.Param.Param)

	case cdda.ObjectIDSwitch:
		val, ok := switchLookup(scope, ref.Switch, ref.Cases)
		if !ok {
			return "", fmt.Errorf("%w: switch on %s", ErrUnresolvedPalette, ref.Switch.Param)
		}
		return cdda.PaletteID(val), nil

	case cdda.ObjectIDGrouped:
		weights := make([]int, len(ref.Group))
		for i, w := range ref.Group {
			weights[i] = w.Weight
		}
		i := random.PickIndex(r.Rng, weights)
		if i < 0 {
			return "", fmt.Errorf("%w: empty palette group", ErrUnresolvedPalette)
		}
		id, ok := r.maybeParamString(ref.Group[i].Value, scope)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnresolvedPalette, ref.Group[i].Value.Param.Param)
		}
		return cdda.PaletteID(id), nil

	default:
		return "", fmt.Errorf("%w: palette reference has kind %s", ErrUnresolvedPalette, ref.Kind)
	}
}

// maybeParamString resolves a literal-or-parameter value to a string.
func (r *Resolver) maybeParamString(v cdda.MaybeParam, scope *ComputedParameters) (string, bool) {
	if !v.IsParam() {
		return string(v.ID), true
	}
	if val, ok := scope.Value(cdda.ParameterID(v.Param.Param)); ok {
		return val, true
	}
	if v.Param.Fallback != "" {
		return v.Param.Fallback, true
	}
	return "", false
}

// switchLookup dispatches a switch on a computed parameter value. Missing
// cases fall through to the "default" case, then to the switch fallback.
func switchLookup(scope *ComputedParameters, sw *cdda.SwitchRef, cases map[string]string) (string, bool) {
	val, ok := scope.Value(cdda.ParameterID(sw.Param))
	if !ok {
		if sw.Fallback == "" {
			return "", false
		}
		val = sw.Fallback
	}

	if out, ok := cases[val]; ok {
		return out, true
	}
	if out, ok := cases["default"]; ok {
		return out, true
	}
	if sw.Fallback != "" {
		return sw.Fallback, true
	}
	return "", false
}
