package mapgen

import (
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/logger"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/random"
)

// ToiletFurniture is the furniture identifier behind a palette's toilet
// entries; the entries themselves only carry placement detail.
const ToiletFurniture cdda.TileID = "f_toilet"

// IDGroup is the resolved meaning of one character: at most one identifier
// per role, plus the item spawns for the item role.
type IDGroup struct {
	Terrain   *cdda.TileID
	Furniture *cdda.TileID
	Toilet    *cdda.TileID
	Items     cdda.ItemSpawnList
}

// Get returns the identifier resolved for a role, if any.
func (g IDGroup) Get(role cdda.Role) *cdda.TileID {
	switch role {
	case cdda.RoleTerrain:
		return g.Terrain
	case cdda.RoleFurniture:
		return g.Furniture
	case cdda.RoleToilet:
		return g.Toilet
	case cdda.RoleItem:
		if len(g.Items) > 0 {
			id := cdda.TileID(g.Items[0].Item)
			return &id
		}
		return nil
	default:
		return nil
	}
}

// ResolveCharacter resolves every role of a character against a map: the
// map's own mappings first, then its palette stack depth-first in declared
// order, with earlier definitions shadowing later ones. Terrain falls back
// to fill_ter. A role nothing defines stays nil; the caller renders the
// fallback sprite for it.
func (r *Resolver) ResolveCharacter(m *MapEntity, ch string) IDGroup {
	var group IDGroup
	scope := m.Selection.Computed

	if obj, ok := m.Selection.Terrain[ch]; ok {
		group.Terrain = r.evalObjectID(obj, scope)
	}
	if obj, ok := m.Selection.Furniture[ch]; ok {
		group.Furniture = r.evalObjectID(obj, scope)
	}

	visited := map[cdda.PaletteID]bool{}
	for _, ref := range m.Selection.Palettes {
		r.walkPalette(&group, ref, ch, scope, visited)
	}

	if group.Terrain == nil && m.Selection.FillTer != nil {
		fill := *m.Selection.FillTer
		group.Terrain = &fill
	}

	return group
}

// walkPalette fills the still-unresolved roles of a group from one palette
// reference, then from the palettes it includes. Already-visited palettes
// are skipped so cyclic includes terminate.
func (r *Resolver) walkPalette(group *IDGroup, ref cdda.MapObjectID, ch string, scope *ComputedParameters, visited map[cdda.PaletteID]bool) {
	id, ok := r.lookupPaletteID(ref, scope)
	if !ok {
		logger.Warning("unresolved palette reference", "kind", ref.Kind.String())
		return
	}
	if visited[id] {
		return
	}
	visited[id] = true

	p, ok := r.Palettes[id]
	if !ok {
		logger.Warning("referenced palette is not loaded", "id", id)
		return
	}

	if group.Terrain == nil {
		if obj, ok := p.Terrain[ch]; ok {
			group.Terrain = r.evalObjectID(obj, scope)
		}
	}
	if group.Furniture == nil {
		if obj, ok := p.Furniture[ch]; ok {
			group.Furniture = r.evalObjectID(obj, scope)
		}
	}
	if group.Items == nil {
		if items, ok := p.Items[ch]; ok {
			group.Items = items
		}
	}
	if group.Toilet == nil {
		if _, ok := p.Toilets[ch]; ok {
			toilet := ToiletFurniture
			group.Toilet = &toilet
		}
	}

	for _, inc := range p.Palettes {
		r.walkPalette(group, inc, ch, scope, visited)
	}
}

// lookupPaletteID resolves a palette reference during character lookup.
// For weighted groups the id chosen at parameter-resolution time is reused
// when the computed tree recorded one, so both phases agree.
func (r *Resolver) lookupPaletteID(ref cdda.MapObjectID, scope *ComputedParameters) (cdda.PaletteID, bool) {
	if ref.Kind == cdda.ObjectIDGrouped && scope != nil {
		for _, w := range ref.Group {
			if w.Value.IsParam() {
				continue
			}
			if id := cdda.PaletteID(w.Value.ID); scope.Child(id) != nil {
				return id, true
			}
		}
	}

	id, err := r.paletteRefID(ref, scope)
	if err != nil {
		return "", false
	}
	return id, true
}

// evalObjectID resolves a character mapping to an identifier, or nil when
// it cannot resolve. Misses are logged, never fatal.
func (r *Resolver) evalObjectID(obj cdda.MapObjectID, scope *ComputedParameters) *cdda.TileID {
	switch obj.Kind {
	case cdda.ObjectIDSingle:
		return r.evalMaybeParam(obj.Single.Value, scope)

	case cdda.ObjectIDGrouped:
		weights := make([]int, len(obj.Group))
		for i, w := range obj.Group {
			weights[i] = w.Weight
		}
		i := random.PickIndex(r.Rng, weights)
		if i < 0 {
			return nil
		}
		return r.evalMaybeParam(obj.Group[i].Value, scope)

	case cdda.ObjectIDParam:
		if val, ok := scope.Value(cdda.ParameterID(obj.Param.Param)); ok {
			id := cdda.TileID(val)
			return &id
		}
		if obj.Param.Fallback != "" {
			id := cdda.TileID(obj.Param.Fallback)
			return &id
		}
		logger.Warning("unresolved parameter in character mapping", "param", obj.Param.Param)
		return nil

	case cdda.ObjectIDSwitch:
		val, ok := switchLookup(scope, obj.Switch, obj.Cases)
		if !ok {
			logger.Warning("unresolved switch in character mapping", "param", obj.Switch.Param)
			return nil
		}
		id := cdda.TileID(val)
		return &id

	case cdda.ObjectIDNested:
		// Grid expansion only has meaning inside a palette body.
		logger.Warning("nested map object outside a palette body")
		return nil

	default:
		return nil
	}
}

// evalMaybeParam resolves a literal-or-parameter value to an identifier.
func (r *Resolver) evalMaybeParam(v cdda.MaybeParam, scope *ComputedParameters) *cdda.TileID {
	if !v.IsParam() {
		id := v.ID
		return &id
	}
	if val, ok := scope.Value(cdda.ParameterID(v.Param.Param)); ok {
		id := cdda.TileID(val)
		return &id
	}
	if v.Param.Fallback != "" {
		id := cdda.TileID(v.Param.Fallback)
		return &id
	}
	logger.Warning("unresolved parameter reference", "param", v.Param.Param)
	return nil
}
