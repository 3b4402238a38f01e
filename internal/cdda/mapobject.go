package cdda

import (
	"encoding/json"
	"fmt"
)

// ObjectIDKind tags the variant of a MapObjectID.
type ObjectIDKind int

const (
	ObjectIDSingle ObjectIDKind = iota
	ObjectIDGrouped
	ObjectIDNested
	ObjectIDParam
	ObjectIDSwitch
)

// String returns the string representation of an ObjectIDKind
func (k ObjectIDKind) String() string {
	switch k {
	case ObjectIDSingle:
		return "single"
	case ObjectIDGrouped:
		return "grouped"
	case ObjectIDNested:
		return "nested"
	case ObjectIDParam:
		return "param"
	case ObjectIDSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// SwitchRef is the inner object of a switch dispatch.
type SwitchRef struct {
	Param    string `json:"param"`
	Fallback string `json:"fallback,omitempty"`
}

// MapObjectID captures the format's ambiguous value grammar for character
// mappings and palette references. Exactly one variant field is populated,
// indicated by Kind.
type MapObjectID struct {
	Kind ObjectIDKind

	Single *WeightedValue
	Group  []WeightedValue
	Grid   [][]WeightedValue

	Param *ParamRef

	Switch *SwitchRef
	Cases  map[string]string
}

// SingleID creates a Single MapObjectID from a plain identifier.
func SingleID(id TileID) MapObjectID {
	return MapObjectID{
		Kind:   ObjectIDSingle,
		Single: &WeightedValue{Value: MaybeParam{ID: id}, Weight: 1},
	}
}

// UnmarshalJSON resolves the union by shape:
//
//	"t_wall"                          -> Single
//	{"param": ...}                    -> Param
//	{"switch": {...}, "cases": {...}} -> Switch
//	{"value"/"sprite": ..., ...}      -> Single (weighted)
//	[v, v, ...]                       -> Grouped
//	[[v, ...], [v, ...]]              -> Nested
func (o *MapObjectID) UnmarshalJSON(data []byte) error {
	*o = MapObjectID{}

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch v := probe.(type) {
	case string:
		o.Kind = ObjectIDSingle
		o.Single = &WeightedValue{Value: MaybeParam{ID: TileID(v)}, Weight: 1}
		return nil

	case map[string]any:
		if _, ok := v["switch"]; ok {
			var sw struct {
				Switch SwitchRef         `json:"switch"`
				Cases  map[string]string `json:"cases"`
			}
			if err := json.Unmarshal(data, &sw); err != nil {
				return err
			}
			o.Kind = ObjectIDSwitch
			o.Switch = &sw.Switch
			o.Cases = sw.Cases
			return nil
		}

		if _, ok := v["param"]; ok {
			var ref ParamRef
			if err := json.Unmarshal(data, &ref); err != nil {
				return err
			}
			o.Kind = ObjectIDParam
			o.Param = &ref
			return nil
		}

		var w WeightedValue
		if err := json.Unmarshal(data, &w); err != nil {
			return fmt.Errorf("object %s is not a map object id: %w", data, err)
		}
		o.Kind = ObjectIDSingle
		o.Single = &w
		return nil

	case []any:
		if len(v) > 0 {
			if _, nested := v[0].([]any); nested {
				var grid [][]WeightedValue
				if err := json.Unmarshal(data, &grid); err != nil {
					return err
				}
				o.Kind = ObjectIDNested
				o.Grid = grid
				return nil
			}
		}

		var group []WeightedValue
		if err := json.Unmarshal(data, &group); err != nil {
			return err
		}
		o.Kind = ObjectIDGrouped
		o.Group = group
		return nil

	default:
		return fmt.Errorf("value %s is not a map object id", data)
	}
}

// MarshalJSON writes back the authored shape of the variant.
func (o MapObjectID) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case ObjectIDSingle:
		return json.Marshal(o.Single)
	case ObjectIDGrouped:
		return json.Marshal(o.Group)
	case ObjectIDNested:
		return json.Marshal(o.Grid)
	case ObjectIDParam:
		return json.Marshal(o.Param)
	case ObjectIDSwitch:
		return json.Marshal(struct {
			Switch *SwitchRef        `json:"switch"`
			Cases  map[string]string `json:"cases"`
		}{o.Switch, o.Cases})
	default:
		return nil, fmt.Errorf("map object id has unknown kind %d", o.Kind)
	}
}
