package cdda

import (
	"encoding/json"
	"fmt"
)

// MapGenValueKind tags the variant of a MapGenValue.
type MapGenValueKind int

const (
	MapGenSimple MapGenValueKind = iota
	MapGenDistribution
	MapGenParam
	MapGenSwitch
)

// MapGenValue is the default of a parameter declaration: a fixed string, a
// weighted distribution, a reference to another parameter, or a switch.
type MapGenValue struct {
	Kind MapGenValueKind

	Simple       string
	Distribution []WeightedString

	Param *ParamRef

	Switch *SwitchRef
	Cases  map[string]string
}

// SimpleValue creates a fixed MapGenValue.
func SimpleValue(s string) MapGenValue {
	return MapGenValue{Kind: MapGenSimple, Simple: s}
}

// DistributionValue creates a weighted-distribution MapGenValue.
func DistributionValue(entries ...WeightedString) MapGenValue {
	return MapGenValue{Kind: MapGenDistribution, Distribution: entries}
}

// UnmarshalJSON resolves the union by shape.
func (v *MapGenValue) UnmarshalJSON(data []byte) error {
	*v = MapGenValue{}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Kind = MapGenSimple
		v.Simple = s
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("value %s is not a mapgen value", data)
	}

	if raw, ok := probe["distribution"]; ok {
		v.Kind = MapGenDistribution
		return json.Unmarshal(raw, &v.Distribution)
	}

	if _, ok := probe["switch"]; ok {
		var sw struct {
			Switch SwitchRef         `json:"switch"`
			Cases  map[string]string `json:"cases"`
		}
		if err := json.Unmarshal(data, &sw); err != nil {
			return err
		}
		v.Kind = MapGenSwitch
		v.Switch = &sw.Switch
		v.Cases = sw.Cases
		return nil
	}

	if _, ok := probe["param"]; ok {
		var ref ParamRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		v.Kind = MapGenParam
		v.Param = &ref
		return nil
	}

	return fmt.Errorf("object %s is not a mapgen value", data)
}

// MarshalJSON writes back the authored shape of the variant.
func (v MapGenValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case MapGenSimple:
		return json.Marshal(v.Simple)
	case MapGenDistribution:
		return json.Marshal(struct {
			Distribution []WeightedString `json:"distribution"`
		}{v.Distribution})
	case MapGenParam:
		return json.Marshal(v.Param)
	case MapGenSwitch:
		return json.Marshal(struct {
			Switch *SwitchRef        `json:"switch"`
			Cases  map[string]string `json:"cases"`
		}{v.Switch, v.Cases})
	default:
		return nil, fmt.Errorf("mapgen value has unknown kind %d", v.Kind)
	}
}

// Parameter is a named deferred value: a declarative type tag plus the
// default from which the concrete value is drawn at project-open.
type Parameter struct {
	Type    ParameterType `json:"type"`
	Default MapGenValue   `json:"default"`
}
