package cdda

import (
	"encoding/json"
	"fmt"
)

// ParamRef is a reference to a named parameter, with an optional fallback
// used when the parameter is unresolved.
type ParamRef struct {
	Param    string `json:"param"`
	Fallback string `json:"fallback,omitempty"`
}

// MaybeParam is a value that is either a literal identifier or a parameter
// reference. Exactly one of ID and Param is set.
type MaybeParam struct {
	ID    TileID
	Param *ParamRef
}

// IsParam reports whether the value is a parameter reference
func (m MaybeParam) IsParam() bool {
	return m.Param != nil
}

// UnmarshalJSON accepts a plain string or a {"param": ..., "fallback": ...}
// object.
func (m *MaybeParam) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.ID = TileID(s)
		m.Param = nil
		return nil
	}

	var ref ParamRef
	if err := json.Unmarshal(data, &ref); err == nil && ref.Param != "" {
		m.ID = ""
		m.Param = &ref
		return nil
	}

	return fmt.Errorf("value %s is neither an identifier nor a parameter reference", data)
}

// MarshalJSON writes back the original shape.
func (m MaybeParam) MarshalJSON() ([]byte, error) {
	if m.Param != nil {
		return json.Marshal(m.Param)
	}
	return json.Marshal(string(m.ID))
}

// WeightedValue pairs a MaybeParam with a selection weight. Plain entries
// parse with weight 1; authored weights may be zero.
type WeightedValue struct {
	Value  MaybeParam
	Weight int
}

// weightedObject is the authored {"value": ..., "weight": ...} form. Tileset
// descriptors use "sprite" instead of "value".
type weightedObject struct {
	Value  *MaybeParam `json:"value"`
	Sprite *MaybeParam `json:"sprite"`
	Weight int         `json:"weight"`
}

// UnmarshalJSON accepts a plain value or a weighted object.
func (w *WeightedValue) UnmarshalJSON(data []byte) error {
	var obj weightedObject
	if err := json.Unmarshal(data, &obj); err == nil && (obj.Value != nil || obj.Sprite != nil) {
		if obj.Value != nil {
			w.Value = *obj.Value
		} else {
			w.Value = *obj.Sprite
		}
		w.Weight = obj.Weight
		return nil
	}

	if err := json.Unmarshal(data, &w.Value); err != nil {
		return err
	}
	w.Weight = 1
	return nil
}

// MarshalJSON writes the weighted object form for authored weights and the
// plain form for weight-1 entries.
func (w WeightedValue) MarshalJSON() ([]byte, error) {
	if w.Weight == 1 {
		return json.Marshal(w.Value)
	}
	return json.Marshal(struct {
		Value  MaybeParam `json:"value"`
		Weight int        `json:"weight"`
	}{w.Value, w.Weight})
}

// WeightedString pairs a plain string with a selection weight; used in
// parameter distributions.
type WeightedString struct {
	Value  string
	Weight int
}

// UnmarshalJSON accepts a plain string or a weighted object.
func (w *WeightedString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		w.Value = s
		w.Weight = 1
		return nil
	}

	var obj struct {
		Value  *string `json:"value"`
		Sprite *string `json:"sprite"`
		Weight int     `json:"weight"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && (obj.Value != nil || obj.Sprite != nil) {
		if obj.Value != nil {
			w.Value = *obj.Value
		} else {
			w.Value = *obj.Sprite
		}
		w.Weight = obj.Weight
		return nil
	}

	return fmt.Errorf("value %s is not a weighted string", data)
}

// MarshalJSON writes the plain form for weight-1 entries.
func (w WeightedString) MarshalJSON() ([]byte, error) {
	if w.Weight == 1 {
		return json.Marshal(w.Value)
	}
	return json.Marshal(struct {
		Value  string `json:"value"`
		Weight int    `json:"weight"`
	}{w.Value, w.Weight})
}

// IntRange is a number that is authored either as a single value or as a
// [min, max] pair.
type IntRange struct {
	Min int
	Max int
}

// UnmarshalJSON accepts a bare number or a two-element array.
func (r *IntRange) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		r.Min = n
		r.Max = n
		return nil
	}

	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("number range has %d elements, want 2", len(pair))
	}
	r.Min = pair[0]
	r.Max = pair[1]
	return nil
}

// MarshalJSON writes a bare number for degenerate ranges.
func (r IntRange) MarshalJSON() ([]byte, error) {
	if r.Min == r.Max {
		return json.Marshal(r.Min)
	}
	return json.Marshal([2]int{r.Min, r.Max})
}
