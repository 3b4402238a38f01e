package cdda

import "encoding/json"

// ItemSpawn is a single item placement entry in a palette's "items" section.
type ItemSpawn struct {
	Item   ItemID    `json:"item"`
	Chance int       `json:"chance,omitempty"`
	Repeat *IntRange `json:"repeat,omitempty"`
}

// ItemSpawnList is an items entry that is authored as either a single spawn
// object or a list of them.
type ItemSpawnList []ItemSpawn

// UnmarshalJSON accepts a single object or a list.
func (l *ItemSpawnList) UnmarshalJSON(data []byte) error {
	var single ItemSpawn
	if err := json.Unmarshal(data, &single); err == nil && single.Item != "" {
		*l = ItemSpawnList{single}
		return nil
	}

	var many []ItemSpawn
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// MarshalJSON writes the single-object form for one-element lists.
func (l ItemSpawnList) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]ItemSpawn(l))
}
