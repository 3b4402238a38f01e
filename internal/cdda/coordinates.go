package cdda

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is an integer cell position. It serializes as "x;y" so it can
// be used directly as a JSON object key in cell maps.
type Coordinates struct {
	X int
	Y int
}

// NewCoordinates creates a Coordinates value
func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

// String returns the "x;y" form
func (c Coordinates) String() string {
	return fmt.Sprintf("%d;%d", c.X, c.Y)
}

// MarshalText implements encoding.TextMarshaler so Coordinates works as a
// JSON map key.
func (c Coordinates) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the "x;y" form.
func (c *Coordinates) UnmarshalText(text []byte) error {
	before, after, found := strings.Cut(string(text), ";")
	if !found {
		return fmt.Errorf("coordinates %q: missing ';' separator", text)
	}

	x, err := strconv.Atoi(before)
	if err != nil {
		return fmt.Errorf("coordinates %q: invalid x: %w", text, err)
	}

	y, err := strconv.Atoi(after)
	if err != nil {
		return fmt.Errorf("coordinates %q: invalid y: %w", text, err)
	}

	c.X = x
	c.Y = y
	return nil
}

// North returns the coordinates one cell up
func (c Coordinates) North() Coordinates { return Coordinates{X: c.X, Y: c.Y - 1} }

// East returns the coordinates one cell right
func (c Coordinates) East() Coordinates { return Coordinates{X: c.X + 1, Y: c.Y} }

// South returns the coordinates one cell down
func (c Coordinates) South() Coordinates { return Coordinates{X: c.X, Y: c.Y + 1} }

// West returns the coordinates one cell left
func (c Coordinates) West() Coordinates { return Coordinates{X: c.X - 1, Y: c.Y} }

// Neighbors returns the 4-neighborhood in N, E, S, W order.
func (c Coordinates) Neighbors() [4]Coordinates {
	return [4]Coordinates{c.North(), c.East(), c.South(), c.West()}
}
