package mapgen

import "errors"

// Load- and resolve-phase failures. Non-fatal misses (an unmapped
// character, an unknown identifier) are not errors; they surface as absent
// identifiers and the caller falls through to the fallback sprite.
var (
	// ErrNotFound means no document in the mapgen file matched the
	// requested om_terrain id.
	ErrNotFound = errors.New("om_terrain not found")

	// ErrParse means a mapgen file could not be decoded.
	ErrParse = errors.New("mapgen parse error")

	// ErrUnresolvedPalette means a palette reference resolved to an id
	// missing from the loaded palette registry, or could not resolve at all.
	ErrUnresolvedPalette = errors.New("unresolved palette")

	// ErrUnresolvedParameter means a parameter reference had no computed
	// value and no fallback.
	ErrUnresolvedParameter = errors.New("unresolved parameter")
)
