package transform

import "errors"

// ErrKeyCollision is returned when two flat keys imply conflicting structure,
// such as one key naming a leaf value at a path where another key requires a
// nested mapping.
var ErrKeyCollision = errors.New("flat keys imply conflicting structure at the same path")
