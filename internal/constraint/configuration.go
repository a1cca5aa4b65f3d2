package constraint

import "slices"

// Configuration is a robot configuration vector.
type Configuration []float64

// Clone returns a copy of q that does not share storage.
func (q Configuration) Clone() Configuration {
	return slices.Clone(q)
}

// Equal reports whether q and o hold exactly the same values.
func (q Configuration) Equal(o Configuration) bool {
	return slices.Equal(q, o)
}

// CopyFrom overwrites q with src. Both must have the same length.
func (q Configuration) CopyFrom(src Configuration) {
	copy(q, src)
}
