package domain

import "errors"

// Taxonomy dimensions attachable to entities.
const (
	DimensionCamp     = "camp"
	DimensionLocation = "location"
	DimensionYear     = "year"
	DimensionAnimal   = "animal"
)

// ErrInvalidDimension is returned when a taxonomy dimension is not registered.
var ErrInvalidDimension = errors.New("invalid taxonomy dimension")

// Term is a single value of a taxonomy dimension, associated many-to-many
// with entities.
type Term struct {
	ID        int64  `json:"id"`
	Dimension string `json:"dimension"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// IsValidDimension reports whether d is a registered taxonomy dimension.
func IsValidDimension(d string) bool {
	switch d {
	case DimensionCamp, DimensionLocation, DimensionYear, DimensionAnimal:
		return true
	default:
		return false
	}
}
