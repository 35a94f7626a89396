package constraint

import "strconv"

// Rotation is the relative row offset of a column query: 0 reads the current
// row, -1 the previous one, 1 the next one. Row arithmetic wraps around the
// size of the matrix, so a rotation of -1 on row 0 reads row n-1.
type Rotation int

const (
	RotationPrev Rotation = -1
	RotationCur  Rotation = 0
	RotationNext Rotation = 1
)

func (r Rotation) String() string {
	if r >= 0 {
		return "+" + strconv.Itoa(int(r))
	}
	return strconv.Itoa(int(r))
}
