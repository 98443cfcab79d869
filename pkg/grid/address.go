package grid

import (
	"fmt"

	"github.com/matzehuels/gridboard/pkg/errors"
)

// Stride is the column stride used to pack (row, col) into an [Address].
// Columns must be strictly less than Stride.
const Stride = 1024

// Address identifies one grid cell. The zero value is not a valid address.
type Address int

// Encode packs a 1-based (row, col) pair into an Address.
func Encode(row, col int) (Address, error) {
	if row < 1 || col < 1 || col >= Stride {
		return 0, errors.New(errors.ErrCodeInvalidCoordinate,
			"cell (%d, %d) out of range: row and col must be >= 1 and col < %d", row, col, Stride)
	}
	return Address(row*Stride + col), nil
}

// MustEncode is like [Encode] but panics on invalid coordinates.
func MustEncode(row, col int) Address {
	a, err := Encode(row, col)
	if err != nil {
		panic(err)
	}
	return a
}

// Decode unpacks an address into its (row, col) pair.
func Decode(a Address) (row, col int) {
	return int(a) / Stride, int(a) % Stride
}

// Row returns the address's row.
func (a Address) Row() int { return int(a) / Stride }

// Col returns the address's column.
func (a Address) Col() int { return int(a) % Stride }

// Valid reports whether a decodes to legal coordinates.
func (a Address) Valid() bool { return a.Row() >= 1 && a.Col() >= 1 }

// String formats the address as "r<row>c<col>".
func (a Address) String() string {
	return fmt.Sprintf("r%dc%d", a.Row(), a.Col())
}
