package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrIndexRange is returned for an index that has no uint32 position.
var ErrIndexRange = errors.New("conv: index out of range")

// Index converts a column index to its bitmap position.
func Index(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrIndexRange, v)
	}
	// On 64-bit systems, int can exceed uint32 max; on 32-bit, this is always false
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrIndexRange, v, uint32(math.MaxUint32))
	}
	return uint32(v), nil
}
