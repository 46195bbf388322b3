package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle identifies an object inside one Catalog. The zero Handle means the
// object has not been registered.
type Handle uint64

// String renders the handle as upper-case hexadecimal, the way drawing files
// store it.
func (h Handle) String() string {
	return strings.ToUpper(strconv.FormatUint(uint64(h), 16))
}

// IsZero reports whether no handle has been assigned.
func (h Handle) IsZero() bool {
	return h == 0
}

// ParseHandle parses a hexadecimal handle. Case is ignored.
func ParseHandle(s string) (Handle, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: handle %q: %v", ErrInvalidArgument, s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: handle 0 is reserved", ErrInvalidArgument)
	}
	return Handle(v), nil
}
