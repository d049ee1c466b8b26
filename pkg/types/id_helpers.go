package types

import (
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("invalid course id")

// ParseID parses a positive decimal course id in canonical form: no sign,
// no leading zeros, no surrounding space.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 || FormatID(id) != s {
		return 0, ErrInvalidID
	}
	return id, nil
}

// FormatID renders a course id the way ParseID accepts it.
func FormatID(id int64) string { return strconv.FormatInt(id, 10) }
