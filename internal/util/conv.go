package util

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// MustParseUint returns 0 when s is not an unsigned integer.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	return uint(id)
}

// ParamID reads a positive numeric path parameter. Anything else is answered
// as not found, the same as an id that does not exist.
func ParamID(c *gin.Context, name string) (uint, error) {
	id := MustParseUint(c.Param(name))
	if id == 0 {
		return 0, NewNotFoundError(MsgNotFound)
	}
	return id, nil
}

// OptionalInt parses a form value, nil for blank input.
func OptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// OptionalBool parses a query flag, nil for blank input.
func OptionalBool(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	default:
		return nil
	}
}
