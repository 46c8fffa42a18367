package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Geometry is the compact ResX:ResY:FontSize:LineCount argument.
type Geometry struct {
	Width    int
	Height   int
	FontSize int
	Lanes    int
}

// ParseGeometry parses "ResX:ResY:FontSize:LineCount", e.g. "1280:720:32:6".
func ParseGeometry(s string) (Geometry, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 4 {
		return Geometry{}, fmt.Errorf(
			"invalid geometry %q: expected ResX:ResY:FontSize:LineCount",
			s,
		)
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v <= 0 {
			return Geometry{}, fmt.Errorf(
				"invalid geometry %q: %q is not a positive integer",
				s,
				part,
			)
		}
		values[i] = v
	}

	return Geometry{
		Width:    values[0],
		Height:   values[1],
		FontSize: values[2],
		Lanes:    values[3],
	}, nil
}
