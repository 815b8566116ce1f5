package core

import (
	"fmt"
	"strings"
	"time"
)

// ResolveLocation loads the zone used to render export timestamps.
// An empty name selects the process local zone.
func ResolveLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		// fall back so a bad setting never blocks an export
		return time.Local, fmt.Errorf("load timezone %s: %w", name, err)
	}
	return loc, nil
}
