package config

import (
	"fmt"
	"strconv"
	"strings"
)

var memoryUnits = []struct {
	suffix string
	factor uint64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"G", 1 << 30},
	{"M", 1 << 20},
	{"K", 1 << 10},
	{"B", 1},
}

// ParseMemoryLimit parses a size such as "512MB", "2G" or "1048576" into bytes.
// Units are binary (1K = 1024).
func ParseMemoryLimit(s string) (uint64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return 0, fmt.Errorf("empty memory limit")
	}
	factor := uint64(1)
	for _, u := range memoryUnits {
		if strings.HasSuffix(v, u.suffix) {
			factor = u.factor
			v = strings.TrimSpace(strings.TrimSuffix(v, u.suffix))
			break
		}
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory limit %q", s)
	}
	if n == 0 {
		return 0, fmt.Errorf("memory limit must be positive")
	}
	return n * factor, nil
}
