package util

import (
	"fmt"
	"strconv"
	"strings"
)

// Values in option maps come from decoded JSON or YAML documents, so numbers
// may arrive as int, int64, float64 or quoted strings.

func ParseString(src any) string {
	if src == nil {
		return ""
	}
	switch v := src.(type) {
	case string:
		return v
	case []uint8:
		return string(v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func ParseInt64(m any) (int64, bool) {
	switch val := m.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case uint64:
		return int64(val), true
	case []uint8:
		id64, err := strconv.ParseInt(string(val), 10, 64)
		return id64, err == nil
	case string:
		conv, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return conv, err == nil
	case float32:
		return int64(val), true
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

func ParseFloat(m any) (float64, bool) {
	switch val := m.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func ParseBool(m any) (bool, bool) {
	switch val := m.(type) {
	case bool:
		return val, true
	case int:
		return val != 0, true
	case int64:
		return val != 0, true
	case float64:
		return val != 0, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return b, err == nil
	default:
		return false, false
	}
}

// ParseStringSlice accepts a list of scalars or a single comma separated string.
func ParseStringSlice(m any) ([]string, bool) {
	switch val := m.(type) {
	case []string:
		return val, true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s := ParseString(item)
			if s == "" {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, true
		}
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out, true
	default:
		return nil, false
	}
}

// ParseMap returns nested maps from decoded documents.
func ParseMap(m any) (map[string]any, bool) {
	switch val := m.(type) {
	case map[string]any:
		return val, true
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[ParseString(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}
