package sportapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func getMap(src map[string]any, key string) map[string]any {
	if src == nil {
		return nil
	}
	out, _ := src[key].(map[string]any)
	return out
}

func getSlice(src map[string]any, key string) []any {
	if src == nil {
		return nil
	}
	out, _ := src[key].([]any)
	return out
}

// getString reads the first non-empty key; numeric ids are rendered without a fraction.
func getString(src map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := src[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			if v == math.Trunc(v) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int64:
			return strconv.FormatInt(v, 10)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// getInt64 accepts JSON numbers and numeric strings.
func getInt64(src map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		switch v := src[key].(type) {
		case float64:
			return int64(v), true
		case int64:
			return v, true
		case int:
			return int64(v), true
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func getBool(src map[string]any, key string) (bool, bool) {
	switch v := src[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return b, true
		}
	}
	return false, false
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func formatScore(home, away int64, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d-%d", home, away)
}
