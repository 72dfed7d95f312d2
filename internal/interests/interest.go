package interests

import "fmt"

// Key identifies a learning track.
type Key string

const (
	Sports     Key = "sports"
	Science    Key = "science"
	English    Key = "english"
	Creativity Key = "creativity"
	Social     Key = "social"
	Math       Key = "math"
)

// All returns every interest key in display order.
func All() []Key {
	return []Key{Sports, Science, English, Creativity, Social, Math}
}

// DisplayName returns a human-readable name for the interest.
func (k Key) DisplayName() string {
	switch k {
	case Sports:
		return "Sports"
	case Science:
		return "Science"
	case English:
		return "English"
	case Creativity:
		return "Creativity"
	case Social:
		return "Social Studies"
	case Math:
		return "Math"
	default:
		return string(k)
	}
}

// Icon returns the display icon for the interest.
func (k Key) Icon() string {
	switch k {
	case Sports:
		return "⚽"
	case Science:
		return "🔬"
	case English:
		return "📖"
	case Creativity:
		return "🎨"
	case Social:
		return "🌍"
	case Math:
		return "➗"
	default:
		return "✦"
	}
}

// Valid reports whether k belongs to the closed set of interests.
func (k Key) Valid() bool {
	for _, known := range All() {
		if k == known {
			return true
		}
	}
	return false
}

// Parse converts a raw string into a Key.
func Parse(s string) (Key, error) {
	k := Key(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown interest %q", s)
	}
	return k, nil
}

// ParseAll converts raw strings into keys, failing on the first unknown one.
func ParseAll(raw []string) ([]Key, error) {
	keys := make([]Key, 0, len(raw))
	for _, s := range raw {
		k, err := Parse(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Strings converts keys back to their raw form.
func Strings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
