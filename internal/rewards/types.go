package rewards

// Type is the category of a goodie.
type Type string

const (
	TypeBadge   Type = "badge"
	TypeTrophy  Type = "trophy"
	TypeSticker Type = "sticker"
	TypeAvatar  Type = "avatar"
	TypeReal    Type = "real"
)

// AllTypes returns all goodie types in display order.
func AllTypes() []Type {
	return []Type{TypeBadge, TypeTrophy, TypeSticker, TypeAvatar, TypeReal}
}

// DisplayName returns a human-readable label for the goodie type.
func (t Type) DisplayName() string {
	switch t {
	case TypeBadge:
		return "Badge"
	case TypeTrophy:
		return "Trophy"
	case TypeSticker:
		return "Sticker"
	case TypeAvatar:
		return "Avatar"
	case TypeReal:
		return "Real-world"
	default:
		return string(t)
	}
}

// Celebrated reports whether crossing a goodie of this type is celebrated
// when it happens.
func (t Type) Celebrated() bool {
	return t == TypeBadge || t == TypeTrophy
}

// Goodie is a reward tier. ID doubles as the credit threshold that unlocks it.
type Goodie struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Threshold returns the credits needed to unlock the goodie.
func (g Goodie) Threshold() int { return g.ID }

// Claimable reports whether the goodie is a real-world item that must be claimed.
func (g Goodie) Claimable() bool { return g.Type == TypeReal }

// Status is a goodie as seen by one learner.
type Status struct {
	Goodie
	Unlocked bool `json:"unlocked"`
	Claimed  bool `json:"claimed"`
}
