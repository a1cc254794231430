package domain

// UserStats is the gamification ledger state. It is created once with
// zero values and mutated only through ledger and shop operations, each
// of which returns a new snapshot.
type UserStats struct {
	TotalXP       int      `json:"totalXp"` // monotonic, never decreases
	Coins         int      `json:"coins"`   // spendable currency
	CurrentStreak int      `json:"currentStreak"`
	LastStudyDate Date     `json:"lastStudyDate"` // zero value serializes as null
	Purchased     []string `json:"purchasedItems"`
	ActiveAvatar  string   `json:"activeAvatar"`
	DarkMode      bool     `json:"darkMode"`
}

// DefaultAvatar is the avatar assigned to fresh stats
const DefaultAvatar = "🦸"

// NewUserStats returns the zero-value stats record handed out on first use
func NewUserStats() UserStats {
	return UserStats{
		Purchased:    []string{},
		ActiveAvatar: DefaultAvatar,
	}
}

// Level derives the display level from XP: 100 XP per level, starting at 1
func (s UserStats) Level() int {
	return s.TotalXP/100 + 1
}

// XPToNextLevel returns how much XP is missing until the next level
func (s UserStats) XPToNextLevel() int {
	return 100 - s.TotalXP%100
}

// Owns reports whether the given shop item has been purchased
func (s UserStats) Owns(itemID string) bool {
	for _, id := range s.Purchased {
		if id == itemID {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the stats snapshot
func (s UserStats) Clone() UserStats {
	clone := s
	clone.Purchased = append([]string(nil), s.Purchased...)
	return clone
}
