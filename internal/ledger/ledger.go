// Package ledger computes the XP, coin and streak effects of learning
// activity. Time is always caller-supplied, so every computation is
// deterministic and replayable.
package ledger

import "github.com/felixgeelhaar/lernpfad/internal/domain"

// StarXP maps a star rating to the XP it earns. Coins earned equal XP
// before any streak bonus.
var StarXP = map[int]int{
	1: 10,
	2: 25,
	3: 50,
}

// MaxStreakBonus caps the coin bonus for extending a streak
const MaxStreakBonus = 50

// Reward breaks down what a single completion earned
type Reward struct {
	XP          int `json:"xp"`
	Coins       int `json:"coins"`
	StreakBonus int `json:"streakBonus"` // coins, already included in Coins
	Streak      int `json:"streak"`      // streak after this completion
}

// RecordCompletion applies one completion event to a stats snapshot and
// returns the new snapshot plus a reward breakdown. A zero-star
// completion earns nothing and returns the input unchanged.
//
// The streak is day-gated: repeated completions on the same calendar day
// all earn XP and coins, but only the first activity of a day can move
// the streak. Exactly one day since the last study extends the streak
// and pays a bonus of min(streak*5, 50) coins; a longer gap starts over
// at 1.
func RecordCompletion(stats domain.UserStats, stars int, today domain.Date) (domain.UserStats, Reward) {
	stars = domain.ClampStars(stars)
	xp, ok := StarXP[stars]
	if !ok {
		return stats, Reward{Streak: stats.CurrentStreak}
	}

	next := stats.Clone()
	reward := Reward{XP: xp, Coins: xp}

	switch {
	case today.Equal(next.LastStudyDate):
		// already studied today, streak untouched
	case next.LastStudyDate.IsZero():
		next.CurrentStreak = 1
		next.LastStudyDate = today
	case today.DaysSince(next.LastStudyDate) == 1:
		next.CurrentStreak++
		reward.StreakBonus = streakBonus(next.CurrentStreak)
		reward.Coins += reward.StreakBonus
		next.LastStudyDate = today
	default:
		next.CurrentStreak = 1
		next.LastStudyDate = today
	}

	next.TotalXP += reward.XP
	next.Coins += reward.Coins
	reward.Streak = next.CurrentStreak

	return next, reward
}

func streakBonus(streak int) int {
	bonus := streak * 5
	if bonus > MaxStreakBonus {
		return MaxStreakBonus
	}
	return bonus
}

// DecayOnLoad corrects a stale streak at read time: when more than one
// calendar day has passed since the last study, the streak shown to the
// caller is 0. LastStudyDate is deliberately left untouched so the next
// write persists the correction as a side effect instead of forcing a
// write on every read.
func DecayOnLoad(stats domain.UserStats, today domain.Date) domain.UserStats {
	if stats.LastStudyDate.IsZero() {
		return stats
	}
	if today.DaysSince(stats.LastStudyDate) > 1 {
		next := stats.Clone()
		next.CurrentStreak = 0
		return next
	}
	return stats
}
