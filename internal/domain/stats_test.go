package domain

import "testing"

func TestNewUserStats(t *testing.T) {
	s := NewUserStats()

	if s.TotalXP != 0 || s.Coins != 0 || s.CurrentStreak != 0 {
		t.Errorf("NewUserStats() = %+v, want zero counters", s)
	}
	if !s.LastStudyDate.IsZero() {
		t.Error("LastStudyDate should start unset")
	}
	if s.ActiveAvatar != DefaultAvatar {
		t.Errorf("ActiveAvatar = %q, want %q", s.ActiveAvatar, DefaultAvatar)
	}
}

func TestUserStats_Level(t *testing.T) {
	tests := []struct {
		xp        int
		wantLevel int
		wantNext  int
	}{
		{0, 1, 100},
		{50, 1, 50},
		{100, 2, 100},
		{250, 3, 50},
	}

	for _, tt := range tests {
		s := UserStats{TotalXP: tt.xp}
		if got := s.Level(); got != tt.wantLevel {
			t.Errorf("Level() with %d XP = %d, want %d", tt.xp, got, tt.wantLevel)
		}
		if got := s.XPToNextLevel(); got != tt.wantNext {
			t.Errorf("XPToNextLevel() with %d XP = %d, want %d", tt.xp, got, tt.wantNext)
		}
	}
}

func TestUserStats_Owns(t *testing.T) {
	s := UserStats{Purchased: []string{"dark_mode", "avatar_wizard"}}

	if !s.Owns("dark_mode") {
		t.Error("Owns(dark_mode) = false, want true")
	}
	if s.Owns("avatar_robot") {
		t.Error("Owns(avatar_robot) = true, want false")
	}
}

func TestUserStats_Clone_Independent(t *testing.T) {
	s := UserStats{Purchased: []string{"a"}}
	clone := s.Clone()
	clone.Purchased = append(clone.Purchased, "b")
	clone.Coins = 10

	if len(s.Purchased) != 1 {
		t.Errorf("len(original.Purchased) = %d, want 1", len(s.Purchased))
	}
	if s.Coins != 0 {
		t.Errorf("original.Coins = %d, want 0", s.Coins)
	}
}
