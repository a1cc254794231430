// Package shop implements the coin store: a fixed catalog of cosmetic
// items purchasable with earned coins.
package shop

import (
	"fmt"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

// Catalog is the fixed set of purchasable items. Items are cosmetic
// only; nothing here affects progression or rewards.
var Catalog = []domain.ShopItem{
	{ID: "avatar_wizard", Name: "Wizard", Icon: "🧙", Price: 150, Category: domain.CategoryAvatar},
	{ID: "avatar_robot", Name: "Robot", Icon: "🤖", Price: 200, Category: domain.CategoryAvatar},
	{ID: "avatar_alien", Name: "Alien", Icon: "👽", Price: 250, Category: domain.CategoryAvatar},
	{ID: "avatar_ninja", Name: "Ninja", Icon: "🥷", Price: 300, Category: domain.CategoryAvatar},
	{ID: "dark_mode", Name: "Dark Mode", Icon: "🌙", Price: 100, Category: domain.CategoryTheme},
	{ID: "streak_shield", Name: "Streak Shield", Icon: "🛡️", Price: 500, Category: domain.CategoryPowerup},
	{ID: "badge_scholar", Name: "Scholar Badge", Icon: "🎓", Price: 400, Category: domain.CategoryBadge},
}

// Find returns the catalog item with the given id
func Find(itemID string) (domain.ShopItem, bool) {
	for _, item := range Catalog {
		if item.ID == itemID {
			return item, true
		}
	}
	return domain.ShopItem{}, false
}

// Purchase buys a catalog item, returning the new stats snapshot. It
// fails without effect when the item is unknown, already owned, or the
// coin balance does not cover the price. Avatar purchases activate the
// avatar immediately; buying the dark theme switches it on.
func Purchase(stats domain.UserStats, itemID string) (domain.UserStats, error) {
	item, ok := Find(itemID)
	if !ok {
		return stats, fmt.Errorf("purchase %q: %w", itemID, domain.ErrItemNotFound)
	}
	if stats.Owns(item.ID) {
		return stats, fmt.Errorf("purchase %q: %w", itemID, domain.ErrItemAlreadyOwned)
	}
	if stats.Coins < item.Price {
		return stats, fmt.Errorf("purchase %q for %d coins with balance %d: %w",
			itemID, item.Price, stats.Coins, domain.ErrNotEnoughCoins)
	}

	next := stats.Clone()
	next.Coins -= item.Price
	next.Purchased = append(next.Purchased, item.ID)

	switch item.Category {
	case domain.CategoryAvatar:
		next.ActiveAvatar = item.Icon
	case domain.CategoryTheme:
		if item.ID == "dark_mode" {
			next.DarkMode = true
		}
	}

	return next, nil
}

// SelectAvatar activates an already-owned avatar. The default avatar is
// always selectable.
func SelectAvatar(stats domain.UserStats, itemID string) (domain.UserStats, error) {
	if itemID == "" {
		next := stats.Clone()
		next.ActiveAvatar = domain.DefaultAvatar
		return next, nil
	}

	item, ok := Find(itemID)
	if !ok || item.Category != domain.CategoryAvatar {
		return stats, fmt.Errorf("select avatar %q: %w", itemID, domain.ErrItemNotFound)
	}
	if !stats.Owns(item.ID) {
		return stats, fmt.Errorf("select avatar %q: not owned: %w", itemID, domain.ErrItemNotFound)
	}

	next := stats.Clone()
	next.ActiveAvatar = item.Icon
	return next, nil
}
