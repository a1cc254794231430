package domain

// ItemCategory classifies shop items
type ItemCategory string

const (
	CategoryAvatar  ItemCategory = "avatar"
	CategoryTheme   ItemCategory = "theme"
	CategoryPowerup ItemCategory = "powerup"
	CategoryBadge   ItemCategory = "badge"
)

// ShopItem is a purchasable cosmetic or perk
type ShopItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int          `json:"price"` // coins
	Icon        string       `json:"icon"`
	Category    ItemCategory `json:"category"`
}
