package quest

import (
	"fmt"
	"slices"

	"github.com/camuig/trade-quest/internal/journal"
)

type ShopItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// Catalog is the fixed list of items coins can buy. Each item is owned once.
var Catalog = []ShopItem{
	{ID: "title-apprentice", Name: "Apprentice Title", Description: "Show the Apprentice title on the dashboard.", Price: 50},
	{ID: "theme-dungeon", Name: "Dungeon Theme", Description: "Dark stone dashboard theme.", Price: 100},
	{ID: "theme-emerald", Name: "Emerald Theme", Description: "Green dashboard theme for green weeks.", Price: 100},
	{ID: "frame-gold", Name: "Golden Frame", Description: "Gold border around the level badge.", Price: 250},
	{ID: "pet-owl", Name: "Owl Companion", Description: "A wise owl that sits next to your journal.", Price: 400},
	{ID: "title-legend", Name: "Legend Title", Description: "Show the Legend title on the dashboard.", Price: 1000},
}

func FindItem(id string) (ShopItem, bool) {
	i := findIndex(Catalog, func(it ShopItem) bool { return it.ID == id })
	if i < 0 {
		return ShopItem{}, false
	}
	return Catalog[i], true
}

// Purchase spends coins on a catalog item and adds it to the inventory.
func (s *Service) Purchase(itemID string) (journal.PlayerStats, error) {
	item, ok := FindItem(itemID)
	if !ok {
		return journal.PlayerStats{}, fmt.Errorf("shop item %q: %w", itemID, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.store.Player()
	if err != nil {
		return journal.PlayerStats{}, err
	}
	if slices.Contains(player.Inventory, item.ID) {
		return player, ErrAlreadyOwned
	}
	if player.Coins < item.Price {
		return player, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCoins, item.Price, player.Coins)
	}

	player.Coins -= item.Price
	player.Inventory = append(player.Inventory, item.ID)
	if err := s.store.SavePlayer(player); err != nil {
		return journal.PlayerStats{}, err
	}
	s.logger.Info("item purchased", "item", item.ID, "price", item.Price, "coins_left", player.Coins)
	return player, nil
}
