package item

import (
	"fmt"

	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/rng"
)

const (
	// BronzePerSilver is the number of bronze coins in one silver.
	BronzePerSilver = 10
	// BronzePerGold is the number of bronze coins in one gold (10 silver).
	BronzePerGold = 100
)

// Coins is the player's wallet. The stored value is always in bronze; gold
// and silver are display tiers only.
type Coins struct {
	Bronze int `json:"valor_bronze"`
}

// Decompose converts the total into display tiers.
//
// Postcondition: gold*100 + silver*10 + bronze == total (for total >= 0);
// 0 <= silver < 10; 0 <= bronze < 10.
func (c Coins) Decompose() (gold, silver, bronze int) {
	total := c.Bronze
	if total < 0 {
		total = 0
	}
	gold = total / BronzePerGold
	remainder := total % BronzePerGold
	silver = remainder / BronzePerSilver
	bronze = remainder % BronzePerSilver
	return gold, silver, bronze
}

// Format returns the wallet as "G Ouro, S Prata, B Bronze".
func (c Coins) Format() string {
	gold, silver, bronze := c.Decompose()
	return fmt.Sprintf("%d Ouro, %d Prata, %d Bronze", gold, silver, bronze)
}

// FormatPrice formats a standalone bronze amount the same way a wallet is shown.
func FormatPrice(bronze int) string {
	return Coins{Bronze: bronze}.Format()
}

// Receive adds value to the wallet. Negative values correct losses but the
// total never goes below zero.
func (c *Coins) Receive(value int) {
	c.Bronze += value
	if c.Bronze < 0 {
		c.Bronze = 0
	}
}

// Spend debits value if the wallet covers it.
//
// Precondition: value >= 0.
// Postcondition: Returns true and debits exactly value, or returns false
// leaving the wallet unchanged.
func (c *Coins) Spend(value int) bool {
	if value < 0 {
		panic("item: Spend called with negative value")
	}
	if c.Bronze < value {
		return false
	}
	c.Bronze -= value
	return true
}

// Covers reports whether the wallet holds at least value bronze.
func (c Coins) Covers(value int) bool {
	if value < 0 {
		value = 0
	}
	return c.Bronze >= value
}

// CoinDrop rolls the coin loot for defeating an enemy of the given drop
// rarity at the given dungeon depth. Deeper floors pay a scaling bonus.
//
// Postcondition: Returns >= the rarity's minimum.
func CoinDrop(src rng.Source, rarity string, depth int) int {
	minCoins, maxCoins := balance.CoinDropRange(rarity)
	base := rng.IntBetween(src, minCoins, maxCoins)
	extra := depth - 1
	if extra < 0 {
		extra = 0
	}
	return base + int(float64(base)*balance.CoinDropScaling*float64(extra))
}
