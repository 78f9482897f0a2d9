package item

import (
	"strings"

	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/rng"
)

// Generator produces item drops from the catalog pools.
type Generator struct {
	reg *content.Registry
	src rng.Source
}

// NewGenerator creates a Generator over the given registry and source.
//
// Precondition: reg and src must be non-nil.
func NewGenerator(reg *content.Registry, src rng.Source) *Generator {
	return &Generator{reg: reg, src: src}
}

// Generate rolls an item of the given rarity. When allowSwap is set and a
// consumable pool exists, the drop is replaced by a consumable with the
// rarity's base chance plus consumableBonus (clamped to [0, 1]); an empty
// rarity pool always falls back to the consumable pool. Returns nil when no
// candidate pool has entries.
//
// Postcondition: the returned Item, if any, is an independent copy.
func (g *Generator) Generate(rarity string, allowSwap bool, consumableBonus float64) *Item {
	pool := g.reg.ItemsByRarity[rarity]

	if allowSwap && len(g.reg.Consumables) > 0 {
		chance := balance.ConsumableSwapChance(rarity) + consumableBonus
		if chance < 0 {
			chance = 0
		}
		if chance > 1 {
			chance = 1
		}
		if len(pool) == 0 || rng.Chance(g.src, chance) {
			pool = g.reg.Consumables
		}
	}

	if len(pool) == 0 {
		return nil
	}
	it := FromDef(rng.Pick(g.src, pool))
	return &it
}

// ByName looks an item up across every pool by case- and whitespace-
// insensitive exact name match. Used for guaranteed narrative and boss drops.
func (g *Generator) ByName(name string) *Item {
	want := normalizeName(name)
	if want == "" {
		return nil
	}
	for _, pool := range g.reg.ItemsByRarity {
		if it := findByName(pool, want); it != nil {
			return it
		}
	}
	return findByName(g.reg.Consumables, want)
}

func findByName(pool []content.ItemDef, want string) *Item {
	for _, def := range pool {
		if normalizeName(def.Name) == want {
			it := FromDef(def)
			return &it
		}
	}
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
