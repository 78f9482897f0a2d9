// Package item provides the Item value type, the bronze-denominated coin
// wallet, and the rarity-driven item generator.
package item

import (
	"maps"

	"github.com/procha/masmorra/internal/content"
)

// Item is an immutable game item. Instances are copied, never shared:
// two drops of the same template are independent values.
type Item struct {
	Name        string         `json:"nome"`
	Kind        string         `json:"tipo"`
	Description string         `json:"descricao"`
	Bonus       map[string]int `json:"bonus,omitempty"`
	Effect      map[string]int `json:"efeito,omitempty"`
	Price       int            `json:"preco_bronze"`
}

// FromDef builds an Item from a catalog definition, deep-copying the maps so
// the catalog can never be mutated through a generated item.
func FromDef(def content.ItemDef) Item {
	return Item{
		Name:        def.Name,
		Kind:        def.Kind,
		Description: def.Description,
		Bonus:       maps.Clone(def.Bonus),
		Effect:      maps.Clone(def.Effect),
		Price:       def.Price,
	}
}

// IsEquipment reports whether the item occupies an equipment slot.
func (i Item) IsEquipment() bool {
	return i.Kind == content.ItemKindWeapon || i.Kind == content.ItemKindShield
}

// IsConsumable reports whether the item is used up on activation.
func (i Item) IsConsumable() bool {
	return i.Kind == content.ItemKindConsumable
}

// BonusFor returns the equipment bonus for the given attribute, 0 if absent.
func (i Item) BonusFor(attribute string) int {
	return i.Bonus[attribute]
}

// EffectFor returns the one-shot effect for the given attribute, 0 if absent.
func (i Item) EffectFor(attribute string) int {
	return i.Effect[attribute]
}
