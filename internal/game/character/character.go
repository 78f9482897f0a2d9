// Package character models the player: attributes, inventory, equipment,
// wallet, temporary statuses, and level progression.
package character

import (
	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/item"
)

// Equipment slot names. They match the item kinds that can occupy them.
const (
	SlotWeapon = content.ItemKindWeapon
	SlotShield = content.ItemKindShield
)

// Attribute names used by statuses, consequences, and consumable effects.
const (
	AttrHP      = "hp"
	AttrAttack  = "ataque"
	AttrDefense = "defesa"
)

// Status is a temporary attribute modifier that expires after a number of
// combats.
type Status struct {
	Attribute   string `json:"atributo"`
	Value       int    `json:"valor"`
	CombatsLeft int    `json:"combates_restantes"`
	Description string `json:"descricao,omitempty"`
}

// Motivation is the narrative hook assigned at creation. It drives plot
// arc selection.
type Motivation struct {
	ID          string `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
}

// Character is the player-controlled entity.
//
// Invariant: Attack and Defense are always derived from the base values
// plus equipment and statuses by Recompute; they are never accumulated.
// Invariant: 0 <= HP <= MaxHP.
type Character struct {
	Name  string `json:"nome"`
	Class string `json:"classe"`

	HP    int `json:"hp"`
	MaxHP int `json:"hp_max"`
	// Attack and Defense are the effective combat values.
	Attack  int `json:"ataque"`
	Defense int `json:"defesa"`
	// BaseAttack and BaseDefense grow only with levels and permanent
	// consequences; floor transitions never reset them.
	BaseAttack  int `json:"ataque_base"`
	BaseDefense int `json:"defesa_base"`

	X int `json:"x"`
	Y int `json:"y"`

	Level       int `json:"nivel"`
	XP          int `json:"xp_atual"`
	XPThreshold int `json:"xp_para_proximo_nivel"`

	Inventory []item.Item           `json:"inventario"`
	Equipment map[string]*item.Item `json:"equipamento"`
	Wallet    item.Coins            `json:"carteira"`
	Statuses  []Status              `json:"status_temporarios"`

	Motivation *Motivation `json:"motivacao,omitempty"`
}

// New creates a level-1 character of the given class.
//
// Postcondition: HP == MaxHP == class HP; effective stats equal base stats;
// inventory empty; both equipment slots present and empty.
func New(name string, class content.ClassDef) *Character {
	c := &Character{
		Name:        name,
		Class:       class.Name,
		HP:          class.HP,
		MaxHP:       class.HP,
		BaseAttack:  class.Attack,
		BaseDefense: class.Defense,
		Level:       1,
		XP:          0,
		XPThreshold: balance.InitialXPThreshold,
		Inventory:   []item.Item{},
		Equipment:   map[string]*item.Item{SlotWeapon: nil, SlotShield: nil},
	}
	c.Recompute()
	return c
}

// IsAlive reports whether the character still has hit points.
func (c *Character) IsAlive() bool { return c.HP > 0 }

// ApplyDamage reduces HP by amount, flooring at zero.
//
// Precondition: amount >= 0.
func (c *Character) ApplyDamage(amount int) {
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
}

// Heal raises HP by amount, capped at MaxHP. Negative amounts are ignored.
func (c *Character) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}

// AdjustHP applies a signed HP delta clamped to [0, MaxHP].
func (c *Character) AdjustHP(delta int) {
	c.HP += delta
	if c.HP < 0 {
		c.HP = 0
	}
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}

// Recompute rebuilds the effective attack and defense from base values,
// equipment bonuses, and active statuses. Call after any change to
// equipment, statuses, or base attributes.
//
// Postcondition: Attack >= 0 and Defense >= 0; repeated calls with the same
// state produce the same result (no drift).
func (c *Character) Recompute() {
	c.Attack = c.BaseAttack
	c.Defense = c.BaseDefense

	for _, slot := range []string{SlotWeapon, SlotShield} {
		if eq := c.Equipment[slot]; eq != nil {
			c.Attack += eq.BonusFor(AttrAttack)
			c.Defense += eq.BonusFor(AttrDefense)
		}
	}
	for _, st := range c.Statuses {
		switch st.Attribute {
		case AttrAttack:
			c.Attack += st.Value
		case AttrDefense:
			c.Defense += st.Value
		}
	}

	if c.Attack < 0 {
		c.Attack = 0
	}
	if c.Defense < 0 {
		c.Defense = 0
	}
}

// Equip moves it from the inventory index into its slot, returning any
// previously equipped item to the inventory.
//
// Precondition: index must address an equipment item in the inventory.
// Postcondition: effective stats are recomputed.
func (c *Character) Equip(index int) bool {
	if index < 0 || index >= len(c.Inventory) {
		return false
	}
	it := c.Inventory[index]
	if !it.IsEquipment() {
		return false
	}
	c.Inventory = append(c.Inventory[:index], c.Inventory[index+1:]...)
	if prev := c.Equipment[it.Kind]; prev != nil {
		c.Inventory = append(c.Inventory, *prev)
	}
	equipped := it
	c.Equipment[it.Kind] = &equipped
	c.Recompute()
	return true
}

// Unequip clears the given slot, returning the item to the inventory.
func (c *Character) Unequip(slot string) bool {
	eq := c.Equipment[slot]
	if eq == nil {
		return false
	}
	c.Inventory = append(c.Inventory, *eq)
	c.Equipment[slot] = nil
	c.Recompute()
	return true
}

// UseConsumable applies the consumable at the inventory index and removes
// it. Only the HP effect heals immediately; attack/defense effects become
// permanent base adjustments.
//
// Postcondition: Returns false and leaves state unchanged when index does
// not address a consumable.
func (c *Character) UseConsumable(index int) bool {
	if index < 0 || index >= len(c.Inventory) {
		return false
	}
	it := c.Inventory[index]
	if !it.IsConsumable() {
		return false
	}
	c.Inventory = append(c.Inventory[:index], c.Inventory[index+1:]...)
	if hp := it.EffectFor(AttrHP); hp != 0 {
		c.AdjustHP(hp)
	}
	if atk := it.EffectFor(AttrAttack); atk != 0 {
		c.BaseAttack += atk
	}
	if def := it.EffectFor(AttrDefense); def != 0 {
		c.BaseDefense += def
	}
	c.Recompute()
	return true
}

// AddStatus registers a temporary attribute modifier lasting the given
// number of combats. Zero-value or non-positive-duration statuses are
// rejected.
func (c *Character) AddStatus(attribute string, value, combats int, description string) bool {
	if attribute != AttrAttack && attribute != AttrDefense {
		return false
	}
	if value == 0 || combats <= 0 {
		return false
	}
	c.Statuses = append(c.Statuses, Status{
		Attribute:   attribute,
		Value:       value,
		CombatsLeft: combats,
		Description: description,
	})
	c.Recompute()
	return true
}

// TickStatuses decrements every status by n combats, drops the expired
// ones, and recomputes the effective stats.
func (c *Character) TickStatuses(n int) {
	if n <= 0 || len(c.Statuses) == 0 {
		return
	}
	active := c.Statuses[:0]
	for _, st := range c.Statuses {
		st.CombatsLeft -= n
		if st.CombatsLeft > 0 {
			active = append(active, st)
		}
	}
	c.Statuses = active
	c.Recompute()
}

// LevelUpResult summarizes the levels gained by one XP check.
type LevelUpResult struct {
	LevelsGained int
	NewLevel     int
}

// GainXP adds xp and resolves any pending level-ups. The loop handles
// multi-level jumps from a single large grant: each level consumes the
// current threshold, grows it by 1.5× (floored), grants the fixed attribute
// gains, and fully restores HP.
//
// Postcondition: XP < XPThreshold; effective stats recomputed when at least
// one level was gained.
func (c *Character) GainXP(xp int) LevelUpResult {
	if xp > 0 {
		c.XP += xp
	}
	return c.CheckLevelUp()
}

// CheckLevelUp resolves pending level-ups without granting XP. With
// insufficient XP it changes nothing.
func (c *Character) CheckLevelUp() LevelUpResult {
	result := LevelUpResult{NewLevel: c.Level}
	for c.XP >= c.XPThreshold {
		c.Level++
		c.XP -= c.XPThreshold
		c.XPThreshold = int(float64(c.XPThreshold) * balance.XPThresholdGrowth)

		c.MaxHP += balance.LevelUpHPGain
		c.HP = c.MaxHP
		c.BaseAttack += balance.LevelUpAttackGain
		c.BaseDefense += balance.LevelUpDefenseGain

		result.LevelsGained++
	}
	if result.LevelsGained > 0 {
		c.Recompute()
	}
	result.NewLevel = c.Level
	return result
}

// ConsumableIndexes returns the inventory indexes of every consumable.
func (c *Character) ConsumableIndexes() []int {
	var out []int
	for i, it := range c.Inventory {
		if it.IsConsumable() {
			out = append(out, i)
		}
	}
	return out
}

// EquipmentIndexes returns the inventory indexes of every equippable item.
func (c *Character) EquipmentIndexes() []int {
	var out []int
	for i, it := range c.Inventory {
		if it.IsEquipment() {
			out = append(out, i)
		}
	}
	return out
}
