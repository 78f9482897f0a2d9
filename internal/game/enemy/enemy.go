// Package enemy provides the Enemy type and the depth/difficulty-aware
// enemy generator.
package enemy

import (
	"errors"
	"fmt"

	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/rng"
)

// Enemy is a live combatant generated from a template. It is owned by the
// room that spawned it until defeated.
type Enemy struct {
	Name     string `json:"nome"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"hp_max"`
	Attack   int    `json:"ataque"`
	Defense  int    `json:"defesa"`
	XPReward int    `json:"xp_recompensa"`
	// DropRarity selects the loot pool rolled on defeat.
	DropRarity string `json:"drop_raridade"`
	// DropItem, when set, names a guaranteed drop looked up by name.
	DropItem string `json:"drop_item_nome,omitempty"`
}

// IsAlive reports whether the enemy still has hit points.
func (e *Enemy) IsAlive() bool { return e.HP > 0 }

// ApplyDamage reduces HP by amount, flooring at zero.
//
// Precondition: amount >= 0.
func (e *Enemy) ApplyDamage(amount int) {
	e.HP -= amount
	if e.HP < 0 {
		e.HP = 0
	}
}

// ErrNoTemplates is returned when a random enemy is requested but the
// catalog holds no non-boss templates.
var ErrNoTemplates = errors.New("enemy: nenhum inimigo disponível para geração aleatória")

// Options refine a Generate call.
type Options struct {
	// TypeHint selects a known template by id; ignored when unknown.
	TypeHint string
	// Profile applies difficulty multipliers when non-nil.
	Profile *balance.DifficultyProfile
	// Boss applies the depth boss bonuses.
	Boss bool
	// BossProfile overrides template selection and display name for bosses.
	BossProfile *content.BossDef
	// Theme triples the selection weight of templates tagged with it.
	Theme string
}

// Generator builds scaled enemies from the template catalog.
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

// Generate builds an enemy scaled for the given dungeon depth.
//
// Template choice: the boss profile's type when present, else a known type
// hint, else a theme-weighted random pick among non-boss templates.
// HP, attack, and defense each receive the level factor and an independent
// ±12% jitter (floor 1); XP takes only the level factor (floor 1). Boss
// bonuses and difficulty multipliers are applied on top, defense flooring
// at 0 under difficulty scaling.
//
// Postcondition: the returned enemy's name is "<Nome> (Nível <depth>)".
func (g *Generator) Generate(depth int, opts Options) (*Enemy, error) {
	def, err := g.pickTemplate(opts)
	if err != nil {
		return nil, err
	}

	factor := balance.EnemyLevelFactor(depth)

	hp := g.jitter(int(float64(def.BaseHP) * factor))
	attack := g.jitter(int(float64(def.BaseAttack) * factor))
	defense := g.jitter(int(float64(def.BaseDefense) * factor))
	xp := int(float64(def.BaseXP) * factor)
	if xp < 1 {
		xp = 1
	}

	if opts.Boss {
		hpBonus, atkBonus, defBonus, xpMult := balance.BossBonus(depth)
		hp = int(float64(hp) * (1 + hpBonus))
		attack = int(float64(attack) * (1 + atkBonus))
		defense = int(float64(defense) * (1 + defBonus))
		xp = int(float64(xp) * xpMult)
	}

	if p := opts.Profile; p != nil {
		hp = floorAt(int(float64(hp)*p.EnemyHPMult), 1)
		attack = floorAt(int(float64(attack)*p.EnemyAttackMult), 1)
		defense = floorAt(int(float64(defense)*p.EnemyDefenseMult), 0)
		xp = floorAt(int(float64(xp)*p.XPRewardMult), 1)
	}

	name := def.Name
	if opts.Boss && opts.BossProfile != nil && opts.BossProfile.Name != "" {
		name = opts.BossProfile.Name
	}

	return &Enemy{
		Name:       fmt.Sprintf("%s (Nível %d)", name, depth),
		HP:         hp,
		MaxHP:      hp,
		Attack:     attack,
		Defense:    defense,
		XPReward:   xp,
		DropRarity: def.DropRarity,
		DropItem:   def.DropItem,
	}, nil
}

// pickTemplate resolves the template per the selection precedence.
func (g *Generator) pickTemplate(opts Options) (content.EnemyDef, error) {
	if opts.Boss && opts.BossProfile != nil {
		if def, ok := g.reg.EnemyTemplate(opts.BossProfile.Type); ok {
			return def, nil
		}
		return content.EnemyDef{}, fmt.Errorf("enemy: chefe %q aponta para template desconhecido %q",
			opts.BossProfile.ID, opts.BossProfile.Type)
	}
	if opts.TypeHint != "" {
		if def, ok := g.reg.EnemyTemplate(opts.TypeHint); ok {
			return def, nil
		}
	}

	candidates := g.reg.NonBossEnemies()
	if len(candidates) == 0 {
		return content.EnemyDef{}, ErrNoTemplates
	}
	if opts.Theme == "" {
		return rng.Pick(g.src, candidates), nil
	}
	weights := make([]int, len(candidates))
	for i, def := range candidates {
		weights[i] = 1
		for _, theme := range def.Themes {
			if theme == opts.Theme {
				weights[i] = balance.ThemeWeight
				break
			}
		}
	}
	return candidates[rng.WeightedIndex(g.src, weights)], nil
}

// jitter applies the independent ± attribute variation, flooring at 1.
func (g *Generator) jitter(value int) int {
	spread := rng.Uniform(g.src, -balance.AttributeJitter, balance.AttributeJitter)
	return floorAt(int(float64(value)*(1+spread)), 1)
}

func floorAt(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
