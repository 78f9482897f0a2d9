package plot

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/enemy"
	"github.com/procha/masmorra/internal/game/item"
	"github.com/procha/masmorra/internal/game/rng"
)

// Reward scaling for resolved plot rooms.
const (
	coinRewardBase     = 20
	coinRewardPerDepth = 15
	xpRewardBase       = 30
	xpRewardPerDepth   = 25
)

// Result reports the resolution of a plot room.
type Result struct {
	Title    string
	Messages []string
	// CombatStarted is true for the "corrompido" outcome: the room now
	// holds the corrupted enemy and the arc completes on its defeat.
	CombatStarted bool
	CoinsGained   int
	LevelsGained  int
}

// Engine resolves plot rooms and their consequences.
type Engine struct {
	reg     *content.Registry
	src     rng.Source
	enemies *enemy.Generator
	items   *item.Generator
	logger  *zap.Logger
}

// NewEngine creates a plot Engine.
//
// Precondition: every argument must be non-nil.
func NewEngine(reg *content.Registry, src rng.Source, enemies *enemy.Generator, items *item.Generator, logger *zap.Logger) *Engine {
	return &Engine{reg: reg, src: src, enemies: enemies, items: items, logger: logger}
}

// ResolveRoom resolves the plot room exactly once. The caller must gate on
// room.PlotResolved; this method sets it.
//
//   - "vivo": coins scaled by depth, arc completed, one consequence.
//   - "morto": XP scaled by depth (with level-up), arc completed, one
//     consequence.
//   - "corrompido": the room becomes combat-enabled with the arc's
//     corrupted enemy; the arc stays open until that enemy falls.
func (e *Engine) ResolveRoom(ch *character.Character, room *dungeon.Room, arc *Arc, depth int, profile balance.DifficultyProfile) Result {
	room.PlotResolved = true

	result := Result{Title: "TRAMA: " + arc.Name}
	if room.PlotText != "" {
		result.Messages = append(result.Messages, room.PlotText)
	}

	switch room.PlotOutcome {
	case content.OutcomeAlive:
		coins := coinRewardBase + coinRewardPerDepth*depth
		ch.Wallet.Receive(coins)
		result.CoinsGained = coins
		result.Messages = append(result.Messages,
			fmt.Sprintf("Em gratidão, você recebe %s.", item.FormatPrice(coins)))
		arc.Completed = true
		result.Messages = append(result.Messages, e.applyConsequence(ch, room, content.OutcomeAlive)...)

	case content.OutcomeDead:
		xp := xpRewardBase + xpRewardPerDepth*depth
		levelUp := ch.GainXP(xp)
		result.LevelsGained = levelUp.LevelsGained
		result.Messages = append(result.Messages,
			fmt.Sprintf("A jornada termina em silêncio. Você ganha %d de XP.", xp))
		arc.Completed = true
		result.Messages = append(result.Messages, e.applyConsequence(ch, room, content.OutcomeDead)...)

	case content.OutcomeCorrupted:
		room.CanHaveEnemy = true
		room.EnemyDefeated = false
		corrupted, err := e.enemies.Generate(depth, enemy.Options{
			TypeHint: room.CorruptedEnemyType,
			Profile:  &profile,
			Theme:    arc.Theme,
		})
		if err != nil {
			e.logger.Error("gerando inimigo corrompido", zap.Error(err))
			arc.Completed = true
			break
		}
		room.Enemy = corrupted
		result.CombatStarted = true
		result.Messages = append(result.Messages,
			fmt.Sprintf("A forma corrompida de %s se ergue diante de você!", corrupted.Name))

	default:
		// Unknown outcome: close the arc without effects.
		arc.Completed = true
	}

	return result
}

// CompleteCorrupted closes the arc after the corrupted enemy was defeated
// and applies the outcome's consequence.
//
// Postcondition: arc.Completed is true.
func (e *Engine) CompleteCorrupted(ch *character.Character, room *dungeon.Room, arc *Arc) []string {
	arc.Completed = true
	room.PlotResolved = true
	messages := []string{
		"Ao vencer a forma corrompida, você finalmente encerra este capítulo da jornada.",
	}
	return append(messages, e.applyConsequence(ch, room, content.OutcomeCorrupted)...)
}

// applyConsequence applies one random consequence tagged for the outcome.
// It is idempotent per room via PlotConsequenceApplied. A currency loss the
// player cannot afford skips the whole consequence with a narrative line.
func (e *Engine) applyConsequence(ch *character.Character, room *dungeon.Room, outcome string) []string {
	if room.PlotConsequenceApplied {
		return nil
	}
	var candidates []content.ConsequenceDef
	for _, c := range e.reg.Consequences {
		for _, o := range c.Outcomes {
			if o == outcome {
				candidates = append(candidates, c)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	room.PlotConsequenceApplied = true
	chosen := rng.Pick(e.src, candidates)

	var messages []string
	if chosen.Text != "" {
		messages = append(messages, chosen.Text)
	}

	switch chosen.Kind {
	case content.ConsequenceAttribute:
		switch chosen.Attribute {
		case character.AttrAttack:
			ch.BaseAttack += chosen.Delta
			if ch.BaseAttack < 0 {
				ch.BaseAttack = 0
			}
		case character.AttrDefense:
			ch.BaseDefense += chosen.Delta
			if ch.BaseDefense < 0 {
				ch.BaseDefense = 0
			}
		case character.AttrHP:
			ch.MaxHP += chosen.Delta
			if ch.MaxHP < 1 {
				ch.MaxHP = 1
			}
			if ch.HP > ch.MaxHP {
				ch.HP = ch.MaxHP
			}
		}
		ch.Recompute()
		messages = append(messages,
			fmt.Sprintf("%+d de %s permanente.", chosen.Delta, chosen.Attribute))

	case content.ConsequenceItem:
		if granted := e.items.ByName(chosen.ItemName); granted != nil {
			ch.Inventory = append(ch.Inventory, *granted)
			messages = append(messages, fmt.Sprintf("Você obteve: %s!", granted.Name))
		} else {
			e.logger.Warn("consequência aponta para item desconhecido",
				zap.String("item", chosen.ItemName))
		}

	case content.ConsequenceCurrency:
		if chosen.Coins >= 0 {
			ch.Wallet.Receive(chosen.Coins)
			messages = append(messages,
				fmt.Sprintf("Você recebeu %s.", item.FormatPrice(chosen.Coins)))
		} else if ch.Wallet.Spend(-chosen.Coins) {
			messages = append(messages,
				fmt.Sprintf("Você perdeu %s.", item.FormatPrice(-chosen.Coins)))
		} else {
			messages = append(messages,
				"A masmorra tentaria cobrar um preço, mas seus bolsos vazios a decepcionam.")
		}
	}

	return messages
}
