// Package event resolves room events against the player: HP and coin
// deltas, temporary buffs, and optional Lua-scripted adjustments.
package event

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/item"
	"github.com/procha/masmorra/internal/scripting"
)

// Result reports what an event did to the player.
type Result struct {
	Title    string
	Messages []string
	// Applied is false when a cost-gated event was skipped entirely.
	Applied bool
	// CoinsGained is the bronze credited (never the debit), for run stats.
	CoinsGained int
}

// Resolver applies events from the catalog.
type Resolver struct {
	reg    *content.Registry
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: reg and logger must be non-nil.
func NewResolver(reg *content.Registry, logger *zap.Logger) *Resolver {
	return &Resolver{reg: reg, logger: logger}
}

// Trigger resolves the event with the given id against ch at the given
// depth. Positive coin gains are scaled by coinMult (minimum 1 when the
// base gain was positive). A negative coin delta is all-or-nothing: when
// the wallet cannot cover it, nothing is applied — no HP change, no debit —
// and the result reports the refusal.
//
// Postcondition: unknown event ids resolve to a harmless "nothing happens".
func (r *Resolver) Trigger(id string, ch *character.Character, depth int, coinMult float64) Result {
	def, ok := r.reg.Event(id)
	if !ok {
		return Result{Title: "EVENTO", Messages: []string{"Nada acontece."}, Applied: true}
	}

	hpDelta := def.Effects.HP
	coinDelta := def.Effects.Coins
	scriptMsg := ""

	if def.Script != "" {
		out, err := scripting.RunEventScript(def.Script, scripting.EventInput{
			HPDelta:     hpDelta,
			CoinDelta:   coinDelta,
			PlayerHP:    ch.HP,
			PlayerMaxHP: ch.MaxHP,
			PlayerLevel: ch.Level,
			Depth:       depth,
		})
		if err != nil {
			// A broken script falls back to the declared effects.
			r.logger.Warn("script de evento falhou", zap.String("evento", def.ID), zap.Error(err))
		} else {
			hpDelta = out.HPDelta
			coinDelta = out.CoinDelta
			scriptMsg = out.Message
		}
	}

	result := Result{Title: upperOrDefault(def.Name, def.ID)}
	if def.Description != "" {
		result.Messages = append(result.Messages, def.Description)
	}
	if scriptMsg != "" {
		result.Messages = append(result.Messages, scriptMsg)
	}

	if coinDelta < 0 && !ch.Wallet.Covers(-coinDelta) {
		result.Messages = append(result.Messages,
			"Você não tem moedas suficientes. A oportunidade passa sem deixar nada.")
		return result
	}

	if hpDelta != 0 {
		ch.AdjustHP(hpDelta)
		if hpDelta > 0 {
			result.Messages = append(result.Messages, fmt.Sprintf("Você recuperou %d de HP.", hpDelta))
		} else {
			result.Messages = append(result.Messages, fmt.Sprintf("Você perdeu %d de HP.", -hpDelta))
		}
	}

	if coinDelta < 0 {
		ch.Wallet.Spend(-coinDelta)
		result.Messages = append(result.Messages,
			fmt.Sprintf("Você pagou %s.", item.FormatPrice(-coinDelta)))
	} else if coinDelta > 0 {
		gained := int(float64(coinDelta) * maxFloat(0, coinMult))
		if gained == 0 {
			gained = 1
		}
		ch.Wallet.Receive(gained)
		result.CoinsGained = gained
		result.Messages = append(result.Messages,
			fmt.Sprintf("Você recebeu %s.", item.FormatPrice(gained)))
	}

	for _, buff := range def.Effects.Buffs {
		if !ch.AddStatus(buff.Attribute, buff.Value, buff.Combats, buff.Message) {
			continue
		}
		msg := buff.Message
		if msg == "" {
			msg = fmt.Sprintf("%+d de %s por %d combates.", buff.Value, buff.Attribute, buff.Combats)
		}
		result.Messages = append(result.Messages, msg)
	}

	result.Applied = true
	return result
}

func upperOrDefault(name, id string) string {
	if name == "" {
		name = id
	}
	return strings.ToUpper(name)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
