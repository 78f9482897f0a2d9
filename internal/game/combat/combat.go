// Package combat implements the turn-based battle resolver. It owns no UI
// and no inventory logic: actions arrive as raw input strings from an
// injected prompter, and item use is delegated to an injected callback.
package combat

import (
	"fmt"
	"math"
	"strings"

	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/enemy"
	"github.com/procha/masmorra/internal/game/rng"
)

// FleeChance is the probability a flee attempt succeeds.
const FleeChance = 0.5

// damageJitter bounds of the uniform multiplier applied to attack.
const (
	damageJitterLo = 0.8
	damageJitterHi = 1.2
)

// Damage computes the damage of one attack: attack scaled by a uniform
// random factor in [0.8, 1.2), minus defense, floored at zero — then raised
// to 1 whenever the attacker has positive attack. The floor guarantees
// combat always terminates against arbitrarily high defense.
//
// Postcondition: attack > 0 implies result >= 1; attack == 0 implies 0.
func Damage(src rng.Source, attack, defense int) int {
	raw := float64(attack) * rng.Uniform(src, damageJitterLo, damageJitterHi)
	dmg := int(math.Floor(raw)) - defense
	if dmg < 0 {
		dmg = 0
	}
	if dmg <= 0 && attack > 0 {
		return 1
	}
	return dmg
}

// Input actions accepted by the combat prompt.
const (
	inputAttack  = "1"
	inputUseItem = "2"
	inputFlee    = "3"
	inputLog     = "l"
)

// Deps are the injected collaborators of one Resolve call.
type Deps struct {
	// Src provides all combat randomness.
	Src rng.Source
	// Prompt renders the combat screen with the recent log and blocks for
	// one raw action string.
	Prompt func(log []string) string
	// UseItem asks the inventory collaborator to consume an item. A false
	// return means nothing was used and the turn is not consumed.
	UseItem func() bool
	// ShowLog renders the full combat log, when the player asks for it.
	// Optional.
	ShowLog func(log []string)
}

// Resolve runs the battle loop until one side falls or the player escapes.
// Turn shape: the player acts first; the enemy retaliates only while still
// alive. Invalid input and refused item use are free (no retaliation); a
// failed flee attempt costs a full enemy turn.
//
// Precondition: player and en must be non-nil; deps.Src, deps.Prompt, and
// deps.UseItem must be non-nil.
// Postcondition: Returns (true, enemy) when the enemy fell, (false, enemy)
// when the player fell or fled; the enemy keeps its remaining HP so the
// caller can persist it back into the room.
func Resolve(player *character.Character, en *enemy.Enemy, deps Deps) (bool, *enemy.Enemy) {
	log := []string{fmt.Sprintf("Um %s selvagem aparece!", en.Name)}

	for player.IsAlive() && en.IsAlive() {
		choice := strings.TrimSpace(strings.ToLower(deps.Prompt(log)))

		switch choice {
		case inputLog:
			if deps.ShowLog != nil {
				deps.ShowLog(log)
			}

		case inputAttack:
			dealt := Damage(deps.Src, player.Attack, en.Defense)
			en.ApplyDamage(dealt)
			log = append(log, fmt.Sprintf("Você ataca o %s e causa %d de dano!", en.Name, dealt))
			if !en.IsAlive() {
				log = append(log, fmt.Sprintf("Você derrotou o %s!", en.Name))
				break
			}
			log = retaliate(deps.Src, player, en, log,
				"O %s ataca e causa %d de dano em você!")
			if !player.IsAlive() {
				log = append(log, "Você foi derrotado...")
			}

		case inputUseItem:
			if !deps.UseItem() {
				// Nothing usable: the turn is not consumed.
				log = append(log, "Você não tem itens consumíveis ou decidiu não usar.")
				continue
			}
			log = append(log, "Você usou um item!")
			log = retaliate(deps.Src, player, en, log,
				"O %s ataca enquanto você se recompõe e causa %d de dano!")

		case inputFlee:
			if rng.Chance(deps.Src, FleeChance) {
				log = append(log, "Você conseguiu fugir!")
				return false, en
			}
			log = append(log, "Você tentou fugir, mas falhou!")
			log = retaliate(deps.Src, player, en, log,
				"O %s ataca e causa %d de dano!")

		default:
			log = append(log, "Opção inválida! Tente novamente.")
		}
	}

	return player.IsAlive(), en
}

// retaliate applies one enemy attack to the player and appends the log line.
func retaliate(src rng.Source, player *character.Character, en *enemy.Enemy, log []string, format string) []string {
	received := Damage(src, en.Attack, player.Defense)
	player.ApplyDamage(received)
	return append(log, fmt.Sprintf(format, en.Name, received))
}
