package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/game/combat"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/enemy"
	"github.com/procha/masmorra/internal/game/item"
)

// combat plays one battle to its end and applies the aftermath.
func (m *Machine) combat() State {
	rc := m.run
	room, foe := rc.CombatRoom, rc.CombatFoe
	rc.CombatRoom, rc.CombatFoe = nil, nil
	if room == nil || foe == nil {
		return StateExploration
	}

	deps := combat.Deps{
		Src: m.src,
		Prompt: func(log []string) string {
			m.ui.Clear()
			m.ui.RenderCombat(rc.Player, foe, log)
			return m.ui.Prompt("1 atacar | 2 usar item | 3 fugir | l registro")
		},
		UseItem: m.combatUseItem,
		ShowLog: func(log []string) {
			m.ui.Clear()
			m.ui.Print("=== REGISTRO DE COMBATE ===", "")
			m.ui.Print(log...)
			m.ui.Pause()
		},
	}
	// Resolve also reports false on a successful escape, so only the
	// player's own HP decides whether the run is over.
	combat.Resolve(rc.Player, foe, deps)

	if !rc.Player.IsAlive() {
		rc.CauseOfDeath = "morto por " + foe.Name
		return m.gameOver()
	}

	rc.Player.TickStatuses(1)

	if foe.IsAlive() {
		// Fled. The enemy keeps its wounds and its room.
		room.Enemy = foe
		rc.Player.X, rc.Player.Y = rc.PrevX, rc.PrevY
		m.ui.Print("Voce escapa por pouco!")
		m.ui.Pause()
		return StateExploration
	}

	return m.victory(room, foe)
}

// combatUseItem runs the mid-battle consumable picker.  Returning false
// means nothing was used and the combat turn is not consumed.
func (m *Machine) combatUseItem() bool {
	player := m.run.Player
	indexes := player.ConsumableIndexes()
	if len(indexes) == 0 {
		m.ui.Print("Nenhum consumivel na mochila.")
		return false
	}
	m.ui.Print("", "Consumiveis:")
	for i, idx := range indexes {
		it := player.Inventory[idx]
		m.ui.Print(fmt.Sprintf("%d. %s - %s", i+1, it.Name, it.Description))
	}
	m.ui.Print("0. Cancelar")
	choice := m.ui.Prompt("Usar qual?")
	pick, ok := parseIndex([]string{"u", choice}, len(indexes))
	if !ok {
		return false
	}
	name := player.Inventory[indexes[pick]].Name
	if !player.UseConsumable(indexes[pick]) {
		return false
	}
	m.ui.Print(fmt.Sprintf("Voce usa %s.", name))
	return true
}

// victory applies XP, loot, and plot completion after the enemy falls.
func (m *Machine) victory(room *dungeon.Room, foe *enemy.Enemy) State {
	rc := m.run
	room.EnemyDefeated = true
	room.Enemy = nil
	rc.Stats.EnemiesDefeated++

	m.ui.Clear()
	m.ui.Print(fmt.Sprintf("%s foi derrotado!", foe.Name), "")

	levelUp := rc.Player.GainXP(foe.XPReward)
	m.ui.Print(fmt.Sprintf("Voce ganha %d de XP.", foe.XPReward))
	if levelUp.LevelsGained > 0 {
		m.ui.Print(fmt.Sprintf("Voce alcancou o nivel %d! Atributos aumentados e HP restaurado.", levelUp.NewLevel))
	}

	coins := item.CoinDrop(m.src, foe.DropRarity, rc.Depth)
	coins = int(float64(coins) * rc.Difficulty.CoinDropMult)
	if coins > 0 {
		rc.Player.Wallet.Receive(coins)
		rc.Stats.CoinsGained += coins
		m.ui.Print("O inimigo deixa cair " + item.FormatPrice(coins) + ".")
	}

	m.lootDrops(foe.DropRarity, foe.DropItem)

	if room.IsBoss {
		rc.DeepestBossName = room.BossName
		m.ui.Print("", "O guardiao deste andar caiu. A escada para as profundezas esta livre.")
	}

	if room.Kind == dungeon.KindPlot && rc.Arc != nil && !rc.Arc.Completed {
		m.ui.Print("")
		m.ui.Print(m.plots.CompleteCorrupted(rc.Player, room, rc.Arc)...)
	}

	m.logger.Info("inimigo derrotado",
		zap.String("inimigo", foe.Name),
		zap.Int("xp", foe.XPReward),
		zap.Int("nivel_masmorra", rc.Depth))

	m.ui.Pause()
	return StateExploration
}

// lootDrops rolls the named guaranteed drop first, then the rarity pool.
func (m *Machine) lootDrops(rarity, guaranteed string) {
	rc := m.run
	if guaranteed != "" {
		if it := m.items.ByName(guaranteed); it != nil {
			rc.Player.Inventory = append(rc.Player.Inventory, *it)
			rc.Stats.ItemsObtained++
			m.ui.Print("Voce encontra " + it.Name + "!")
		}
	}
	if rarity == "" {
		return
	}
	if it := m.items.Generate(rarity, true, rc.Difficulty.ConsumableBonus); it != nil {
		rc.Player.Inventory = append(rc.Player.Inventory, *it)
		rc.Stats.ItemsObtained++
		m.ui.Print("Voce encontra " + it.Name + "!")
	}
}
