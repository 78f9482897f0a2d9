package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/enemy"
	"github.com/procha/masmorra/internal/game/plot"
)

// exploration runs one movement turn on the floor grid.
func (m *Machine) exploration() State {
	rc := m.run
	m.ui.Clear()
	m.ui.RenderMap(rc.Grid, rc.Player, rc.Depth, rc.Difficulty.Name)

	input := strings.ToLower(strings.TrimSpace(m.ui.Prompt("Acao")))
	switch input {
	case "w", "a", "s", "d":
		return m.move(input)
	case "i":
		return StateInventory
	case "p":
		m.ui.Clear()
		m.ui.RenderStatus(rc.Player)
		m.ui.Pause()
		return StateExploration
	case "v":
		m.saveRun()
		m.ui.Pause()
		return StateExploration
	case "q":
		if strings.EqualFold(strings.TrimSpace(m.ui.Prompt("Salvar antes de sair? (s/n)")), "s") {
			m.saveRun()
		}
		return m.abandonRun()
	default:
		return StateExploration
	}
}

// move attempts one step and resolves whatever the destination holds.
func (m *Machine) move(dir string) State {
	rc := m.run
	dx, dy := 0, 0
	switch dir {
	case "w":
		dy = -1
	case "s":
		dy = 1
	case "a":
		dx = -1
	case "d":
		dx = 1
	}
	nx, ny := rc.Player.X+dx, rc.Player.Y+dy
	room := rc.Grid.At(nx, ny)
	if room == nil || !room.IsWalkable() {
		m.ui.Print("Uma parede bloqueia o caminho.")
		m.ui.Pause()
		return StateExploration
	}

	rc.PrevX, rc.PrevY = rc.Player.X, rc.Player.Y
	rc.Player.X, rc.Player.Y = nx, ny
	rc.Stats.Turns++
	return m.enterRoom(room)
}

// enterRoom resolves the destination room in order: plot, then event,
// then enemy.  An event and an enemy can share a room; both fire on the
// same entry as long as the event leaves the player standing.
func (m *Machine) enterRoom(room *dungeon.Room) State {
	rc := m.run
	if !room.Visited {
		room.Visited = true
		m.ui.Print("", "== "+room.Name+" ==", room.Description, "")
	}

	if room.Kind == dungeon.KindPlot && !room.PlotResolved && rc.Arc != nil {
		return m.resolvePlotRoom(room)
	}

	if room.EventID != "" && !room.EventResolved {
		room.EventResolved = true
		result := m.events.Trigger(room.EventID, rc.Player, rc.Depth, rc.Difficulty.CoinDropMult)
		if result.Applied {
			rc.Stats.EventsTriggered++
			rc.Stats.CoinsGained += result.CoinsGained
		}
		m.ui.Print("== " + result.Title + " ==")
		m.ui.Print(result.Messages...)
		m.ui.Pause()
		if !rc.Player.IsAlive() {
			rc.CauseOfDeath = "vitima de " + result.Title
			return m.gameOver()
		}
	}

	if room.HasUnresolvedEnemy() {
		return m.startCombat(room)
	}

	if room.Kind == dungeon.KindStaircase {
		return m.staircase(room)
	}

	return StateExploration
}

// resolvePlotRoom plays the arc's set-piece room.
func (m *Machine) resolvePlotRoom(room *dungeon.Room) State {
	rc := m.run
	result := m.plots.ResolveRoom(rc.Player, room, rc.Arc, rc.Depth, rc.Difficulty)
	rc.Stats.CoinsGained += result.CoinsGained
	m.ui.Print("== " + result.Title + " ==")
	m.ui.Print(result.Messages...)
	if result.LevelsGained > 0 {
		m.ui.Print(fmt.Sprintf("Voce alcancou o nivel %d!", rc.Player.Level))
	}
	m.ui.Pause()
	if result.CombatStarted {
		return m.startCombat(room)
	}
	return StateExploration
}

// startCombat spawns the room's enemy if needed and hands off to the
// combat state.
func (m *Machine) startCombat(room *dungeon.Room) State {
	rc := m.run
	if room.Enemy == nil {
		opts := enemy.Options{Profile: m.profilePtr()}
		if room.IsBoss {
			opts.Boss = true
			opts.BossProfile = m.bossDef(room)
		}
		foe, err := m.enemies.Generate(rc.Depth, opts)
		if err != nil {
			m.logger.Error("gerando inimigo", zap.Error(err))
			room.EnemyDefeated = true
			return StateExploration
		}
		room.Enemy = foe
	}

	if room.IsBoss {
		return m.bossChallenge(room)
	}
	rc.CombatRoom = room
	rc.CombatFoe = room.Enemy
	return StateCombat
}

// bossChallenge plays the guardian's narrative screen.  The player may
// back off to the previous cell or check the backpack before committing;
// the fight only starts on an explicit choice.
func (m *Machine) bossChallenge(room *dungeon.Room) State {
	rc := m.run
	room.BossIntroShown = true
	for {
		m.ui.Clear()
		m.ui.Print("=== "+room.BossName+" ===", "")
		if room.BossDescription != "" {
			m.ui.Print(room.BossDescription, "")
		}
		m.ui.Print(
			"1. Enfrentar agora",
			"2. Recuar para se preparar",
			"3. Abrir inventario",
		)
		switch strings.TrimSpace(m.ui.Prompt("Escolha")) {
		case "1":
			rc.CombatRoom = room
			rc.CombatFoe = room.Enemy
			return StateCombat
		case "3":
			for m.inventory() == StateInventory {
			}
		default:
			rc.Player.X, rc.Player.Y = rc.PrevX, rc.PrevY
			return StateExploration
		}
	}
}

// bossDef recovers the boss identity bound at generation time.
func (m *Machine) bossDef(room *dungeon.Room) *content.BossDef {
	for i := range m.reg.Bosses {
		if m.reg.Bosses[i].ID == room.BossID {
			return &m.reg.Bosses[i]
		}
	}
	return nil
}

// staircase gates the descent on the floor's boss rooms.
func (m *Machine) staircase(room *dungeon.Room) State {
	rc := m.run
	if !rc.Grid.AllBossesDefeated() {
		m.ui.Print("A escada esta selada por uma forca antiga. O chefe deste andar ainda vive.")
		m.ui.Pause()
		return StateExploration
	}
	answer := strings.TrimSpace(m.ui.Prompt("Descer para o proximo andar? (s/n)"))
	if !strings.EqualFold(answer, "s") {
		return StateExploration
	}
	m.descend()
	return StateExploration
}

// descend advances to the next floor, healing and regenerating.
func (m *Machine) descend() {
	rc := m.run
	rc.Depth++
	rc.Stats.FloorsCompleted++

	heal := int(float64(rc.Player.MaxHP) * balance.DescentHealFraction)
	rc.Player.Heal(heal)

	rc.Grid = m.dungeons.Generate(rc.Depth, rc.Difficulty, rc.Arc.Seed())
	m.placeAtEntrance(rc)

	m.logger.Info("descida de andar",
		zap.Int("nivel_masmorra", rc.Depth),
		zap.Int("cura", heal))

	m.ui.Clear()
	m.ui.Print(
		fmt.Sprintf("Voce desce para o andar %d da masmorra.", rc.Depth),
		fmt.Sprintf("O breve descanso restaura %d de HP.", heal),
	)
	m.showClue()
	m.ui.Pause()
}

// showClue surfaces one arc hint per floor while the arc is still ahead.
func (m *Machine) showClue() {
	rc := m.run
	if rc.Arc == nil || rc.Arc.Completed || rc.CluesShown[rc.Depth] {
		return
	}
	if rc.Depth >= rc.Arc.TargetDepth {
		return
	}
	clue := plot.Clue(m.src, rc.Arc, rc.Depth)
	if clue == "" {
		return
	}
	rc.CluesShown[rc.Depth] = true
	m.ui.Print("", clue)
}
