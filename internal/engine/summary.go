package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/storage/save"
)

// gameOver closes a run the character did not survive: the slot is gone,
// the history keeps the tale.
func (m *Machine) gameOver() State {
	rc := m.run

	if rc.Slot >= 1 {
		if err := m.store.Delete(rc.Slot); err != nil {
			m.logger.Warn("removendo save da partida encerrada", zap.Error(err))
		}
	}

	m.closeRun("derrota",
		"=== FIM DE JOGO ===",
		fmt.Sprintf("%s, %s de nivel %d, tombou no andar %d.",
			rc.Player.Name, rc.Player.Class, rc.Player.Level, rc.Depth))
	return StateMenu
}

// abandonRun closes a run the player walked away from.  Any save slot is
// left untouched so the dungeon can be picked up again later.
func (m *Machine) abandonRun() State {
	rc := m.run
	m.closeRun("abandono",
		"=== FIM DA AVENTURA ===",
		fmt.Sprintf("%s, %s de nivel %d, deixa a masmorra no andar %d e vive para contar a historia.",
			rc.Player.Name, rc.Player.Class, rc.Player.Level, rc.Depth))
	return StateMenu
}

// closeRun records the run in the history, draws the final summary, and
// clears the run context.
func (m *Machine) closeRun(outcome, banner, headline string) {
	rc := m.run

	summary := save.RunSummary{
		Character:    rc.Player.Name,
		Class:        rc.Player.Class,
		Level:        rc.Player.Level,
		Depth:        rc.Depth,
		Difficulty:   rc.Difficulty.Key,
		Outcome:      outcome,
		CauseOfDeath: rc.CauseOfDeath,
		DeepestBoss:  rc.DeepestBossName,
		Stats:        rc.Stats,
	}
	if rc.Arc != nil && rc.Arc.Completed {
		summary.PlotOutcome = rc.Arc.Outcome
	}
	m.store.AppendHistory(summary)

	m.logger.Info("partida encerrada",
		zap.String("personagem", rc.Player.Name),
		zap.String("resultado", outcome),
		zap.Int("nivel_masmorra", rc.Depth),
		zap.String("causa", rc.CauseOfDeath))

	m.ui.Clear()
	m.ui.Print(banner, "", headline)
	if rc.CauseOfDeath != "" {
		m.ui.Print("Causa: " + rc.CauseOfDeath)
	}
	m.ui.Print(
		"",
		fmt.Sprintf("Inimigos derrotados: %d", rc.Stats.EnemiesDefeated),
		fmt.Sprintf("Itens obtidos:       %d", rc.Stats.ItemsObtained),
		fmt.Sprintf("Moedas acumuladas:   %d", rc.Stats.CoinsGained),
		fmt.Sprintf("Eventos vividos:     %d", rc.Stats.EventsTriggered),
		fmt.Sprintf("Andares concluidos:  %d", rc.Stats.FloorsCompleted),
		fmt.Sprintf("Turnos jogados:      %d", rc.Stats.Turns),
	)
	if rc.DeepestBossName != "" {
		m.ui.Print("Ultimo chefe vencido: " + rc.DeepestBossName)
	}
	m.ui.Pause()

	m.run = nil
}
