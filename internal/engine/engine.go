// Package engine drives the game loop as an explicit state machine.
// Each state handler owns one screen of interaction and returns the next
// state; the run context carries everything mutable in between.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/config"
	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/enemy"
	"github.com/procha/masmorra/internal/game/event"
	"github.com/procha/masmorra/internal/game/item"
	"github.com/procha/masmorra/internal/game/plot"
	"github.com/procha/masmorra/internal/game/rng"
	"github.com/procha/masmorra/internal/storage/save"
	"github.com/procha/masmorra/internal/updater"
)

// State identifies one screen of the game loop.
type State string

// Machine states. Every handler returns the next state; StateExit ends Run.
const (
	StateMenu        State = "menu"
	StateCreation    State = "criacao"
	StateExploration State = "exploracao"
	StateInventory   State = "inventario"
	StateCombat      State = "combate"
	StateExit        State = "sair"
)

// Machine is the turn-based game loop.
type Machine struct {
	reg    *content.Registry
	ui     UI
	store  *save.Store
	src    rng.Source
	logger *zap.Logger
	cfg    config.GameConfig

	dungeons *dungeon.Generator
	enemies  *enemy.Generator
	items    *item.Generator
	events   *event.Resolver
	plots    *plot.Engine

	run     *runContext
	updates <-chan *updater.Notice
}

// New wires a Machine from its collaborators.
//
// Precondition: reg passed Validate; ui, store, src, and logger are non-nil.
func New(reg *content.Registry, ui UI, store *save.Store, src rng.Source, cfg config.GameConfig, logger *zap.Logger) *Machine {
	enemies := enemy.NewGenerator(reg, src)
	items := item.NewGenerator(reg, src)
	return &Machine{
		reg:      reg,
		ui:       ui,
		store:    store,
		src:      src,
		logger:   logger,
		cfg:      cfg,
		dungeons: dungeon.NewGenerator(reg, src),
		enemies:  enemies,
		items:    items,
		events:   event.NewResolver(reg, logger),
		plots:    plot.NewEngine(reg, src, enemies, items, logger),
	}
}

// NotifyUpdates hands the machine a channel of release notices.  The menu
// drains it without blocking, so the producer may run in the background
// and never touches the terminal itself.
func (m *Machine) NotifyUpdates(ch <-chan *updater.Notice) {
	m.updates = ch
}

// Run executes the state machine until the player exits or ctx is
// cancelled.
//
// Postcondition: returns nil on a normal exit, or ctx.Err() when cancelled.
func (m *Machine) Run(ctx context.Context) error {
	state := StateMenu
	for state != StateExit {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.logger.Debug("transicao de estado", zap.String("estado", string(state)))
		switch state {
		case StateMenu:
			state = m.menu()
		case StateCreation:
			state = m.creation()
		case StateExploration:
			state = m.exploration()
		case StateInventory:
			state = m.inventory()
		case StateCombat:
			state = m.combat()
		default:
			return fmt.Errorf("estado desconhecido: %q", state)
		}
	}
	m.ui.Print("", "Ate a proxima, aventureiro!")
	return nil
}

// menu shows the title screen.
func (m *Machine) menu() State {
	m.ui.Clear()
	m.ui.Print(
		"=== MASMORRA ===",
		"",
		"1. Novo jogo",
		"2. Carregar jogo",
		"3. Historico de partidas",
		"4. Sair",
	)
	if notice := m.pendingNotice(); notice != nil {
		m.ui.Print(
			"",
			fmt.Sprintf("Nova versao disponivel: %s (voce tem %s)", notice.LatestVersion, notice.CurrentVersion),
			"Baixe em: "+notice.URL,
		)
	}
	switch strings.TrimSpace(m.ui.Prompt("Escolha")) {
	case "1":
		return StateCreation
	case "2":
		return m.loadMenu()
	case "3":
		m.showHistory()
		return StateMenu
	case "4":
		return StateExit
	default:
		return StateMenu
	}
}

// loadMenu lists occupied slots and restores the chosen one.
func (m *Machine) loadMenu() State {
	infos, err := m.store.List()
	if err != nil {
		m.logger.Warn("listando saves", zap.Error(err))
		m.ui.Print("Nao foi possivel ler os saves.")
		m.ui.Pause()
		return StateMenu
	}
	if len(infos) == 0 {
		m.ui.Print("Nenhum save encontrado.")
		m.ui.Pause()
		return StateMenu
	}
	m.ui.Clear()
	m.ui.Print("=== CARREGAR JOGO ===", "")
	for _, info := range infos {
		if info.Broken {
			m.ui.Print(fmt.Sprintf("%d. (slot corrompido)", info.Meta.Slot))
			continue
		}
		m.ui.Print(fmt.Sprintf("%d. %s (%s) - Nivel %d, Andar %d [%s]",
			info.Meta.Slot, info.Meta.Character, info.Meta.Class,
			info.Meta.Level, info.Meta.Depth, info.Meta.Difficulty))
	}
	m.ui.Print("", "0. Voltar")
	choice := strings.TrimSpace(m.ui.Prompt("Slot"))
	if choice == "0" || choice == "" {
		return StateMenu
	}
	slot, err := strconv.Atoi(choice)
	if err != nil || slot < 1 {
		return StateMenu
	}
	state, err := m.store.Load(slot)
	if err != nil {
		m.logger.Warn("carregando save", zap.Int("slot", slot), zap.Error(err))
		m.ui.Print("Esse save nao pode ser carregado.")
		m.ui.Pause()
		return StateMenu
	}
	m.run = fromState(state)
	m.run.Slot = slot
	m.ui.Print(fmt.Sprintf("Bem-vindo de volta, %s!", m.run.Player.Name))
	m.ui.Pause()
	return StateExploration
}

// showHistory lists finished runs, newest first.
func (m *Machine) showHistory() {
	runs, err := m.store.History()
	if err != nil {
		m.logger.Warn("lendo historico", zap.Error(err))
		m.ui.Print("Nao foi possivel ler o historico.")
		m.ui.Pause()
		return
	}
	m.ui.Clear()
	m.ui.Print("=== HISTORICO DE PARTIDAS ===", "")
	if len(runs) == 0 {
		m.ui.Print("Nenhuma partida registrada ainda.")
		m.ui.Pause()
		return
	}
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		line := fmt.Sprintf("%s (%s) - %s no andar %d [%s]",
			r.Character, r.Class, r.Outcome, r.Depth, r.Difficulty)
		if r.CauseOfDeath != "" {
			line += " - " + r.CauseOfDeath
		}
		m.ui.Print(line)
	}
	m.ui.Pause()
}

// saveRun persists the current run, prompting for a slot on first save.
func (m *Machine) saveRun() {
	rc := m.run
	if rc.Slot < 1 {
		choice := strings.TrimSpace(m.ui.Prompt("Salvar em qual slot? (1-5)"))
		slot, err := strconv.Atoi(choice)
		if err != nil || slot < 1 {
			m.ui.Print("Slot invalido, jogo nao salvo.")
			return
		}
		rc.Slot = slot
	}
	if _, err := m.store.Save(rc.toState(), rc.Slot); err != nil {
		m.logger.Error("salvando jogo", zap.Error(err))
		m.ui.Print("Falha ao salvar o jogo.")
		return
	}
	m.ui.Print(fmt.Sprintf("Jogo salvo no slot %d.", rc.Slot))
}

// pendingNotice drains at most one release notice.  A nil channel never
// delivers, so machines without an updater skip straight past it.
func (m *Machine) pendingNotice() *updater.Notice {
	select {
	case notice := <-m.updates:
		return notice
	default:
		return nil
	}
}

// profilePtr adapts the run difficulty for generator options.
func (m *Machine) profilePtr() *balance.DifficultyProfile {
	p := m.run.Difficulty
	return &p
}
