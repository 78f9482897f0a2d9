package engine

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/plot"
)

// creation builds a fresh run: name, class, difficulty, motivation, plot
// arc, and the first floor.
func (m *Machine) creation() State {
	m.ui.Clear()
	m.ui.Print("=== CRIACAO DE PERSONAGEM ===", "")

	name := ""
	for name == "" {
		name = strings.TrimSpace(m.ui.Prompt("Nome do personagem (ou 0 para voltar)"))
		if name == "0" {
			return StateMenu
		}
	}

	class, ok := m.chooseClass()
	if !ok {
		return StateMenu
	}
	profile, ok := m.chooseDifficulty()
	if !ok {
		return StateMenu
	}

	rc := newRunContext()
	rc.Player = character.New(name, class)
	rc.Difficulty = profile
	rc.TutorialDone = !m.cfg.Tutorial

	motivation := m.chooseMotivation(class.ID)
	if motivation != nil {
		rc.Player.Motivation = &character.Motivation{
			ID:          motivation.ID,
			Title:       motivation.Title,
			Description: motivation.Description,
		}
		rc.Arc = plot.SelectArc(m.reg, m.src, motivation.ID)
	} else {
		rc.Arc = plot.SelectArc(m.reg, m.src, "")
	}

	rc.Grid = m.dungeons.Generate(rc.Depth, rc.Difficulty, rc.Arc.Seed())
	m.placeAtEntrance(rc)
	m.run = rc

	m.logger.Info("personagem criado",
		zap.String("nome", name),
		zap.String("classe", class.Name),
		zap.String("dificuldade", profile.Key))

	m.ui.Clear()
	m.ui.Print(
		fmt.Sprintf("%s, %s de primeiro nivel, desce a escadaria da masmorra.", name, class.Name),
		"",
	)
	if rc.Player.Motivation != nil {
		m.ui.Print(rc.Player.Motivation.Description, "")
	}
	if !rc.TutorialDone {
		m.showTutorial()
		rc.TutorialDone = true
	}
	m.ui.Pause()
	return StateExploration
}

func (m *Machine) chooseClass() (content.ClassDef, bool) {
	for {
		m.ui.Print("", "Escolha a sua classe:")
		for i, class := range m.reg.Classes {
			m.ui.Print(fmt.Sprintf("%d. %s - %s (HP %d, ATQ %d, DEF %d)",
				i+1, class.Name, class.Description, class.HP, class.Attack, class.Defense))
		}
		m.ui.Print("0. Voltar")
		choice := strings.TrimSpace(m.ui.Prompt("Classe"))
		if choice == "0" {
			return content.ClassDef{}, false
		}
		idx, err := strconv.Atoi(choice)
		if err == nil && idx >= 1 && idx <= len(m.reg.Classes) {
			return m.reg.Classes[idx-1], true
		}
	}
}

func (m *Machine) chooseDifficulty() (balance.DifficultyProfile, bool) {
	profiles := balance.Difficulties()
	for {
		m.ui.Print("", "Escolha a dificuldade:")
		for i, p := range profiles {
			m.ui.Print(fmt.Sprintf("%d. %s - %s", i+1, p.Name, p.Description))
		}
		m.ui.Print("0. Voltar")
		choice := strings.TrimSpace(m.ui.Prompt("Dificuldade"))
		if choice == "0" {
			return balance.DifficultyProfile{}, false
		}
		idx, err := strconv.Atoi(choice)
		if err == nil && idx >= 1 && idx <= len(profiles) {
			return profiles[idx-1], true
		}
	}
}

// chooseMotivation offers the motivations available to the class.  A run
// without motivation is allowed; the plot engine falls back to any arc.
func (m *Machine) chooseMotivation(classID string) *content.MotivationDef {
	options := m.reg.MotivationsForClass(classID)
	if len(options) == 0 {
		return nil
	}
	for {
		m.ui.Print("", "O que te traz a masmorra?")
		for i, mot := range options {
			m.ui.Print(fmt.Sprintf("%d. %s - %s", i+1, mot.Title, mot.Description))
		}
		choice := strings.TrimSpace(m.ui.Prompt("Motivacao"))
		idx, err := strconv.Atoi(choice)
		if err == nil && idx >= 1 && idx <= len(options) {
			return &options[idx-1]
		}
	}
}

// placeAtEntrance moves the player to the floor entrance and marks it
// visited.
func (m *Machine) placeAtEntrance(rc *runContext) {
	x, y, ok := rc.Grid.Find(dungeon.KindEntrance)
	if !ok {
		// Generated floors always carry an entrance; a miss means the
		// grid came from a tampered save.
		x, y = 0, 0
	}
	rc.Player.X, rc.Player.Y = x, y
	rc.PrevX, rc.PrevY = x, y
	if room := rc.Grid.At(x, y); room != nil {
		room.Visited = true
	}
}

func (m *Machine) showTutorial() {
	m.ui.Print(
		"Como jogar:",
		"  w/a/s/d  mover para norte/oeste/sul/leste",
		"  i        abrir o inventario",
		"  p        ver a ficha do personagem",
		"  v        salvar o jogo",
		"  q        voltar ao menu",
		"",
		"Derrote o chefe de cada andar para liberar a escada.",
		"",
	)
}
