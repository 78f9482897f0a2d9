package engine

import (
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/enemy"
	"github.com/procha/masmorra/internal/game/plot"
	"github.com/procha/masmorra/internal/storage/save"
)

// runContext carries everything mutable about one run between states.
// It is rebuilt from scratch on new game, and restored field by field on
// load.
type runContext struct {
	Player     *character.Character
	Grid       dungeon.Grid
	Depth      int
	Difficulty balance.DifficultyProfile

	Arc        *plot.Arc
	CluesShown map[int]bool

	// Combat hand-off between exploration and the combat state.
	CombatRoom *dungeon.Room
	CombatFoe  *enemy.Enemy

	// Position before the last move, restored after a successful flee.
	PrevX, PrevY int

	Slot            int
	Stats           save.RunStats
	DeepestBossName string
	CauseOfDeath    string
	TutorialDone    bool
}

func newRunContext() *runContext {
	return &runContext{
		Depth:      1,
		CluesShown: map[int]bool{},
	}
}

// toState converts the run into its persistent form.
func (rc *runContext) toState() *save.State {
	clues := make([]int, 0, len(rc.CluesShown))
	for depth := range rc.CluesShown {
		clues = append(clues, depth)
	}
	return &save.State{
		Player:          rc.Player,
		Grid:            rc.Grid,
		Depth:           rc.Depth,
		Difficulty:      rc.Difficulty.Key,
		Arc:             rc.Arc,
		CluesShown:      clues,
		TutorialDone:    rc.TutorialDone,
		Stats:           rc.Stats,
		DeepestBossName: rc.DeepestBossName,
	}
}

// fromState restores a run from a loaded save.  Unknown difficulty keys
// fall back to the default profile so old saves stay playable.
func fromState(state *save.State) *runContext {
	rc := newRunContext()
	rc.Player = state.Player
	rc.Grid = state.Grid
	rc.Depth = state.Depth
	rc.Difficulty = balance.Difficulty(state.Difficulty)
	rc.Arc = state.Arc
	for _, depth := range state.CluesShown {
		rc.CluesShown[depth] = true
	}
	rc.TutorialDone = state.TutorialDone
	rc.Stats = state.Stats
	rc.DeepestBossName = state.DeepestBossName
	return rc
}
