package engine

import (
	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/enemy"
)

// UI is the rendering and input surface the state machine drives.  The
// terminal frontend implements it; tests substitute a scripted fake.
type UI interface {
	// Clear wipes the screen before a redraw.
	Clear()
	// Print shows free-form lines in order.
	Print(lines ...string)
	// Prompt shows a label and blocks for one line of input.
	Prompt(label string) string
	// Pause blocks until the player acknowledges.
	Pause()
	// RenderMap draws the floor grid around the player.
	RenderMap(grid dungeon.Grid, player *character.Character, depth int, difficulty string)
	// RenderStatus draws the character sheet block.
	RenderStatus(player *character.Character)
	// RenderCombat draws the battle screen with the rolling log.
	RenderCombat(player *character.Character, foe *enemy.Enemy, log []string)
}
