package term

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/enemy"
)

// Terminal renders the game on an ANSI terminal and reads line input.
// It implements the engine UI surface.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
	// color can be disabled for dumb terminals and log captures.
	color bool
}

// New wraps the given reader and writer.  Input is consumed line by line.
func New(in io.Reader, out io.Writer, color bool) *Terminal {
	return &Terminal{
		in:    bufio.NewScanner(in),
		out:   out,
		color: color,
	}
}

func (t *Terminal) paint(color, text string) string {
	if !t.color {
		return text
	}
	return Colorize(color, text)
}

func (t *Terminal) paintf(color, format string, args ...interface{}) string {
	if !t.color {
		return fmt.Sprintf(format, args...)
	}
	return Colorf(color, format, args...)
}

// Clear wipes the screen and homes the cursor.
func (t *Terminal) Clear() {
	if t.color {
		fmt.Fprint(t.out, "\033[2J\033[H")
		return
	}
	fmt.Fprintln(t.out)
}

// Print writes each line followed by a newline.
func (t *Terminal) Print(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(t.out, line)
	}
}

// Prompt shows the label and blocks for one line.  EOF reads as "q" so a
// closed stdin unwinds the loop toward the menu and exit.
func (t *Terminal) Prompt(label string) string {
	fmt.Fprintf(t.out, "%s> ", label)
	if !t.in.Scan() {
		return "q"
	}
	return t.in.Text()
}

// Pause blocks until the player presses ENTER.
func (t *Terminal) Pause() {
	fmt.Fprint(t.out, t.paint(Dim, "Pressione ENTER para continuar..."))
	t.in.Scan()
	fmt.Fprintln(t.out)
}

// Map glyphs.  Everything not yet visited renders as unexplored.
const (
	glyphPlayer     = "@"
	glyphEntrance   = "E"
	glyphCorridor   = "."
	glyphBoss       = "C"
	glyphStaircase  = ">"
	glyphPlot       = "?"
	glyphUnexplored = "#"
)

// RenderMap draws the floor with fog of war: only visited rooms show
// their glyph, the player always shows as @.
func (t *Terminal) RenderMap(grid dungeon.Grid, player *character.Character, depth int, difficulty string) {
	header := t.paintf(BrightWhite, "=== MASMORRA - Andar %d [%s] ===", depth, difficulty)
	// The underline matches the printable width, not the escaped one.
	t.Print(header, strings.Repeat("-", len(StripANSI(header))), "")

	var b strings.Builder
	for y, row := range grid {
		for x, room := range row {
			b.WriteString(t.glyphAt(room, x == player.X && y == player.Y))
			b.WriteString(" ")
		}
		if y < len(grid)-1 {
			b.WriteString("\n")
		}
	}
	t.Print(b.String(), "")

	t.Print(fmt.Sprintf("%s  Nivel %d  HP %d/%d  ATQ %d  DEF %d  XP %d/%d",
		player.Name, player.Level, player.HP, player.MaxHP,
		player.Attack, player.Defense, player.XP, player.XPThreshold))
	t.Print(t.paint(Dim, "w/a/s/d mover | i inventario | p ficha | v salvar | q menu"))
}

func (t *Terminal) glyphAt(room *dungeon.Room, hasPlayer bool) string {
	if hasPlayer {
		return t.paint(BrightYellow, glyphPlayer)
	}
	if !room.Visited {
		return t.paint(Dim, glyphUnexplored)
	}
	switch room.Kind {
	case dungeon.KindEntrance:
		return t.paint(BrightGreen, glyphEntrance)
	case dungeon.KindBoss:
		return t.paint(BrightRed, glyphBoss)
	case dungeon.KindStaircase:
		return t.paint(BrightCyan, glyphStaircase)
	case dungeon.KindPlot:
		return t.paint(BrightMagenta, glyphPlot)
	case dungeon.KindWall:
		return t.paint(Dim, glyphUnexplored)
	default:
		return glyphCorridor
	}
}

// RenderStatus draws the full character sheet.
func (t *Terminal) RenderStatus(player *character.Character) {
	t.Print(
		t.paint(BrightWhite, "=== FICHA DO PERSONAGEM ==="),
		"",
		fmt.Sprintf("Nome:    %s", player.Name),
		fmt.Sprintf("Classe:  %s", player.Class),
		fmt.Sprintf("Nivel:   %d  (XP %d/%d)", player.Level, player.XP, player.XPThreshold),
		fmt.Sprintf("HP:      %d/%d", player.HP, player.MaxHP),
		fmt.Sprintf("Ataque:  %d (base %d)", player.Attack, player.BaseAttack),
		fmt.Sprintf("Defesa:  %d (base %d)", player.Defense, player.BaseDefense),
		fmt.Sprintf("Carteira: %s", player.Wallet.Format()),
	)
	if player.Motivation != nil {
		t.Print("", "Motivacao: "+player.Motivation.Title)
	}
	if len(player.Statuses) > 0 {
		t.Print("", "Efeitos ativos:")
		for _, status := range player.Statuses {
			t.Print(fmt.Sprintf("  %+d %s por %d combates (%s)",
				status.Value, status.Attribute, status.CombatsLeft, status.Description))
		}
	}
}

// RenderCombat draws the battle screen: both HP bars and the recent log.
func (t *Terminal) RenderCombat(player *character.Character, foe *enemy.Enemy, log []string) {
	t.Print(
		t.paint(BrightRed, "=== COMBATE ==="),
		"",
		fmt.Sprintf("%s  %s", foe.Name, t.hpBar(foe.HP, foe.MaxHP)),
		fmt.Sprintf("ATQ %d  DEF %d", foe.Attack, foe.Defense),
		"",
		fmt.Sprintf("%s  %s", player.Name, t.hpBar(player.HP, player.MaxHP)),
		fmt.Sprintf("ATQ %d  DEF %d", player.Attack, player.Defense),
		"",
	)
	// Only the tail of the log fits the screen.
	start := len(log) - 6
	if start < 0 {
		start = 0
	}
	for _, line := range log[start:] {
		t.Print("  " + line)
	}
	if len(log) > 0 {
		t.Print("")
	}
}

// hpBar renders a fixed-width bar colored by remaining fraction.
func (t *Terminal) hpBar(hp, maxHP int) string {
	const width = 20
	if maxHP < 1 {
		maxHP = 1
	}
	filled := hp * width / maxHP
	if hp > 0 && filled == 0 {
		filled = 1
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
	color := BrightGreen
	switch {
	case hp*4 <= maxHP:
		color = BrightRed
	case hp*2 <= maxHP:
		color = BrightYellow
	}
	return fmt.Sprintf("[%s] %d/%d", t.paint(color, bar), hp, maxHP)
}
