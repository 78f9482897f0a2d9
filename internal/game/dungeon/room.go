// Package dungeon models one floor of the masmorra: the room grid, its
// procedural generator, and the no-repeat room-text decks.
package dungeon

import "github.com/procha/masmorra/internal/game/enemy"

// Kind classifies a grid cell.
type Kind string

// Room kinds. Wall cells are impassable; every other kind is walkable.
const (
	KindWall      Kind = "parede"
	KindEntrance  Kind = "entrada"
	KindCorridor  Kind = "sala"
	KindBoss      Kind = "chefe"
	KindStaircase Kind = "escada"
	KindPlot      Kind = "trama"
)

// Room is one cell of the floor grid. It owns its spawned enemy until the
// enemy is defeated.
type Room struct {
	Kind        Kind   `json:"tipo"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	AreaLevel   int    `json:"nivel_area"`

	CanHaveEnemy  bool         `json:"pode_ter_inimigo"`
	Visited       bool         `json:"visitada"`
	EnemyDefeated bool         `json:"inimigo_derrotado"`
	Enemy         *enemy.Enemy `json:"inimigo_atual,omitempty"`

	IsBoss          bool   `json:"chefe,omitempty"`
	BossID          string `json:"chefe_id,omitempty"`
	BossName        string `json:"chefe_nome,omitempty"`
	BossDescription string `json:"chefe_descricao,omitempty"`
	BossIntroShown  bool   `json:"chefe_intro_exibida,omitempty"`

	EventID       string `json:"evento_id,omitempty"`
	EventResolved bool   `json:"evento_resolvido,omitempty"`

	PlotID                 string `json:"trama_id,omitempty"`
	PlotOutcome            string `json:"trama_desfecho,omitempty"`
	PlotText               string `json:"trama_texto,omitempty"`
	PlotResolved           bool   `json:"trama_resolvida,omitempty"`
	PlotConsequenceApplied bool   `json:"trama_consequencia_aplicada,omitempty"`
	CorruptedEnemyType     string `json:"trama_inimigo_corrompido,omitempty"`
}

// IsWalkable reports whether the player may enter this cell.
func (r *Room) IsWalkable() bool { return r.Kind != KindWall }

// HasUnresolvedEnemy reports whether entering the room must trigger an
// encounter (spawning lazily if needed).
func (r *Room) HasUnresolvedEnemy() bool {
	return r.CanHaveEnemy && !r.EnemyDefeated
}

// Grid is one generated floor: a fixed-size matrix indexed [y][x].
type Grid [][]*Room

// At returns the room at (x, y), or nil when out of bounds.
func (g Grid) At(x, y int) *Room {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return nil
	}
	return g[y][x]
}

// Find returns the coordinates of the first room of the given kind.
func (g Grid) Find(kind Kind) (x, y int, ok bool) {
	for yy, row := range g {
		for xx, room := range row {
			if room.Kind == kind {
				return xx, yy, true
			}
		}
	}
	return 0, 0, false
}

// AllBossesDefeated reports whether every boss room on the floor has its
// enemy defeated. The staircase only unlocks when this holds.
func (g Grid) AllBossesDefeated() bool {
	for _, row := range g {
		for _, room := range row {
			if room.Kind == KindBoss && !room.EnemyDefeated {
				return false
			}
		}
	}
	return true
}
