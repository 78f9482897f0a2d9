package dungeon

import (
	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/rng"
)

// PlotSeed carries the fields the generator needs to inject the active
// arc's special room into a floor.
type PlotSeed struct {
	ID                 string
	TargetDepth        int
	RoomName           string
	RoomDescription    string
	Outcome            string
	OutcomeText        string
	Theme              string
	CorruptedEnemyType string
}

// point is a grid coordinate.
type point struct{ x, y int }

// Generator builds floor grids.
type Generator struct {
	reg *content.Registry
	src rng.Source
}

// NewGenerator creates a Generator over the given registry and source.
//
// Precondition: reg and src must be non-nil.
func NewGenerator(reg *content.Registry, src rng.Source) *Generator {
	return &Generator{reg: reg, src: src}
}

// Generate builds one floor for the given depth and difficulty profile.
// When seed is non-nil and targets this depth, exactly one carved non-special
// room is converted into the plot room.
//
// Postcondition: the grid holds exactly one entrance, one boss room, and
// one staircase, all connected by non-wall cells along the main path.
func (g *Generator) Generate(depth int, profile balance.DifficultyProfile, seed *PlotSeed) Grid {
	grid := make(Grid, balance.MapHeight)
	for y := range grid {
		grid[y] = make([]*Room, balance.MapWidth)
		for x := range grid[y] {
			grid[y][x] = &Room{Kind: KindWall, AreaLevel: depth}
		}
	}

	theme := ""
	if seed != nil {
		theme = seed.Theme
	}
	texts := newDeck(g.reg)
	path := g.carveMainPath(grid, depth, profile, theme, texts)

	// Special rooms anchor the main path: first cell is the entrance, the
	// second-to-last guards the staircase on the last.
	entrance := path[0]
	boss := path[len(path)-2]
	stairs := path[len(path)-1]
	g.stampEntrance(grid[entrance.y][entrance.x])
	g.stampBoss(grid[boss.y][boss.x], depth)
	g.stampStaircase(grid[stairs.y][stairs.x])

	g.carveSideRooms(grid, path, depth, profile, theme, texts)

	if seed != nil && seed.TargetDepth == depth {
		g.injectPlotRoom(grid, path, seed)
	}

	return grid
}

// carveMainPath walks from a random top-row cell to the bottom row, choosing
// left/right/down with down weighted 3:1:1, and stamps corridor rooms.
func (g *Generator) carveMainPath(grid Grid, depth int, profile balance.DifficultyProfile, theme string, texts *deck) []point {
	x := rng.IntBetween(g.src, 1, balance.MapWidth-2)
	y := 0
	var path []point

	for y < balance.MapHeight-1 {
		if grid[y][x].Kind == KindWall {
			grid[y][x] = g.corridorRoom(depth, profile, theme, texts)
			path = append(path, point{x, y})
		}
		switch g.src.Intn(5) {
		case 0: // left
			if x > 1 {
				x--
			} else {
				y++
			}
		case 1: // right
			if x < balance.MapWidth-2 {
				x++
			} else {
				y++
			}
		default: // down, 3-in-5
			y++
		}
	}
	grid[y][x] = g.corridorRoom(depth, profile, theme, texts)
	path = append(path, point{x, y})
	return path
}

// carveSideRooms converts wall neighbors of random path cells into corridor
// rooms, one per successful attempt.
func (g *Generator) carveSideRooms(grid Grid, path []point, depth int, profile balance.DifficultyProfile, theme string, texts *deck) {
	attempts := int(float64(balance.MapWidth*balance.MapHeight) * balance.SideRoomRatio)
	for i := 0; i < attempts; i++ {
		p := rng.Pick(g.src, path)
		for _, d := range g.shuffledDirections() {
			nx, ny := p.x+d.x, p.y+d.y
			room := grid.At(nx, ny)
			if room != nil && room.Kind == KindWall {
				grid[ny][nx] = g.corridorRoom(depth, profile, theme, texts)
				break
			}
		}
	}
}

func (g *Generator) shuffledDirections() []point {
	dirs := []point{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	for i := len(dirs) - 1; i > 0; i-- {
		j := g.src.Intn(i + 1)
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}

// corridorRoom builds a regular room: deck-drawn text, an encounter flag
// rolled at the floor's encounter probability, and occasionally an event.
// Events and enemies may coexist in the same room.
func (g *Generator) corridorRoom(depth int, profile balance.DifficultyProfile, theme string, texts *deck) *Room {
	text := texts.draw(g.src, "caminho", theme)
	room := &Room{
		Kind:         KindCorridor,
		Name:         text.Name,
		Description:  text.Description,
		AreaLevel:    depth,
		CanHaveEnemy: rng.Chance(g.src, balance.EncounterProbability(depth, profile)),
	}
	if len(g.reg.Events) > 0 && rng.Chance(g.src, balance.EventProbability) {
		room.EventID = g.pickEventID(theme)
	}
	return room
}

// pickEventID selects an event, theme-weighted like enemy templates.
func (g *Generator) pickEventID(theme string) string {
	events := g.reg.Events
	if theme == "" {
		return rng.Pick(g.src, events).ID
	}
	weights := make([]int, len(events))
	for i, ev := range events {
		weights[i] = 1
		for _, t := range ev.Themes {
			if t == theme {
				weights[i] = balance.ThemeWeight
				break
			}
		}
	}
	return events[rng.WeightedIndex(g.src, weights)].ID
}

func (g *Generator) stampEntrance(room *Room) {
	room.Kind = KindEntrance
	room.Name = "Entrada da Masmorra"
	room.Description = "A luz da entrada desaparece atrás de você. O ar é úmido e cheira a poeira e morte."
	room.CanHaveEnemy = false
	room.EventID = ""
}

func (g *Generator) stampStaircase(room *Room) {
	room.Kind = KindStaircase
	room.Name = "Escadaria para as Profundezas"
	room.Description = "Uma escadaria de pedra desce para a escuridão. Um ar ainda mais frio sobe lá de baixo."
	room.CanHaveEnemy = false
	room.EventID = ""
}

// stampBoss marks the boss room and binds the floor's boss identity from
// the catalog, when one is configured for this depth.
func (g *Generator) stampBoss(room *Room, depth int) {
	room.Kind = KindBoss
	room.Name = "Covil do Chefe"
	room.Description = "Uma aura de poder emana desta sala. Ossos espalhados indicam que você não é o primeiro a chegar."
	room.CanHaveEnemy = true
	room.IsBoss = true
	room.EventID = ""

	if bosses := g.reg.BossesForFloor(depth); len(bosses) > 0 {
		b := rng.Pick(g.src, bosses)
		room.BossID = b.ID
		room.BossName = b.Name
		room.BossDescription = b.Description
	}
}

// injectPlotRoom converts one random carved non-special room into the plot
// room. Path cells are always carved, so the plot room is always reachable.
func (g *Generator) injectPlotRoom(grid Grid, path []point, seed *PlotSeed) {
	var candidates []point
	for y, row := range grid {
		for x, room := range row {
			if room.Kind == KindCorridor {
				candidates = append(candidates, point{x, y})
			}
		}
	}
	if len(candidates) == 0 {
		// Degenerate floor: fall back to a mid-path cell.
		candidates = path[1 : len(path)-2]
	}
	p := rng.Pick(g.src, candidates)
	room := grid[p.y][p.x]
	room.Kind = KindPlot
	room.Name = seed.RoomName
	room.Description = seed.RoomDescription
	room.CanHaveEnemy = false
	room.EventID = ""
	room.PlotID = seed.ID
	room.PlotOutcome = seed.Outcome
	room.PlotText = seed.OutcomeText
	room.CorruptedEnemyType = seed.CorruptedEnemyType
}

// PathConnected reports whether the entrance reaches the staircase through
// non-wall cells using 4-neighbor movement.
func PathConnected(grid Grid) bool {
	sx, sy, ok := grid.Find(KindEntrance)
	if !ok {
		return false
	}
	tx, ty, ok := grid.Find(KindStaircase)
	if !ok {
		return false
	}
	visited := make(map[point]bool)
	queue := []point{{sx, sy}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if visited[p] {
			continue
		}
		visited[p] = true
		if p.x == tx && p.y == ty {
			return true
		}
		for _, d := range []point{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
			n := point{p.x + d.x, p.y + d.y}
			room := grid.At(n.x, n.y)
			if room != nil && room.IsWalkable() && !visited[n] {
				queue = append(queue, n)
			}
		}
	}
	return false
}
