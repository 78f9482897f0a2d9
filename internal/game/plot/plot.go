// Package plot implements the narrative "trama" system: selecting an arc
// for the character's motivation, surfacing clues, and resolving the arc's
// special room and its consequences.
package plot

import (
	"sort"
	"strconv"
	"strings"

	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/rng"
)

// Arc is the active narrative state of one run.
type Arc struct {
	ID           string   `json:"id"`
	Name         string   `json:"nome"`
	Theme        string   `json:"tema"`
	MotivationID string   `json:"motivacao_id,omitempty"`
	TargetDepth  int      `json:"andar_alvo"`
	Outcome      string   `json:"desfecho"`
	OutcomeText  string   `json:"desfecho_texto"`
	RoomName     string   `json:"sala_nome"`
	RoomDesc     string   `json:"sala_descricao"`
	Clues        []string `json:"pistas"`
	// CorruptedEnemyType names the enemy template spawned by the
	// "corrompido" outcome.
	CorruptedEnemyType string `json:"inimigo_corrompido_tipo,omitempty"`
	Completed          bool   `json:"concluida"`
}

// Seed converts the arc into the generator's plot-room injection request.
func (a *Arc) Seed() *dungeon.PlotSeed {
	if a == nil || a.Completed {
		return nil
	}
	return &dungeon.PlotSeed{
		ID:                 a.ID,
		TargetDepth:        a.TargetDepth,
		RoomName:           a.RoomName,
		RoomDescription:    a.RoomDesc,
		Outcome:            a.Outcome,
		OutcomeText:        a.OutcomeText,
		Theme:              a.Theme,
		CorruptedEnemyType: a.CorruptedEnemyType,
	}
}

// SelectArc draws an arc for the given motivation. Direct motivation
// matches are preferred, then wildcard ("*") arcs, then the whole catalog.
// Target depth, outcome key, and outcome text are each drawn at random.
//
// Postcondition: Returns nil only when the plot catalog is empty.
func SelectArc(reg *content.Registry, src rng.Source, motivationID string) *Arc {
	if len(reg.Plots) == 0 {
		return nil
	}

	motivation := strings.ToLower(motivationID)
	var direct, wildcard []content.PlotDef
	for _, p := range reg.Plots {
		for _, m := range p.Motivations {
			switch strings.ToLower(m) {
			case motivation:
				if motivation != "" {
					direct = append(direct, p)
				}
			case "*":
				wildcard = append(wildcard, p)
			}
		}
	}
	candidates := direct
	if len(candidates) == 0 {
		candidates = wildcard
	}
	if len(candidates) == 0 {
		candidates = reg.Plots
	}

	def := rng.Pick(src, candidates)

	var outcomes []string
	for key, texts := range def.Outcomes {
		if len(texts) > 0 {
			outcomes = append(outcomes, key)
		}
	}
	// Map iteration order is random but not seeded; sort for determinism
	// under a fixed Source.
	sort.Strings(outcomes)
	outcome := rng.Pick(src, outcomes)
	text := rng.Pick(src, def.Outcomes[outcome])

	return &Arc{
		ID:                 def.ID,
		Name:               def.Name,
		Theme:              def.Theme,
		MotivationID:       motivationID,
		TargetDepth:        rng.IntBetween(src, def.FloorMin, def.FloorMax),
		Outcome:            outcome,
		OutcomeText:        text,
		RoomName:           def.RoomName,
		RoomDesc:           def.RoomDescription,
		Clues:              def.Clues,
		CorruptedEnemyType: def.CorruptedEnemyType,
	}
}

// Clue renders one clue for the current depth, interpolating the
// {andar_alvo} and {nivel_atual} placeholders.
func Clue(src rng.Source, arc *Arc, currentDepth int) string {
	if arc == nil || len(arc.Clues) == 0 {
		return ""
	}
	clue := rng.Pick(src, arc.Clues)
	clue = strings.ReplaceAll(clue, "{andar_alvo}", strconv.Itoa(arc.TargetDepth))
	clue = strings.ReplaceAll(clue, "{nivel_atual}", strconv.Itoa(currentDepth))
	return clue
}
