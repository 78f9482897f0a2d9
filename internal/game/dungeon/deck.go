package dungeon

import (
	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/rng"
)

// deck draws room text templates from a category without repeating any
// until the whole category has been exhausted.
type deck struct {
	reg  *content.Registry
	used map[string]map[string]bool
}

func newDeck(reg *content.Registry) *deck {
	return &deck{reg: reg, used: make(map[string]map[string]bool)}
}

// draw returns a template from the category, theme-weighted when theme is
// non-empty. Unknown categories fall back to "caminho".
//
// Postcondition: within one exhaustion cycle every returned name is distinct.
func (d *deck) draw(src rng.Source, category, theme string) content.RoomDef {
	pool := d.reg.Rooms[category]
	if len(pool) == 0 {
		category = "caminho"
		pool = d.reg.Rooms[category]
	}

	used := d.used[category]
	if used == nil {
		used = make(map[string]bool)
		d.used[category] = used
	}

	fresh := make([]content.RoomDef, 0, len(pool))
	for _, def := range pool {
		if !used[def.Name] {
			fresh = append(fresh, def)
		}
	}
	if len(fresh) == 0 {
		clear(used)
		fresh = append(fresh, pool...)
	}

	var chosen content.RoomDef
	if theme == "" {
		chosen = rng.Pick(src, fresh)
	} else {
		weights := make([]int, len(fresh))
		for i, def := range fresh {
			weights[i] = 1
			for _, t := range def.Themes {
				if t == theme {
					weights[i] = balance.ThemeWeight
					break
				}
			}
		}
		chosen = fresh[rng.WeightedIndex(src, weights)]
	}
	used[chosen.Name] = true
	return chosen
}
