package content

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds every loaded catalog. It is read-only after Load.
type Registry struct {
	Classes       []ClassDef
	ItemsByRarity map[string][]ItemDef
	Consumables   []ItemDef
	Enemies       []EnemyDef
	Rooms         map[string][]RoomDef
	Events        []EventDef
	Plots         []PlotDef
	Consequences  []ConsequenceDef
	Bosses        []BossDef
	Motivations   []MotivationDef

	enemyByID map[string]EnemyDef
	eventByID map[string]EventDef
}

// Catalog file names expected inside the content directory.
const (
	fileClasses     = "classes.yaml"
	fileItems       = "itens.yaml"
	fileEnemies     = "inimigos.yaml"
	fileRooms       = "salas.yaml"
	fileEvents      = "eventos.yaml"
	filePlots       = "tramas.yaml"
	fileBosses      = "chefes.yaml"
	fileMotivations = "motivacoes.yaml"
)

// itemsFile is the on-disk shape of itens.yaml.
type itemsFile struct {
	Rarities    map[string][]ItemDef `yaml:"raridades"`
	Consumables []ItemDef            `yaml:"consumiveis"`
}

// plotsFile is the on-disk shape of tramas.yaml.
type plotsFile struct {
	Plots        []PlotDef        `yaml:"tramas"`
	Consequences []ConsequenceDef `yaml:"consequencias"`
}

// Load reads every catalog from dir, validates it, and returns the Registry.
//
// Precondition: dir must be a readable directory containing all catalog files.
// Postcondition: Returns a fully validated Registry, or a *DataError; the
// partial result is discarded on error.
func Load(dir string) (*Registry, error) {
	reg := &Registry{}

	if err := readYAML(dir, fileClasses, &reg.Classes); err != nil {
		return nil, err
	}
	var items itemsFile
	if err := readYAML(dir, fileItems, &items); err != nil {
		return nil, err
	}
	reg.ItemsByRarity = items.Rarities
	reg.Consumables = items.Consumables
	if err := readYAML(dir, fileEnemies, &reg.Enemies); err != nil {
		return nil, err
	}
	if err := readYAML(dir, fileRooms, &reg.Rooms); err != nil {
		return nil, err
	}
	if err := readYAML(dir, fileEvents, &reg.Events); err != nil {
		return nil, err
	}
	var plots plotsFile
	if err := readYAML(dir, filePlots, &plots); err != nil {
		return nil, err
	}
	reg.Plots = plots.Plots
	reg.Consequences = plots.Consequences
	if err := readYAML(dir, fileBosses, &reg.Bosses); err != nil {
		return nil, err
	}
	if err := readYAML(dir, fileMotivations, &reg.Motivations); err != nil {
		return nil, err
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// readYAML parses one catalog file from dir into out.
func readYAML(dir, name string, out any) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return &DataError{File: name, Msg: "arquivo não encontrado ou ilegível", Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &DataError{File: name, Msg: "YAML malformado", Err: err}
	}
	return nil
}

// Validate checks every catalog invariant. It must be called on registries
// built in memory (tests) before use.
//
// Postcondition: Returns nil iff every catalog satisfies its invariants;
// returns a *DataError describing the first violation otherwise.
func (r *Registry) Validate() error {
	if len(r.Classes) == 0 {
		return dataErrf(fileClasses, "nenhuma classe definida")
	}
	for _, c := range r.Classes {
		if c.ID == "" || c.Name == "" {
			return dataErrf(fileClasses, "classe sem id ou nome")
		}
		if c.HP < 1 || c.Attack < 0 || c.Defense < 0 {
			return dataErrf(fileClasses, "classe %q com atributos inválidos", c.ID)
		}
	}

	if len(r.ItemsByRarity) == 0 {
		return dataErrf(fileItems, "nenhuma raridade de item definida")
	}
	validKinds := map[string]bool{ItemKindWeapon: true, ItemKindShield: true, ItemKindConsumable: true}
	checkItems := func(pool []ItemDef, where string) error {
		for _, it := range pool {
			if it.Name == "" {
				return dataErrf(fileItems, "item sem nome em %s", where)
			}
			if !validKinds[it.Kind] {
				return dataErrf(fileItems, "item %q com tipo inválido %q", it.Name, it.Kind)
			}
			if it.Price < 0 {
				return dataErrf(fileItems, "item %q com preço negativo", it.Name)
			}
		}
		return nil
	}
	for rarity, pool := range r.ItemsByRarity {
		if len(pool) == 0 {
			return dataErrf(fileItems, "raridade %q vazia", rarity)
		}
		if err := checkItems(pool, "raridade "+rarity); err != nil {
			return err
		}
	}
	if err := checkItems(r.Consumables, "consumiveis"); err != nil {
		return err
	}
	for _, it := range r.Consumables {
		if it.Kind != ItemKindConsumable {
			return dataErrf(fileItems, "item %q no pool de consumíveis não é consumível", it.Name)
		}
	}

	if len(r.Enemies) == 0 {
		return dataErrf(fileEnemies, "nenhum inimigo definido")
	}
	seen := map[string]bool{}
	for _, e := range r.Enemies {
		if e.ID == "" || e.Name == "" {
			return dataErrf(fileEnemies, "inimigo sem id ou nome")
		}
		if seen[e.ID] {
			return dataErrf(fileEnemies, "id de inimigo duplicado %q", e.ID)
		}
		seen[e.ID] = true
		if e.BaseHP < 1 || e.BaseAttack < 1 || e.BaseDefense < 0 || e.BaseXP < 1 {
			return dataErrf(fileEnemies, "inimigo %q com atributos base inválidos", e.ID)
		}
	}

	if len(r.Rooms) == 0 {
		return dataErrf(fileRooms, "nenhuma categoria de sala definida")
	}
	for cat, pool := range r.Rooms {
		if len(pool) == 0 {
			return dataErrf(fileRooms, "categoria %q vazia", cat)
		}
		for _, rm := range pool {
			if rm.Name == "" || rm.Description == "" {
				return dataErrf(fileRooms, "sala sem nome ou descrição na categoria %q", cat)
			}
		}
	}

	for _, ev := range r.Events {
		if ev.ID == "" {
			return dataErrf(fileEvents, "evento sem id")
		}
	}

	for _, p := range r.Plots {
		if p.ID == "" {
			return dataErrf(filePlots, "trama sem id")
		}
		if len(p.Clues) == 0 {
			return dataErrf(filePlots, "trama %q sem pistas", p.ID)
		}
		if p.FloorMin < 1 || p.FloorMax < p.FloorMin {
			return dataErrf(filePlots, "trama %q com faixa de andares inválida", p.ID)
		}
		valid := 0
		for key, texts := range p.Outcomes {
			switch key {
			case OutcomeAlive, OutcomeDead, OutcomeCorrupted:
			default:
				return dataErrf(filePlots, "trama %q com desfecho desconhecido %q", p.ID, key)
			}
			if len(texts) > 0 {
				valid++
			}
		}
		if valid == 0 {
			return dataErrf(filePlots, "trama %q sem desfechos válidos", p.ID)
		}
	}
	for _, c := range r.Consequences {
		switch c.Kind {
		case ConsequenceAttribute, ConsequenceItem, ConsequenceCurrency:
		default:
			return dataErrf(filePlots, "consequência com tipo desconhecido %q", c.Kind)
		}
		if len(c.Outcomes) == 0 {
			return dataErrf(filePlots, "consequência sem desfechos associados")
		}
	}

	for _, b := range r.Bosses {
		if b.ID == "" || b.Type == "" {
			return dataErrf(fileBosses, "chefe sem id ou tipo")
		}
		if b.FloorMin < 1 || b.FloorMax < b.FloorMin {
			return dataErrf(fileBosses, "chefe %q com faixa de andares inválida", b.ID)
		}
	}

	if len(r.Motivations) == 0 {
		return dataErrf(fileMotivations, "nenhuma motivação definida")
	}
	for _, m := range r.Motivations {
		if m.ID == "" || m.Description == "" {
			return dataErrf(fileMotivations, "motivação sem id ou descrição")
		}
	}

	r.index()
	return nil
}

// index builds the lookup maps after a successful validation.
func (r *Registry) index() {
	r.enemyByID = make(map[string]EnemyDef, len(r.Enemies))
	for _, e := range r.Enemies {
		r.enemyByID[e.ID] = e
	}
	r.eventByID = make(map[string]EventDef, len(r.Events))
	for _, ev := range r.Events {
		r.eventByID[ev.ID] = ev
	}
}

// EnemyTemplate returns the enemy template with the given id.
func (r *Registry) EnemyTemplate(id string) (EnemyDef, bool) {
	def, ok := r.enemyByID[id]
	return def, ok
}

// NonBossEnemies returns every template available for random generation.
func (r *Registry) NonBossEnemies() []EnemyDef {
	var out []EnemyDef
	for _, e := range r.Enemies {
		if !e.IsBoss() {
			out = append(out, e)
		}
	}
	return out
}

// Event returns the event definition with the given id.
func (r *Registry) Event(id string) (EventDef, bool) {
	def, ok := r.eventByID[id]
	return def, ok
}

// BossesForFloor returns the bosses whose floor range includes depth.
func (r *Registry) BossesForFloor(depth int) []BossDef {
	var out []BossDef
	for _, b := range r.Bosses {
		if b.FloorMin <= depth && depth <= b.FloorMax {
			out = append(out, b)
		}
	}
	return out
}

// MotivationsForClass returns the motivations eligible for the given class.
// Motivations without a class list are eligible for every class; if nothing
// matches, the whole catalog is eligible.
func (r *Registry) MotivationsForClass(classID string) []MotivationDef {
	classID = strings.ToLower(classID)
	var out []MotivationDef
	for _, m := range r.Motivations {
		if len(m.Classes) == 0 {
			out = append(out, m)
			continue
		}
		for _, c := range m.Classes {
			if strings.ToLower(c) == classID {
				out = append(out, m)
				break
			}
		}
	}
	if len(out) == 0 {
		return r.Motivations
	}
	return out
}
