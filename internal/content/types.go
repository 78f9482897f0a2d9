// Package content loads and validates the read-only game catalogs: classes,
// items, enemy templates, room texts, events, plots, bosses, and character
// motivations. A Registry is built once at startup and injected into every
// generator; there is no package-level catalog state.
package content

// ClassDef defines a playable character class.
type ClassDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"nome"`
	Description string `yaml:"descricao"`
	HP          int    `yaml:"hp"`
	Attack      int    `yaml:"ataque"`
	Defense     int    `yaml:"defesa"`
}

// ItemDef defines an item template. Bonus applies while equipped; Effect
// applies once when a consumable is used.
type ItemDef struct {
	Name        string         `yaml:"nome"`
	Kind        string         `yaml:"tipo"`
	Description string         `yaml:"descricao"`
	Bonus       map[string]int `yaml:"bonus"`
	Effect      map[string]int `yaml:"efeito"`
	Price       int            `yaml:"preco_bronze"`
}

// Item kinds.
const (
	ItemKindWeapon     = "arma"
	ItemKindShield     = "escudo"
	ItemKindConsumable = "consumivel"
)

// EnemyDef defines a level-1 enemy template. Templates whose ID carries the
// BossPrefix are reserved for boss encounters and excluded from random
// generation.
type EnemyDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"nome"`
	BaseHP      int      `yaml:"hp_base"`
	BaseAttack  int      `yaml:"ataque_base"`
	BaseDefense int      `yaml:"defesa_base"`
	BaseXP      int      `yaml:"xp_base"`
	DropRarity  string   `yaml:"drop_raridade"`
	DropItem    string   `yaml:"drop_item_nome"`
	Themes      []string `yaml:"temas"`
}

// BossPrefix marks enemy template IDs reserved for bosses.
const BossPrefix = "chefe_"

// IsBoss reports whether the template is reserved for boss encounters.
func (d EnemyDef) IsBoss() bool {
	return len(d.ID) >= len(BossPrefix) && d.ID[:len(BossPrefix)] == BossPrefix
}

// RoomDef is one name/description text template for a generated room.
type RoomDef struct {
	Name        string   `yaml:"nome"`
	Description string   `yaml:"descricao"`
	Themes      []string `yaml:"temas"`
}

// BuffDef is a temporary status granted by an event.
type BuffDef struct {
	Attribute string `yaml:"atributo"`
	Value     int    `yaml:"valor"`
	Combats   int    `yaml:"duracao_combates"`
	Message   string `yaml:"mensagem"`
}

// EventEffects holds the deltas an event applies to the player.
type EventEffects struct {
	HP    int       `yaml:"hp"`
	Coins int       `yaml:"moedas"`
	Buffs []BuffDef `yaml:"buffs"`
}

// EventDef defines a room event. Script, when non-empty, is a Lua chunk run
// in the scripting sandbox that may adjust the effect deltas.
type EventDef struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"nome"`
	Description string       `yaml:"descricao"`
	Effects     EventEffects `yaml:"efeitos"`
	Script      string       `yaml:"script"`
	Themes      []string     `yaml:"temas"`
}

// PlotDef defines a narrative arc ("trama") template.
type PlotDef struct {
	ID                 string              `yaml:"id"`
	Name               string              `yaml:"nome"`
	Theme              string              `yaml:"tema"`
	Motivations        []string            `yaml:"motivacoes"`
	FloorMin           int                 `yaml:"andar_min"`
	FloorMax           int                 `yaml:"andar_max"`
	Clues              []string            `yaml:"pistas"`
	RoomName           string              `yaml:"sala_nome"`
	RoomDescription    string              `yaml:"sala_descricao"`
	Outcomes           map[string][]string `yaml:"desfechos"`
	CorruptedEnemyType string              `yaml:"inimigo_corrompido_tipo"`
}

// Plot outcome keys.
const (
	OutcomeAlive     = "vivo"
	OutcomeDead      = "morto"
	OutcomeCorrupted = "corrompido"
)

// ConsequenceDef is one possible aftermath of resolving a plot room.
type ConsequenceDef struct {
	Outcomes  []string `yaml:"desfechos"`
	Kind      string   `yaml:"tipo"`
	Attribute string   `yaml:"atributo"`
	Delta     int      `yaml:"valor"`
	ItemName  string   `yaml:"item_nome"`
	Coins     int      `yaml:"moedas"`
	Text      string   `yaml:"texto"`
}

// Consequence kinds.
const (
	ConsequenceAttribute = "atributo"
	ConsequenceItem      = "item"
	ConsequenceCurrency  = "moedas"
)

// BossDef binds an enemy template to a floor range and a display identity.
type BossDef struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"tipo"`
	Name        string `yaml:"nome"`
	Description string `yaml:"descricao"`
	FloorMin    int    `yaml:"andar_min"`
	FloorMax    int    `yaml:"andar_max"`
}

// MotivationDef is a character backstory hook used to select plot arcs.
type MotivationDef struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"titulo"`
	Description string   `yaml:"descricao"`
	Classes     []string `yaml:"classes"`
	Tone        string   `yaml:"tom"`
}
