package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/plot"
	"github.com/procha/masmorra/internal/version"
)

// SchemaVersion is the current save envelope schema.  Version 1 files
// carried the bare game state with no envelope; Load migrates them.
const SchemaVersion = 2

// ErrLoad marks any failure to read or parse a save slot.  Callers that
// only care whether the slot is usable can errors.Is against it instead
// of inspecting the cause.
var ErrLoad = errors.New("arquivo de save invalido")

// State is the portion of a run that survives a restart.
type State struct {
	Player          *character.Character `json:"jogador"`
	Grid            dungeon.Grid         `json:"mapa"`
	Depth           int                  `json:"nivel_masmorra"`
	Difficulty      string               `json:"dificuldade"`
	Arc             *plot.Arc            `json:"trama_ativa,omitempty"`
	CluesShown      []int                `json:"trama_pistas_exibidas,omitempty"`
	TutorialDone    bool                 `json:"tutorial_concluido,omitempty"`
	Stats           RunStats             `json:"estatisticas"`
	DeepestBossName string               `json:"chefe_mais_profundo,omitempty"`
}

// RunStats accumulates over an entire run, across floors.
type RunStats struct {
	EnemiesDefeated int `json:"inimigos_derrotados"`
	ItemsObtained   int `json:"itens_obtidos"`
	CoinsGained     int `json:"moedas_ganhas"`
	EventsTriggered int `json:"eventos_disparados"`
	FloorsCompleted int `json:"andares_concluidos"`
	Turns           int `json:"turnos"`
}

// Meta is the slot summary shown on the load screen without parsing the
// whole state.
type Meta struct {
	Slot       int    `json:"slot"`
	Character  string `json:"personagem"`
	Class      string `json:"classe"`
	Level      int    `json:"nivel"`
	Depth      int    `json:"nivel_masmorra"`
	Difficulty string `json:"dificuldade"`
}

type envelope struct {
	SaveVersion int    `json:"save_version"`
	GameVersion string `json:"versao"`
	SavedAt     string `json:"salvo_em"`
	Meta        Meta   `json:"meta"`
	Data        State  `json:"dados"`
}

// Store reads and writes save slots under a single directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates the save directory if it does not exist yet.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("criando diretorio de saves %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) slotPath(slot int) string {
	return filepath.Join(s.dir, fmt.Sprintf("save_%d.json", slot))
}

// Save writes the state to the given slot, replacing any previous file.
// The write goes through a temp file so a crash mid-write cannot leave a
// truncated slot behind.
func (s *Store) Save(state *State, slot int) (string, error) {
	if slot < 1 {
		return "", fmt.Errorf("slot de save invalido: %d", slot)
	}
	env := envelope{
		SaveVersion: SchemaVersion,
		GameVersion: version.Version,
		SavedAt:     time.Now().UTC().Format(time.RFC3339),
		Meta: Meta{
			Slot:       slot,
			Character:  state.Player.Name,
			Class:      state.Player.Class,
			Level:      state.Player.Level,
			Depth:      state.Depth,
			Difficulty: state.Difficulty,
		},
		Data: *state,
	}
	raw, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializando save: %w", err)
	}
	path := s.slotPath(slot)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return "", fmt.Errorf("gravando save %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("gravando save %s: %w", path, err)
	}
	s.logger.Info("save gravado",
		zap.Int("slot", slot),
		zap.String("personagem", env.Meta.Character),
		zap.Int("nivel_masmorra", env.Meta.Depth))
	return path, nil
}

// Load reads a slot back into a State.  Version 1 files, written before
// the envelope existed, are migrated in memory; the file on disk is only
// rewritten on the next Save.
func (s *Store) Load(slot int) (*State, error) {
	raw, err := os.ReadFile(s.slotPath(slot))
	if err != nil {
		return nil, fmt.Errorf("%w: slot %d: %v", ErrLoad, slot, err)
	}
	var probe struct {
		SaveVersion int    `json:"save_version"`
		GameVersion string `json:"versao"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: slot %d: %v", ErrLoad, slot, err)
	}
	if probe.SaveVersion == 0 {
		return s.migrateV1(raw, slot)
	}
	if probe.SaveVersion > SchemaVersion {
		return nil, fmt.Errorf("%w: slot %d gravado por versao mais nova (%s)", ErrLoad, slot, probe.GameVersion)
	}
	if !version.Compatible(probe.GameVersion) {
		return nil, fmt.Errorf("%w: slot %d incompativel com a versao %s", ErrLoad, slot, version.Version)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: slot %d: %v", ErrLoad, slot, err)
	}
	state := env.Data
	if err := validate(&state); err != nil {
		return nil, fmt.Errorf("%w: slot %d: %v", ErrLoad, slot, err)
	}
	return &state, nil
}

// migrateV1 parses a pre-envelope file.  Those saves predate difficulty
// profiles, so the run continues on the default profile.
func (s *Store) migrateV1(raw []byte, slot int) (*State, error) {
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: slot %d: %v", ErrLoad, slot, err)
	}
	if state.Difficulty == "" {
		state.Difficulty = "normal"
	}
	if err := validate(&state); err != nil {
		return nil, fmt.Errorf("%w: slot %d: %v", ErrLoad, slot, err)
	}
	s.logger.Info("save antigo migrado", zap.Int("slot", slot), zap.Int("de_versao", 1))
	return &state, nil
}

func validate(state *State) error {
	if state.Player == nil || state.Player.Name == "" {
		return errors.New("jogador ausente")
	}
	if len(state.Grid) == 0 {
		return errors.New("mapa ausente")
	}
	if state.Depth < 1 {
		return fmt.Errorf("nivel de masmorra invalido: %d", state.Depth)
	}
	return nil
}

// Delete removes a slot.  Deleting an empty slot is not an error.
func (s *Store) Delete(slot int) error {
	err := os.Remove(s.slotPath(slot))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removendo save %d: %w", slot, err)
	}
	return nil
}

// Info describes one occupied slot for the load screen.
type Info struct {
	Meta    Meta
	SavedAt time.Time
	Broken  bool
}

// List scans the save directory and returns one Info per occupied slot,
// ordered by slot number.  Unreadable files still appear, flagged as
// broken, so the player can see and overwrite them.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("lendo diretorio de saves %s: %w", s.dir, err)
	}
	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "save_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		slot, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "save_"), ".json"))
		if err != nil || slot < 1 {
			continue
		}
		info, err := s.describe(slot)
		if err != nil {
			s.logger.Warn("save ilegivel", zap.Int("slot", slot), zap.Error(err))
			infos = append(infos, Info{Meta: Meta{Slot: slot}, Broken: true})
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Meta.Slot < infos[j].Meta.Slot })
	return infos, nil
}

func (s *Store) describe(slot int) (Info, error) {
	raw, err := os.ReadFile(s.slotPath(slot))
	if err != nil {
		return Info{}, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Info{}, err
	}
	if env.SaveVersion == 0 {
		state, err := s.migrateV1(raw, slot)
		if err != nil {
			return Info{}, err
		}
		return Info{Meta: Meta{
			Slot:       slot,
			Character:  state.Player.Name,
			Class:      state.Player.Class,
			Level:      state.Player.Level,
			Depth:      state.Depth,
			Difficulty: state.Difficulty,
		}}, nil
	}
	savedAt, _ := time.Parse(time.RFC3339, env.SavedAt)
	env.Meta.Slot = slot
	return Info{Meta: env.Meta, SavedAt: savedAt}, nil
}
