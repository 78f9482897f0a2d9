package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/procha/masmorra/internal/config"
	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/balance"
	"github.com/procha/masmorra/internal/game/character"
	"github.com/procha/masmorra/internal/game/dungeon"
	"github.com/procha/masmorra/internal/game/enemy"
	"github.com/procha/masmorra/internal/game/item"
	"github.com/procha/masmorra/internal/game/plot"
	"github.com/procha/masmorra/internal/game/rng"
	"github.com/procha/masmorra/internal/storage/save"
	"github.com/procha/masmorra/internal/updater"
)

// fakeUI feeds a scripted input sequence and records everything printed.
type fakeUI struct {
	inputs []string
	lines  []string
}

func (u *fakeUI) Clear() {}

func (u *fakeUI) Print(lines ...string) { u.lines = append(u.lines, lines...) }

func (u *fakeUI) Prompt(label string) string {
	if len(u.inputs) == 0 {
		panic("fakeUI: scripted input exhausted at prompt " + label)
	}
	next := u.inputs[0]
	u.inputs = u.inputs[1:]
	return next
}

func (u *fakeUI) Pause() {}

func (u *fakeUI) RenderMap(_ dungeon.Grid, _ *character.Character, _ int, _ string) {
	u.lines = append(u.lines, "[mapa]")
}

func (u *fakeUI) RenderStatus(_ *character.Character) {
	u.lines = append(u.lines, "[ficha]")
}

func (u *fakeUI) RenderCombat(_ *character.Character, _ *enemy.Enemy, _ []string) {
	u.lines = append(u.lines, "[combate]")
}

func (u *fakeUI) output() string { return strings.Join(u.lines, "\n") }

// fixedSource pins every roll, keeping flee and damage outcomes exact.
type fixedSource struct {
	f float64
}

func (s fixedSource) Intn(n int) int   { return 0 }
func (s fixedSource) Float64() float64 { return s.f }

func engineRegistry() *content.Registry {
	reg := &content.Registry{
		Classes: []content.ClassDef{
			{ID: "guerreiro", Name: "Guerreiro", Description: "resistente", HP: 30, Attack: 6, Defense: 4},
		},
		ItemsByRarity: map[string][]content.ItemDef{
			"comum": {{Name: "Espada Curta", Kind: content.ItemKindWeapon, Bonus: map[string]int{"ataque": 2}}},
		},
		Consumables: []content.ItemDef{
			{Name: "Poção de Cura Pequena", Kind: content.ItemKindConsumable, Effect: map[string]int{"hp": 10}},
		},
		Enemies: []content.EnemyDef{
			{ID: "goblin", Name: "Goblin", BaseHP: 8, BaseAttack: 3, BaseDefense: 1, BaseXP: 15, DropRarity: "comum"},
			{ID: "chefe_orc", Name: "Chefe Orc", BaseHP: 40, BaseAttack: 8, BaseDefense: 3, BaseXP: 120, DropRarity: "comum"},
		},
		Events: []content.EventDef{
			{ID: "fonte", Name: "Fonte Cristalina", Effects: content.EventEffects{HP: 5}},
		},
		Rooms: map[string][]content.RoomDef{
			"caminho": {
				{Name: "Corredor", Description: "pedras frias"},
				{Name: "Salao", Description: "colunas partidas"},
			},
		},
		Plots: []content.PlotDef{
			{
				ID: "irmao_perdido", Name: "O Irmão Perdido",
				Motivations: []string{"resgate"},
				FloorMin:    2, FloorMax: 4,
				Clues:    []string{"Marcas de arrasto descem para o andar {andar_alvo}."},
				RoomName: "Cela Esquecida", RoomDescription: "Correntes pendem da parede.",
				Outcomes: map[string][]string{content.OutcomeAlive: {"Ele vive."}},
			},
		},
		Bosses: []content.BossDef{
			{ID: "chefe_orc", Type: "chefe_orc", Name: "Gromlok", Description: "Uma montanha de músculos.", FloorMin: 1, FloorMax: 99},
		},
		Motivations: []content.MotivationDef{
			{ID: "resgate", Title: "O Resgate", Description: "Alguém que você ama desapareceu aqui."},
		},
	}
	if err := reg.Validate(); err != nil {
		panic(err)
	}
	return reg
}

func newTestMachine(t *testing.T, inputs []string, src rng.Source) (*Machine, *fakeUI, *save.Store) {
	t.Helper()
	store, err := save.NewStore(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	ui := &fakeUI{inputs: inputs}
	cfg := config.GameConfig{Difficulty: "normal", Tutorial: true}
	m := New(engineRegistry(), ui, store, src, cfg, zaptest.NewLogger(t))
	return m, ui, store
}

// testRun builds a minimal in-progress run on a handcrafted floor.
func testRun() *runContext {
	rc := newRunContext()
	rc.Player = character.New("Aria", content.ClassDef{ID: "guerreiro", Name: "Guerreiro", HP: 30, Attack: 6, Defense: 4})
	rc.Difficulty = balance.Difficulty("normal")
	rc.Grid = dungeon.Grid{
		{
			&dungeon.Room{Kind: dungeon.KindEntrance, Name: "Entrada", Visited: true},
			&dungeon.Room{Kind: dungeon.KindCorridor, Name: "Corredor", Description: "...", Visited: true},
			&dungeon.Room{Kind: dungeon.KindBoss, Name: "Covil", Description: "...", IsBoss: true, BossID: "chefe_orc", BossName: "Gromlok", CanHaveEnemy: true},
			&dungeon.Room{Kind: dungeon.KindStaircase, Name: "Escadaria", Description: "..."},
		},
	}
	rc.Player.X, rc.Player.Y = 0, 0
	return rc
}

func TestRunMenuExit(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"4"}, rng.New(1))
	require.NoError(t, m.Run(context.Background()))
	assert.Contains(t, ui.output(), "=== MASMORRA ===")
	assert.Contains(t, ui.output(), "Ate a proxima, aventureiro!")
}

func TestMenuShowsUpdateNotice(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"4"}, rng.New(1))
	notices := make(chan *updater.Notice, 1)
	notices <- &updater.Notice{CurrentVersion: "1.0.0", LatestVersion: "v1.2.0", URL: "https://example.com/release"}
	m.NotifyUpdates(notices)

	require.NoError(t, m.Run(context.Background()))
	assert.Contains(t, ui.output(), "Nova versao disponivel: v1.2.0 (voce tem 1.0.0)")
	assert.Contains(t, ui.output(), "Baixe em: https://example.com/release")

	// The notice is consumed; the next visit to the menu stays quiet.
	ui.lines = nil
	ui.inputs = []string{"4"}
	require.NoError(t, m.Run(context.Background()))
	assert.NotContains(t, ui.output(), "Nova versao disponivel")
}

func TestRunCancelledContext(t *testing.T) {
	m, _, _ := newTestMachine(t, nil, rng.New(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
}

func TestCreationFlow(t *testing.T) {
	inputs := []string{
		"Aria", // nome
		"1",    // classe guerreiro
		"2",    // dificuldade normal
		"1",    // motivacao resgate
	}
	m, ui, _ := newTestMachine(t, inputs, rng.New(7))
	next := m.creation()
	assert.Equal(t, StateExploration, next)

	require.NotNil(t, m.run)
	player := m.run.Player
	assert.Equal(t, "Aria", player.Name)
	assert.Equal(t, "Guerreiro", player.Class)
	assert.Equal(t, "normal", m.run.Difficulty.Key)
	assert.Equal(t, 1, m.run.Depth)

	// The player starts on the visited entrance.
	x, y, ok := m.run.Grid.Find(dungeon.KindEntrance)
	require.True(t, ok)
	assert.Equal(t, x, player.X)
	assert.Equal(t, y, player.Y)
	assert.True(t, m.run.Grid.At(x, y).Visited)

	require.NotNil(t, m.run.Arc)
	assert.Equal(t, "irmao_perdido", m.run.Arc.ID)
	assert.GreaterOrEqual(t, m.run.Arc.TargetDepth, 2)

	require.NotNil(t, player.Motivation)
	assert.Equal(t, "resgate", player.Motivation.ID)
	assert.Contains(t, ui.output(), "Como jogar:")
	assert.True(t, m.run.TutorialDone)
}

func TestQuitToMenuClosesRun(t *testing.T) {
	m, ui, store := newTestMachine(t, []string{"q", "n"}, rng.New(1))
	m.run = testRun()
	m.run.Stats.Turns = 9

	next := m.exploration()
	assert.Equal(t, StateMenu, next)
	assert.Nil(t, m.run, "leaving the dungeon resets the run")

	out := ui.output()
	assert.Contains(t, out, "=== FIM DA AVENTURA ===")
	assert.Contains(t, out, "vive para contar a historia")
	assert.Contains(t, out, "Turnos jogados:      9")

	runs, err := store.History()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "abandono", runs[0].Outcome)
	assert.Empty(t, runs[0].CauseOfDeath)
}

func TestQuitToMenuKeepsSavedSlot(t *testing.T) {
	m, _, store := newTestMachine(t, []string{"q", "s", "3"}, rng.New(1))
	m.run = testRun()

	next := m.exploration()
	assert.Equal(t, StateMenu, next)
	assert.Nil(t, m.run)

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 3, infos[0].Meta.Slot, "the slot survives a voluntary exit")
}

func TestRunCreationBackToMenu(t *testing.T) {
	m, _, _ := newTestMachine(t, []string{"1", "0", "4"}, rng.New(1))
	require.NoError(t, m.Run(context.Background()))
	assert.Nil(t, m.run)
}

func TestMoveBlockedByWall(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"w"}, rng.New(1))
	m.run = testRun()

	next := m.exploration()
	assert.Equal(t, StateExploration, next)
	assert.Contains(t, ui.output(), "Uma parede bloqueia o caminho.")
	assert.Equal(t, 0, m.run.Player.X)
	assert.Zero(t, m.run.Stats.Turns, "a blocked move costs no turn")
}

func TestMoveIntoCorridor(t *testing.T) {
	m, _, _ := newTestMachine(t, []string{"d"}, rng.New(1))
	m.run = testRun()

	next := m.exploration()
	assert.Equal(t, StateExploration, next)
	assert.Equal(t, 1, m.run.Player.X)
	assert.Equal(t, 1, m.run.Stats.Turns)
}

func TestStaircaseSealedWhileBossLives(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"d"}, rng.New(1))
	m.run = testRun()
	m.run.Player.X = 2 // already past the boss cell, which still holds him

	next := m.exploration()
	assert.Equal(t, StateExploration, next)
	assert.Contains(t, ui.output(), "O chefe deste andar ainda vive.")
	assert.Equal(t, 1, m.run.Depth)
}

func TestStaircaseDescends(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"d", "s"}, rng.New(3))
	m.run = testRun()
	m.run.Player.X = 2
	m.run.Grid.At(2, 0).EnemyDefeated = true
	m.run.Player.HP = 10

	next := m.exploration()
	assert.Equal(t, StateExploration, next)
	assert.Equal(t, 2, m.run.Depth)
	assert.Equal(t, 1, m.run.Stats.FloorsCompleted)
	// 25% of 30 max HP.
	assert.Equal(t, 17, m.run.Player.HP)
	assert.Contains(t, ui.output(), "Voce desce para o andar 2")

	// The new floor is freshly generated and the player stands on its
	// entrance.
	x, y, ok := m.run.Grid.Find(dungeon.KindEntrance)
	require.True(t, ok)
	assert.Equal(t, x, m.run.Player.X)
	assert.Equal(t, y, m.run.Player.Y)
}

func TestDescendShowsClueOncePerFloor(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"d", "s"}, rng.New(3))
	m.run = testRun()
	m.run.Player.X = 2
	m.run.Grid.At(2, 0).EnemyDefeated = true
	m.run.Arc = &plot.Arc{
		ID:          "irmao_perdido",
		TargetDepth: 4,
		Clues:       []string{"Marcas de arrasto descem para o andar {andar_alvo}."},
	}

	m.exploration()
	assert.Contains(t, ui.output(), "Marcas de arrasto descem para o andar 4.")
	assert.True(t, m.run.CluesShown[2])
}

func TestCombatVictoryRewards(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"1"}, rng.New(5))
	m.run = testRun()
	room := m.run.Grid.At(1, 0)
	room.CanHaveEnemy = true
	room.Enemy = &enemy.Enemy{
		Name: "Goblin (Nível 1)", HP: 1, MaxHP: 8, Attack: 1, Defense: 0,
		XPReward: 150, DropRarity: "comum", DropItem: "Espada Curta",
	}
	m.run.CombatRoom = room
	m.run.CombatFoe = room.Enemy

	next := m.combat()
	assert.Equal(t, StateExploration, next)
	assert.True(t, room.EnemyDefeated)
	assert.Nil(t, room.Enemy)
	assert.Equal(t, 1, m.run.Stats.EnemiesDefeated)

	player := m.run.Player
	assert.Equal(t, 2, player.Level, "150 XP crosses the first threshold")
	assert.Positive(t, player.Wallet.Bronze)
	assert.Positive(t, m.run.Stats.ItemsObtained)

	names := make([]string, 0, len(player.Inventory))
	for _, it := range player.Inventory {
		names = append(names, it.Name)
	}
	assert.Contains(t, names, "Espada Curta", "the guaranteed drop always lands")
	assert.Contains(t, ui.output(), "foi derrotado!")
}

func TestCombatLossEndsRun(t *testing.T) {
	m, ui, store := newTestMachine(t, []string{"1"}, fixedSource{f: 0.5})
	m.run = testRun()
	m.run.Player.HP = 1
	m.run.Slot = 1
	_, err := store.Save(m.run.toState(), 1)
	require.NoError(t, err)

	room := m.run.Grid.At(1, 0)
	room.Enemy = &enemy.Enemy{Name: "Troll (Nível 1)", HP: 500, MaxHP: 500, Attack: 50, Defense: 40}
	m.run.CombatRoom = room
	m.run.CombatFoe = room.Enemy

	next := m.combat()
	assert.Equal(t, StateMenu, next)
	assert.Nil(t, m.run, "permadeath clears the run")
	assert.Contains(t, ui.output(), "=== FIM DE JOGO ===")

	infos, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, infos, "the save slot dies with the character")

	runs, err := store.History()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "derrota", runs[0].Outcome)
	assert.Equal(t, "morto por Troll (Nível 1)", runs[0].CauseOfDeath)
}

func TestCombatFleeRestoresPosition(t *testing.T) {
	// Float64 = 0.2 passes the flee roll on the first try.
	m, ui, store := newTestMachine(t, []string{"3"}, fixedSource{f: 0.2})
	m.run = testRun()
	m.run.Player.X, m.run.Player.Y = 1, 0
	m.run.PrevX, m.run.PrevY = 0, 0

	room := m.run.Grid.At(1, 0)
	room.Enemy = &enemy.Enemy{Name: "Goblin (Nível 1)", HP: 8, MaxHP: 8, Attack: 3, Defense: 1}
	m.run.CombatRoom = room
	m.run.CombatFoe = room.Enemy

	next := m.combat()
	assert.Equal(t, StateExploration, next)
	require.NotNil(t, m.run, "escaping alive never ends the run")
	assert.Equal(t, 0, m.run.Player.X, "the player retreats to the previous cell")
	require.NotNil(t, room.Enemy, "the enemy keeps waiting in its room")
	assert.True(t, room.Enemy.IsAlive())
	assert.Contains(t, ui.output(), "Voce escapa por pouco!")
	assert.NotContains(t, ui.output(), "=== FIM DE JOGO ===")

	runs, err := store.History()
	require.NoError(t, err)
	assert.Empty(t, runs, "a successful escape is not a defeat")
}

func TestBossRoomRetreat(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"d", "2"}, rng.New(1))
	m.run = testRun()
	m.run.Player.X = 1
	room := m.run.Grid.At(2, 0)
	room.BossDescription = "Uma montanha de músculos bloqueia a passagem."

	next := m.exploration()
	assert.Equal(t, StateExploration, next)
	assert.Equal(t, 1, m.run.Player.X, "retreating restores the previous cell")

	out := ui.output()
	assert.Contains(t, out, "=== Gromlok ===")
	assert.Contains(t, out, "Uma montanha de músculos bloqueia a passagem.")
	assert.Contains(t, out, "1. Enfrentar agora")
	assert.NotContains(t, out, "[combate]")
	require.NotNil(t, room.Enemy, "the guardian stays spawned and waiting")
	assert.True(t, room.BossIntroShown)
}

func TestBossRoomFight(t *testing.T) {
	m, _, _ := newTestMachine(t, []string{"d", "1"}, rng.New(1))
	m.run = testRun()
	m.run.Player.X = 1

	next := m.exploration()
	assert.Equal(t, StateCombat, next)
	require.NotNil(t, m.run.CombatFoe)
	assert.Contains(t, m.run.CombatFoe.Name, "Gromlok")
}

func TestBossRoomInventoryThenRetreat(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"d", "3", "0", "2"}, rng.New(1))
	m.run = testRun()
	m.run.Player.X = 1

	next := m.exploration()
	assert.Equal(t, StateExploration, next)
	assert.Equal(t, 1, m.run.Player.X)
	assert.Contains(t, ui.output(), "=== INVENTARIO ===")
}

func TestEventAndEnemyShareARoom(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"d", "1"}, fixedSource{f: 0.5})
	m.run = testRun()
	m.run.Player.HP = 10
	room := m.run.Grid.At(1, 0)
	room.EventID = "fonte"
	room.CanHaveEnemy = true
	room.Enemy = &enemy.Enemy{Name: "Goblin (Nível 1)", HP: 1, MaxHP: 8, Attack: 1, Defense: 0, XPReward: 15}

	next := m.exploration()
	assert.Equal(t, StateCombat, next, "the enemy fires on the same entry as the event")
	assert.True(t, room.EventResolved)
	assert.Equal(t, 15, m.run.Player.HP, "the healing spring applied first")
	require.NotNil(t, m.run.CombatFoe)
	assert.Contains(t, ui.output(), "FONTE CRISTALINA")
}

func TestInventoryEquipAndBack(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"e 1", "0"}, rng.New(1))
	m.run = testRun()
	m.run.Player.Inventory = append(m.run.Player.Inventory,
		item.Item{Name: "Espada Curta", Kind: content.ItemKindWeapon, Bonus: map[string]int{"ataque": 2}})

	next := m.inventory()
	assert.Equal(t, StateInventory, next)
	assert.Equal(t, 8, m.run.Player.Attack)
	assert.Contains(t, ui.output(), "Voce equipa Espada Curta.")

	next = m.inventory()
	assert.Equal(t, StateExploration, next)
}

func TestInventoryUseConsumable(t *testing.T) {
	m, _, _ := newTestMachine(t, []string{"u 1"}, rng.New(1))
	m.run = testRun()
	m.run.Player.HP = 10
	m.run.Player.Inventory = append(m.run.Player.Inventory,
		item.Item{Name: "Poção de Cura Pequena", Kind: content.ItemKindConsumable, Effect: map[string]int{"hp": 10}})

	m.inventory()
	assert.Equal(t, 20, m.run.Player.HP)
	assert.Empty(t, m.run.Player.Inventory)
}

func TestLoadMenuRestoresRun(t *testing.T) {
	m, ui, store := newTestMachine(t, []string{"2"}, rng.New(1))
	rc := testRun()
	rc.Depth = 3
	_, err := store.Save(rc.toState(), 2)
	require.NoError(t, err)

	next := m.loadMenu()
	assert.Equal(t, StateExploration, next)

	require.NotNil(t, m.run)
	assert.Equal(t, "Aria", m.run.Player.Name)
	assert.Equal(t, 3, m.run.Depth)
	assert.Equal(t, 2, m.run.Slot)
	assert.Contains(t, ui.output(), "Bem-vindo de volta, Aria!")
}

func TestLoadMenuEmpty(t *testing.T) {
	m, ui, _ := newTestMachine(t, []string{"2", "4"}, rng.New(1))
	require.NoError(t, m.Run(context.Background()))
	assert.Contains(t, ui.output(), "Nenhum save encontrado.")
}

func TestHistoryScreen(t *testing.T) {
	m, ui, store := newTestMachine(t, []string{"3", "4"}, rng.New(1))
	store.AppendHistory(save.RunSummary{
		Character: "Brun", Class: "Guerreiro", Outcome: "derrota",
		Depth: 2, Difficulty: "normal", CauseOfDeath: "morto por Gromlok (Nível 2)",
	})

	require.NoError(t, m.Run(context.Background()))
	out := ui.output()
	assert.Contains(t, out, "=== HISTORICO DE PARTIDAS ===")
	assert.Contains(t, out, "Brun (Guerreiro) - derrota no andar 2 [normal]")
	assert.Contains(t, out, "morto por Gromlok (Nível 2)")
}

func TestSaveRunPromptsForSlot(t *testing.T) {
	m, ui, store := newTestMachine(t, []string{"v", "2"}, rng.New(1))
	m.run = testRun()

	next := m.exploration()
	assert.Equal(t, StateExploration, next)
	assert.Equal(t, 2, m.run.Slot)
	assert.Contains(t, ui.output(), "Jogo salvo no slot 2.")

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].Meta.Slot)
}
