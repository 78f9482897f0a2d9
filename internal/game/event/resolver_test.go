package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/game/character"
)

func eventRegistry(events ...content.EventDef) *content.Registry {
	reg := &content.Registry{
		Classes: []content.ClassDef{{ID: "g", Name: "G", HP: 30}},
		ItemsByRarity: map[string][]content.ItemDef{
			"comum": {{Name: "Adaga", Kind: content.ItemKindWeapon}},
		},
		Enemies: []content.EnemyDef{
			{ID: "goblin", Name: "Goblin", BaseHP: 10, BaseAttack: 4, BaseXP: 15},
		},
		Rooms:       map[string][]content.RoomDef{"caminho": {{Name: "Sala", Description: "..."}}},
		Events:      events,
		Motivations: []content.MotivationDef{{ID: "m", Description: "..."}},
	}
	if err := reg.Validate(); err != nil {
		panic(err)
	}
	return reg
}

func testPlayer() *character.Character {
	return character.New("Aria", content.ClassDef{ID: "g", Name: "Guerreiro", HP: 30, Attack: 6, Defense: 4})
}

func TestTriggerHealingEvent(t *testing.T) {
	r := NewResolver(eventRegistry(content.EventDef{
		ID: "fonte", Name: "Fonte Cristalina", Description: "Água límpida brota da rocha.",
		Effects: content.EventEffects{HP: 8},
	}), zaptest.NewLogger(t))

	ch := testPlayer()
	ch.ApplyDamage(20)
	res := r.Trigger("fonte", ch, 1, 1)

	assert.True(t, res.Applied)
	assert.Equal(t, "FONTE CRISTALINA", res.Title)
	assert.Equal(t, 18, ch.HP)
	assert.Contains(t, res.Messages, "Você recuperou 8 de HP.")
}

func TestTriggerDamageEventCanKill(t *testing.T) {
	r := NewResolver(eventRegistry(content.EventDef{
		ID: "armadilha", Name: "Armadilha", Effects: content.EventEffects{HP: -50},
	}), zaptest.NewLogger(t))

	ch := testPlayer()
	res := r.Trigger("armadilha", ch, 1, 1)

	assert.True(t, res.Applied)
	assert.Equal(t, 0, ch.HP)
	assert.False(t, ch.IsAlive())
}

func TestTriggerCoinGainScaled(t *testing.T) {
	r := NewResolver(eventRegistry(content.EventDef{
		ID: "bau", Name: "Baú", Effects: content.EventEffects{Coins: 20},
	}), zaptest.NewLogger(t))

	ch := testPlayer()
	res := r.Trigger("bau", ch, 1, 1.5)

	assert.Equal(t, 30, res.CoinsGained)
	assert.Equal(t, 30, ch.Wallet.Bronze)
}

func TestTriggerCoinGainNeverZero(t *testing.T) {
	r := NewResolver(eventRegistry(content.EventDef{
		ID: "migalha", Name: "Migalha", Effects: content.EventEffects{Coins: 5},
	}), zaptest.NewLogger(t))

	ch := testPlayer()
	res := r.Trigger("migalha", ch, 1, 0)
	assert.Equal(t, 1, res.CoinsGained, "a positive base gain always pays at least 1")
}

func TestTriggerUnaffordableCostSkipsEverything(t *testing.T) {
	r := NewResolver(eventRegistry(content.EventDef{
		ID: "mercador", Name: "Mercador",
		Effects: content.EventEffects{
			Coins: -30,
			Buffs: []content.BuffDef{{Attribute: character.AttrDefense, Value: 2, Combats: 3}},
		},
	}), zaptest.NewLogger(t))

	ch := testPlayer()
	ch.Wallet.Receive(10)
	res := r.Trigger("mercador", ch, 1, 1)

	assert.False(t, res.Applied)
	assert.Equal(t, 10, ch.Wallet.Bronze, "no partial debit")
	assert.Equal(t, 4, ch.Defense, "no partial buff")
	assert.Contains(t, res.Messages, "Você não tem moedas suficientes. A oportunidade passa sem deixar nada.")
}

func TestTriggerAffordableCostAppliesBuff(t *testing.T) {
	r := NewResolver(eventRegistry(content.EventDef{
		ID: "mercador", Name: "Mercador",
		Effects: content.EventEffects{
			Coins: -30,
			Buffs: []content.BuffDef{{Attribute: character.AttrDefense, Value: 2, Combats: 3, Message: "Sua pele endurece."}},
		},
	}), zaptest.NewLogger(t))

	ch := testPlayer()
	ch.Wallet.Receive(50)
	res := r.Trigger("mercador", ch, 1, 1)

	require.True(t, res.Applied)
	assert.Equal(t, 20, ch.Wallet.Bronze)
	assert.Equal(t, 6, ch.Defense)
	assert.Contains(t, res.Messages, "Sua pele endurece.")
}

func TestTriggerScriptAdjustsDeltas(t *testing.T) {
	r := NewResolver(eventRegistry(content.EventDef{
		ID: "veio", Name: "Veio de Ouro",
		Effects: content.EventEffects{Coins: 10},
		Script:  "moedas = moedas + andar * 5",
	}), zaptest.NewLogger(t))

	ch := testPlayer()
	res := r.Trigger("veio", ch, 4, 1)

	assert.Equal(t, 30, res.CoinsGained)
	assert.Equal(t, 30, ch.Wallet.Bronze)
}

func TestTriggerBrokenScriptFallsBack(t *testing.T) {
	r := NewResolver(eventRegistry(content.EventDef{
		ID: "quebrado", Name: "Quebrado",
		Effects: content.EventEffects{HP: -3},
		Script:  "this is not lua (",
	}), zaptest.NewLogger(t))

	ch := testPlayer()
	res := r.Trigger("quebrado", ch, 1, 1)

	assert.True(t, res.Applied, "declared effects still apply")
	assert.Equal(t, 27, ch.HP)
}

func TestTriggerUnknownEvent(t *testing.T) {
	r := NewResolver(eventRegistry(), zaptest.NewLogger(t))
	ch := testPlayer()
	res := r.Trigger("inexistente", ch, 1, 1)

	assert.True(t, res.Applied)
	assert.Equal(t, []string{"Nada acontece."}, res.Messages)
	assert.Equal(t, 30, ch.HP)
}
