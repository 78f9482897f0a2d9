package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestEnemyLevelFactor(t *testing.T) {
	assert.Equal(t, 1.0, EnemyLevelFactor(1))
	assert.Equal(t, 1.25, EnemyLevelFactor(2))
	assert.Equal(t, 2.0, EnemyLevelFactor(5))
	assert.Equal(t, 1.0, EnemyLevelFactor(0))
}

func TestEncounterProbabilityClamped(t *testing.T) {
	normal := Difficulty("normal")
	assert.InDelta(t, 0.5, EncounterProbability(1, normal), 1e-9)
	assert.InDelta(t, 0.55, EncounterProbability(2, normal), 1e-9)
	// Deep floors cap at the maximum.
	assert.InDelta(t, 0.90, EncounterProbability(50, normal), 1e-9)
}

func TestPropertyEncounterProbabilityBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 200).Draw(t, "depth")
		profile := rapid.SampledFrom(Difficulties()).Draw(t, "profile")
		p := EncounterProbability(depth, profile)
		if p < 0.20 || p > 0.90 {
			t.Fatalf("probability %f out of [0.20, 0.90]", p)
		}
	})
}

func TestBossBonusCaps(t *testing.T) {
	hp, atk, def, xpMult := BossBonus(1)
	assert.Equal(t, 0.5, hp)
	assert.Equal(t, 0.3, atk)
	assert.Equal(t, 0.2, def)
	assert.Equal(t, 1.5, xpMult)

	hp, atk, def, xpMult = BossBonus(1000)
	assert.Equal(t, 1.5, hp)
	assert.Equal(t, 1.0, atk)
	assert.Equal(t, 0.8, def)
	assert.Equal(t, 3.0, xpMult)
}

func TestPropertyBossBonusMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 100).Draw(t, "depth")
		hp1, atk1, def1, xp1 := BossBonus(depth)
		hp2, atk2, def2, xp2 := BossBonus(depth + 1)
		if hp2 < hp1 || atk2 < atk1 || def2 < def1 || xp2 < xp1 {
			t.Fatalf("boss bonus decreased from depth %d to %d", depth, depth+1)
		}
	})
}

func TestCoinDropRange(t *testing.T) {
	lo, hi := CoinDropRange("comum")
	assert.Equal(t, 4, lo)
	assert.Equal(t, 12, hi)
	lo, hi = CoinDropRange("desconhecida")
	assert.Equal(t, 3, lo)
	assert.Equal(t, 10, hi)
}

func TestConsumableSwapChance(t *testing.T) {
	assert.Equal(t, 0.35, ConsumableSwapChance("comum"))
	assert.Equal(t, 0.25, ConsumableSwapChance("incomum"))
	assert.Equal(t, 0.15, ConsumableSwapChance("raro"))
	assert.Equal(t, 0.0, ConsumableSwapChance("chefe"))
}

func TestDifficultyLookup(t *testing.T) {
	assert.Equal(t, "normal", Difficulty("normal").Key)
	assert.True(t, KnownDifficulty("facil"))
	assert.False(t, KnownDifficulty("pesadelo"))
	// Unknown keys fall back to the default profile.
	assert.Equal(t, DefaultDifficulty, Difficulty("pesadelo").Key)
}

// Harder profiles must never be easier on any axis the player feels.
func TestDifficultyMonotonicity(t *testing.T) {
	facil := Difficulty("facil")
	normal := Difficulty("normal")
	dificil := Difficulty("dificil")

	assert.True(t, facil.EnemyHPMult <= normal.EnemyHPMult && normal.EnemyHPMult <= dificil.EnemyHPMult)
	assert.True(t, facil.EnemyAttackMult <= normal.EnemyAttackMult && normal.EnemyAttackMult <= dificil.EnemyAttackMult)
	assert.True(t, facil.EnemyDefenseMult <= normal.EnemyDefenseMult && normal.EnemyDefenseMult <= dificil.EnemyDefenseMult)
	assert.True(t, facil.XPRewardMult >= normal.XPRewardMult && normal.XPRewardMult >= dificil.XPRewardMult)
	assert.True(t, facil.CoinDropMult >= normal.CoinDropMult && normal.CoinDropMult >= dificil.CoinDropMult)
	assert.True(t, facil.EncounterMult <= normal.EncounterMult && normal.EncounterMult <= dificil.EncounterMult)
	assert.True(t, facil.ConsumableBonus >= normal.ConsumableBonus && normal.ConsumableBonus >= dificil.ConsumableBonus)
}
