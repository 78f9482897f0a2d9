package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestSandboxAllowsSafeLibraries(t *testing.T) {
	L := NewSandboxedState(0)
	defer L.Close()

	err := L.DoString(`
		resultado = math.floor(3.7) + #("abc") + table.concat({"a", "b"}):len()
	`)
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(8), L.GetGlobal("resultado"))
}

func TestSandboxStripsDangerousGlobals(t *testing.T) {
	L := NewSandboxedState(0)
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), name)
	}
	// os and io were never opened.
	assert.Equal(t, lua.LNil, L.GetGlobal("os"))
	assert.Equal(t, lua.LNil, L.GetGlobal("io"))
}

func TestSandboxInstructionLimit(t *testing.T) {
	L := NewSandboxedState(1000)
	defer L.Close()

	err := L.DoString(`while true do end`)
	assert.Error(t, err, "an infinite loop must be cut off")
}

func TestSandboxLimitAllowsShortScripts(t *testing.T) {
	L := NewSandboxedState(10_000)
	defer L.Close()

	require.NoError(t, L.DoString(`
		soma = 0
		for i = 1, 100 do soma = soma + i end
	`))
	assert.Equal(t, lua.LNumber(5050), L.GetGlobal("soma"))
}

func TestRunEventScriptAdjustsDeltas(t *testing.T) {
	out, err := RunEventScript(`
		hp = hp + jogador_nivel
		moedas = moedas + andar * 5
		mensagem = "O veio brilha mais forte nas profundezas."
	`, EventInput{HPDelta: 2, CoinDelta: 10, PlayerHP: 25, PlayerMaxHP: 30, PlayerLevel: 3, Depth: 4})

	require.NoError(t, err)
	assert.Equal(t, 5, out.HPDelta)
	assert.Equal(t, 30, out.CoinDelta)
	assert.Equal(t, "O veio brilha mais forte nas profundezas.", out.Message)
}

func TestRunEventScriptReadsPlayerSnapshot(t *testing.T) {
	out, err := RunEventScript(`
		if jogador_hp < jogador_hp_max / 2 then
			hp = 10
		end
	`, EventInput{PlayerHP: 5, PlayerMaxHP: 30})

	require.NoError(t, err)
	assert.Equal(t, 10, out.HPDelta)
}

func TestRunEventScriptUntouchedGlobalsPassThrough(t *testing.T) {
	out, err := RunEventScript(`x = 1`, EventInput{HPDelta: -3, CoinDelta: 7})
	require.NoError(t, err)
	assert.Equal(t, -3, out.HPDelta)
	assert.Equal(t, 7, out.CoinDelta)
	assert.Empty(t, out.Message)
}

func TestRunEventScriptCompileError(t *testing.T) {
	_, err := RunEventScript(`this is not lua (`, EventInput{})
	assert.Error(t, err)
}

func TestRunEventScriptRuntimeError(t *testing.T) {
	_, err := RunEventScript(`error("explodiu")`, EventInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explodiu")
}

func TestRunEventScriptInfiniteLoop(t *testing.T) {
	_, err := RunEventScript(`while true do end`, EventInput{})
	assert.Error(t, err)
}
