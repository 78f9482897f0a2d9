package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// EventInput is the state exposed to an event script.
type EventInput struct {
	// HPDelta and CoinDelta are the catalog-defined effect deltas the
	// script may adjust.
	HPDelta   int
	CoinDelta int
	// Player snapshot, read-only from the script's point of view.
	PlayerHP    int
	PlayerMaxHP int
	PlayerLevel int
	Depth       int
}

// EventOutput carries the (possibly adjusted) deltas back from the script.
type EventOutput struct {
	HPDelta   int
	CoinDelta int
	// Message, when set, replaces the event's default narration line.
	Message string
}

// RunEventScript executes chunk in a fresh sandboxed state. The script sees
// the globals `hp`, `moedas`, `jogador_hp`, `jogador_hp_max`, `jogador_nivel`
// and `andar`, and may reassign `hp`, `moedas`, and `mensagem`.
//
// Postcondition: Returns the adjusted deltas, or an error when the chunk
// fails to compile, exceeds the instruction limit, or raises.
func RunEventScript(chunk string, in EventInput) (EventOutput, error) {
	L := NewSandboxedState(0)
	defer L.Close()

	L.SetGlobal("hp", lua.LNumber(in.HPDelta))
	L.SetGlobal("moedas", lua.LNumber(in.CoinDelta))
	L.SetGlobal("jogador_hp", lua.LNumber(in.PlayerHP))
	L.SetGlobal("jogador_hp_max", lua.LNumber(in.PlayerMaxHP))
	L.SetGlobal("jogador_nivel", lua.LNumber(in.PlayerLevel))
	L.SetGlobal("andar", lua.LNumber(in.Depth))

	if err := L.DoString(chunk); err != nil {
		return EventOutput{}, fmt.Errorf("executando script de evento: %w", err)
	}

	out := EventOutput{HPDelta: in.HPDelta, CoinDelta: in.CoinDelta}
	if v, ok := L.GetGlobal("hp").(lua.LNumber); ok {
		out.HPDelta = int(v)
	}
	if v, ok := L.GetGlobal("moedas").(lua.LNumber); ok {
		out.CoinDelta = int(v)
	}
	if v, ok := L.GetGlobal("mensagem").(lua.LString); ok {
		out.Message = string(v)
	}
	return out, nil
}
