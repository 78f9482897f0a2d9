package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/procha/masmorra/internal/game/character"
)

// inventory is the pause screen for items and equipment.  It never
// consumes a dungeon turn.
func (m *Machine) inventory() State {
	player := m.run.Player
	m.ui.Clear()
	m.ui.Print("=== INVENTARIO ===", "")
	m.ui.Print("Carteira: " + player.Wallet.Format())
	m.ui.Print(
		"Arma:   "+slotName(player, character.SlotWeapon),
		"Escudo: "+slotName(player, character.SlotShield),
		"",
	)
	if len(player.Inventory) == 0 {
		m.ui.Print("A mochila esta vazia.")
	}
	for i, it := range player.Inventory {
		m.ui.Print(fmt.Sprintf("%d. %s (%s) - %s", i+1, it.Name, it.Kind, it.Description))
	}
	m.ui.Print(
		"",
		"u <n>  usar consumivel",
		"e <n>  equipar item",
		"r <arma|escudo>  remover equipamento",
		"0      voltar",
	)

	input := strings.Fields(strings.ToLower(strings.TrimSpace(m.ui.Prompt("Inventario"))))
	if len(input) == 0 {
		return StateInventory
	}
	switch input[0] {
	case "0":
		return StateExploration
	case "u":
		if idx, ok := parseIndex(input, len(player.Inventory)); ok {
			name := player.Inventory[idx].Name
			if player.UseConsumable(idx) {
				m.ui.Print(fmt.Sprintf("Voce usa %s.", name))
			} else {
				m.ui.Print("Esse item nao pode ser usado.")
			}
			m.ui.Pause()
		}
	case "e":
		if idx, ok := parseIndex(input, len(player.Inventory)); ok {
			name := player.Inventory[idx].Name
			if player.Equip(idx) {
				m.ui.Print(fmt.Sprintf("Voce equipa %s.", name))
			} else {
				m.ui.Print("Esse item nao pode ser equipado.")
			}
			m.ui.Pause()
		}
	case "r":
		if len(input) > 1 {
			if player.Unequip(input[1]) {
				m.ui.Print("Equipamento guardado na mochila.")
			} else {
				m.ui.Print("Nada equipado nesse espaco.")
			}
			m.ui.Pause()
		}
	}
	return StateInventory
}

func parseIndex(input []string, size int) (int, bool) {
	if len(input) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(input[1])
	if err != nil || n < 1 || n > size {
		return 0, false
	}
	return n - 1, true
}

func slotName(player *character.Character, slot string) string {
	if it := player.Equipment[slot]; it != nil {
		return it.Name
	}
	return "(vazio)"
}
