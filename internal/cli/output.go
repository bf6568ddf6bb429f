package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case RoomsResult:
		o.printRoomsResult(v)
	case Room:
		o.printRoom(v)
	case NicknameResult:
		o.printNicknameResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Online players: %d\n", h.Online)
	fmt.Printf("Live rooms: %d (%d mid-game)\n", h.Rooms, h.Playing)
}

func (o *Output) printRoomsResult(r RoomsResult) {
	if len(r.Rooms) == 0 {
		fmt.Println("No live rooms")
		return
	}
	for _, room := range r.Rooms {
		fmt.Printf("%s  %-20s  %s  %d/%d players\n",
			room.ID, room.Name, room.Status, len(room.Players), room.MaxPlayers)
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s (%s)\n", r.Name, r.ID)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Creator: %s\n", r.Creator.Nickname)
	fmt.Printf("Seats: %d (min %d, max %d)\n", len(r.Players), r.MinPlayers, r.MaxPlayers)
	for _, p := range r.Players {
		if p.IsBot {
			fmt.Printf("  - %s (bot)\n", p.Nickname)
		} else {
			fmt.Printf("  - %s\n", p.Nickname)
		}
	}
}

func (o *Output) printNicknameResult(n NicknameResult) {
	if n.Banned {
		if n.BannedUntil != nil {
			fmt.Printf("%s is banned until %s\n", n.Nickname, n.BannedUntil.Format("2006-01-02 15:04 MST"))
		} else {
			fmt.Printf("%s is banned permanently\n", n.Nickname)
		}
		return
	}
	if n.Available {
		fmt.Printf("%s is available\n", n.Nickname)
	} else {
		fmt.Printf("%s is taken\n", n.Nickname)
	}
}
