package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
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
	case SaveResult:
		o.printSaveResult(v)
	case LoadResult:
		o.printLoadResult(v)
	case Player:
		o.printPlayer(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case GlobalStats:
		o.printGlobalStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SaveResult response type (matches API)
type SaveResult struct {
	SaveID    string    `json:"save_id"`
	Timestamp time.Time `json:"timestamp"`
}

// LoadResult response type
type LoadResult struct {
	PlayerID    string          `json:"player_id"`
	GameState   json.RawMessage `json:"game_state"`
	LastSavedAt time.Time       `json:"last_saved_at"`
}

// Player response type
type Player struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Handle       string    `json:"handle,omitempty"`
	HasSave      bool      `json:"has_save"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// PlayerStats response type
type PlayerStats struct {
	TotalEarned     float64    `json:"total_earned"`
	Reputation      float64    `json:"reputation"`
	PlayTimeMinutes float64    `json:"play_time_minutes"`
	SaveCount       int        `json:"save_count"`
	LastPlayedAt    *time.Time `json:"last_played_at"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	DisplayName string  `json:"display_name"`
	Handle      string  `json:"handle,omitempty"`
	Earnings    float64 `json:"earnings"`
	Reputation  float64 `json:"reputation"`
	GamesPlayed int     `json:"games_played"`
	Score       float64 `json:"score"`
}

// Leaderboard response type
type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"entries"`
	PlayerRank *int               `json:"player_rank,omitempty"`
}

// TopPlayer response type
type TopPlayer struct {
	DisplayName string  `json:"display_name"`
	Earnings    float64 `json:"earnings"`
	Reputation  float64 `json:"reputation"`
}

// GlobalStats response type
type GlobalStats struct {
	TotalPlayers       int         `json:"total_players"`
	TotalGames         int         `json:"total_games"`
	TotalEarned        float64     `json:"total_earned"`
	TotalPlayTimeHours int         `json:"total_play_time_hours"`
	TopPlayers         []TopPlayer `json:"top_players"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (o *Output) printSaveResult(s SaveResult) {
	fmt.Printf("Saved: %s\n", s.SaveID)
	fmt.Printf("At: %s\n", s.Timestamp.Format(time.RFC3339))
}

func (o *Output) printLoadResult(l LoadResult) {
	fmt.Printf("Player: %s\n", l.PlayerID)
	fmt.Printf("Last saved: %s\n", l.LastSavedAt.Format(time.RFC3339))
	fmt.Println(string(l.GameState))
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	if p.Handle != "" {
		fmt.Printf("Handle: @%s\n", p.Handle)
	}
	savedStr := "no"
	if p.HasSave {
		savedStr = "yes"
	}
	fmt.Printf("Has save: %s\n", savedStr)
	fmt.Printf("Created: %s\n", p.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Last active: %s\n", p.LastActiveAt.Format(time.RFC3339))
}

func (o *Output) printPlayerStats(s PlayerStats) {
	fmt.Printf("Earned: %.0f\n", s.TotalEarned)
	fmt.Printf("Reputation: %.0f\n", s.Reputation)
	fmt.Printf("Play time: %.0f min\n", s.PlayTimeMinutes)
	fmt.Printf("Saves: %d\n", s.SaveCount)
	if s.LastPlayedAt != nil {
		fmt.Printf("Last played: %s\n", s.LastPlayedAt.Format(time.RFC3339))
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	for i, e := range l.Entries {
		handle := ""
		if e.Handle != "" {
			handle = " @" + e.Handle
		}
		fmt.Printf("%2d. %s%s - %.0f pts (earned %.0f, rep %.0f, %d games)\n",
			i+1, e.DisplayName, handle, e.Score, e.Earnings, e.Reputation, e.GamesPlayed)
	}
	if l.PlayerRank != nil {
		if *l.PlayerRank > 0 {
			fmt.Printf("\nYour rank: %d\n", *l.PlayerRank)
		} else {
			fmt.Println("\nYou are not ranked yet")
		}
	}
}

func (o *Output) printGlobalStats(g GlobalStats) {
	fmt.Printf("Players: %d\n", g.TotalPlayers)
	fmt.Printf("Games: %d\n", g.TotalGames)
	fmt.Printf("Total earned: %.0f\n", g.TotalEarned)
	fmt.Printf("Total play time: %dh\n", g.TotalPlayTimeHours)
	if len(g.TopPlayers) > 0 {
		fmt.Println("Top players:")
		for i, p := range g.TopPlayers {
			fmt.Printf("  %d. %s (earned %.0f, rep %.0f)\n", i+1, p.DisplayName, p.Earnings, p.Reputation)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	if h.Service != "" {
		fmt.Printf("Service: %s\n", h.Service)
	}
}
