package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/partyhub/gamecenter/internal/domain"
)

type GameEntry struct {
	ID                 string `mapstructure:"id"`
	Title              string `mapstructure:"title"`
	Description        string `mapstructure:"description"`
	MinPlayers         int    `mapstructure:"min_players"`
	MaxPlayers         int    `mapstructure:"max_players"`
	RecommendedPlayers int    `mapstructure:"recommended_players"`
	APIEndpoint        string `mapstructure:"api_endpoint"`
}

type RoomDefaults struct {
	MaxPlayers         int    `mapstructure:"max_players"`
	RoomLiberationTime int    `mapstructure:"room_liberation_time"`
	ProgressionRule    string `mapstructure:"progression_rule"`
}

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	HubBacklog     int           `mapstructure:"hub_backlog"`
	GameAPITimeout time.Duration `mapstructure:"game_api_timeout"`
	Room           RoomDefaults  `mapstructure:"room"`
	Games          []GameEntry   `mapstructure:"games"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3000)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("hub_backlog", 100)
	v.SetDefault("game_api_timeout", "5s")
	v.SetDefault("room.max_players", 8)
	v.SetDefault("room.room_liberation_time", 15)
	v.SetDefault("room.progression_rule", "solo")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Games: %d\n", cfg.Mode, cfg.Port, len(cfg.Games))
	return &cfg, nil
}

// RoomSettings builds the per-room defaults applied at create_room.
func (c *Config) RoomSettings() domain.RoomSettings {
	return domain.RoomSettings{
		MaxPlayers:         c.Room.MaxPlayers,
		RoomLiberationTime: c.Room.RoomLiberationTime,
		ProgressionRule:    c.Room.ProgressionRule,
	}
}

// Catalog assembles the read-only game catalog. With no games
// configured it falls back to the built-in quiz entry so a bare
// deployment still has something to host.
func (c *Config) Catalog() *domain.Catalog {
	entries := c.Games
	if len(entries) == 0 {
		entries = []GameEntry{{
			ID:                 "quiz",
			Title:              "Buzzer Quiz",
			Description:        "A simple first-press quiz game.",
			MinPlayers:         2,
			MaxPlayers:         8,
			RecommendedPlayers: 4,
			APIEndpoint:        "http://localhost:5001",
		}}
	}
	games := make([]domain.GameInfo, 0, len(entries))
	for _, e := range entries {
		games = append(games, domain.GameInfo{
			ID:                 e.ID,
			Title:              e.Title,
			Description:        e.Description,
			MinPlayers:         e.MinPlayers,
			MaxPlayers:         e.MaxPlayers,
			RecommendedPlayers: e.RecommendedPlayers,
			APIEndpoint:        e.APIEndpoint,
			SettingsSchema:     json.RawMessage(`{}`),
		})
	}
	return domain.NewCatalog(games)
}
