// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	DBPath        string
	GitHubToken   string
	WebhookSecret string
	ChatBaseURL   string
	ChatUserID    string
	ChatAuthToken string
	ChatAlias     string
	ChatAvatar    string
	TeamRooms     map[string]string
}

// HasChatCredentials returns true when base URL, user id and auth token are
// all set. Used by the composition root to decide whether to create a chat
// client at startup; without one, webhooks are acknowledged but no
// notifications go out.
func (c *Config) HasChatCredentials() bool {
	return c.ChatBaseURL != "" && c.ChatUserID != "" && c.ChatAuthToken != ""
}

// Load reads configuration from environment variables (a .env file in the
// working directory is merged in first, if present) and returns a validated
// Config. PRBRIDGE_TEAM_ROOMS is required: a comma-separated list of
// team:roomId pairs mapping requested-reviewer teams to chat rooms.
// Optional variables: PRBRIDGE_LISTEN_ADDR (127.0.0.1:8080),
// PRBRIDGE_DB_PATH (prbridge.db), PRBRIDGE_GITHUB_TOKEN,
// PRBRIDGE_WEBHOOK_SECRET, PRBRIDGE_CHAT_BASE_URL, PRBRIDGE_CHAT_USER_ID,
// PRBRIDGE_CHAT_AUTH_TOKEN, PRBRIDGE_CHAT_ALIAS (PR Bridge),
// PRBRIDGE_CHAT_AVATAR.
func Load() (*Config, error) {
	_ = godotenv.Load()

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("PRBRIDGE_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "prbridge.db"
	if v, ok := os.LookupEnv("PRBRIDGE_DB_PATH"); ok {
		dbPath = v
	}

	chatAlias := "PR Bridge"
	if v, ok := os.LookupEnv("PRBRIDGE_CHAT_ALIAS"); ok {
		chatAlias = v
	}

	teamRooms, err := parseTeamRooms(os.Getenv("PRBRIDGE_TEAM_ROOMS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
		GitHubToken:   os.Getenv("PRBRIDGE_GITHUB_TOKEN"),
		WebhookSecret: os.Getenv("PRBRIDGE_WEBHOOK_SECRET"),
		ChatBaseURL:   os.Getenv("PRBRIDGE_CHAT_BASE_URL"),
		ChatUserID:    os.Getenv("PRBRIDGE_CHAT_USER_ID"),
		ChatAuthToken: os.Getenv("PRBRIDGE_CHAT_AUTH_TOKEN"),
		ChatAlias:     chatAlias,
		ChatAvatar:    os.Getenv("PRBRIDGE_CHAT_AVATAR"),
		TeamRooms:     teamRooms,
	}, nil
}

// parseTeamRooms parses "team:roomId,team2:roomId2" into a map. Empty
// entries are skipped; a pair without a colon or with an empty side is an
// error so a typo doesn't silently drop a destination.
func parseTeamRooms(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("PRBRIDGE_TEAM_ROOMS is required (format: team:roomId,team2:roomId2)")
	}

	rooms := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		team, room, ok := strings.Cut(pair, ":")
		team = strings.TrimSpace(team)
		room = strings.TrimSpace(room)
		if !ok || team == "" || room == "" {
			return nil, fmt.Errorf("PRBRIDGE_TEAM_ROOMS has invalid pair %q (expected team:roomId)", pair)
		}

		rooms[team] = room
	}

	if len(rooms) == 0 {
		return nil, fmt.Errorf("PRBRIDGE_TEAM_ROOMS has no valid team:roomId pairs")
	}

	return rooms, nil
}
