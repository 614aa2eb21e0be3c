package domain

import "encoding/json"

// GameInfo is a static descriptor of a game the engine can host.
// Entries come from the process-wide catalog; the core never mutates
// them.
type GameInfo struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	MinPlayers         int             `json:"min_players"`
	MaxPlayers         int             `json:"max_players"`
	RecommendedPlayers int             `json:"recommended_players"`
	APIEndpoint        string          `json:"api_endpoint"`
	SettingsSchema     json.RawMessage `json:"settings_schema"`
}

// Catalog is the read-only set of hostable games.
type Catalog struct {
	games []GameInfo
}

func NewCatalog(games []GameInfo) *Catalog {
	return &Catalog{games: games}
}

func (c *Catalog) ByID(id string) (GameInfo, bool) {
	for _, g := range c.games {
		if g.ID == id {
			return g, true
		}
	}
	return GameInfo{}, false
}

func (c *Catalog) List() []GameInfo {
	out := make([]GameInfo, len(c.games))
	copy(out, c.games)
	return out
}
