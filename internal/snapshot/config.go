package snapshot

import "time"

// Config holds configuration for a snapshot run.
type Config struct {
	Codes     []string      // Competition codes to snapshot
	OutDir    string        // Output directory
	BaseURL   string        // Upstream API root
	Token     string        // Upstream API token
	Timeout   time.Duration // Upstream request timeout
	RateLimit int           // Upstream requests per minute, zero for none
}

// Team is one row of a lookup table.
type Team struct {
	TeamID    int    `json:"team_id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

// Result reports the files written for one competition.
type Result struct {
	Code     string
	Teams    int
	JSONPath string
	CSVPath  string
}
