package snapshot

import "os"

// ShowHelp prints usage information for the snapshot tool.
func ShowHelp() {
	os.Stdout.WriteString(`FootStats Team Snapshot
=======================

Writes <prefix>_teams.json and <prefix>_teams.csv lookup tables for the
supported competitions (PD -> la_liga, PL -> premier_league, SA -> serie_a).

Usage:
  go run ./cmd/snapshot [options] [CODE ...]

With no codes, every supported competition is written.

Options:
  -out string
        Output directory (default "data/lookup")
  -url string
        Upstream API root (default "https://api.football-data.org/v4")
  -timeout duration
        Upstream request timeout (default 20s)
  -help
        Show this help message

The API token is read like the server reads it: FOOTSTATS_API_TOKEN,
falling back to FOOTBALL_DATA_TOKEN, and a .env file is honoured.

Examples:
  go run ./cmd/snapshot PL
  go run ./cmd/snapshot -out /tmp/lookup PD SA
`)
}
