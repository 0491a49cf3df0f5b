// Package snapshot writes static team lookup tables for the supported
// competitions, straight from the upstream API.
package snapshot

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/footstats/internal/adapters/footballdata"
	"github.com/okian/footstats/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o644
)

// DefaultOutDir is where lookup tables are written unless configured.
const DefaultOutDir = "data/lookup"

// ErrUnknownCode reports a competition without a lookup prefix.
var ErrUnknownCode = errors.New("unknown competition code")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var prefixes = map[string]string{
	"PD": "la_liga",
	"PL": "premier_league",
	"SA": "serie_a",
}

var csvHeader = []string{"team_id", "name", "shortName", "tla", "crest"}

// Codes lists the competitions that can be snapshotted.
func Codes() []string {
	out := make([]string, 0, len(prefixes))
	for code := range prefixes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Prefix is the file prefix of a competition code.
func Prefix(code string) (string, error) {
	p, ok := prefixes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", fmt.Errorf("%w %q; use one of %s", ErrUnknownCode, code, strings.Join(Codes(), ", "))
	}
	return p, nil
}

// TeamLister fetches a competition's teams.
type TeamLister interface {
	CompetitionTeams(ctx context.Context, code string) (*footballdata.TeamsResponse, error)
}

// Run snapshots every configured competition with a client built from cfg.
func Run(ctx context.Context, cfg *Config) ([]Result, error) {
	client := footballdata.NewClient(
		footballdata.WithBaseURL(cfg.BaseURL),
		footballdata.WithToken(cfg.Token),
		footballdata.WithTimeout(cfg.Timeout),
		footballdata.WithRateLimit(cfg.RateLimit),
		footballdata.WithLogger(logger.Get().Named("upstream")),
	)
	return RunWith(ctx, client, cfg)
}

// RunWith snapshots every configured competition using lister. Codes are
// validated before anything is fetched.
func RunWith(ctx context.Context, lister TeamLister, cfg *Config) ([]Result, error) {
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = DefaultOutDir
	}
	codes := cfg.Codes
	if len(codes) == 0 {
		codes = Codes()
	}
	for _, code := range codes {
		if _, err := Prefix(code); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outDir, directoryPermission); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	results := make([]Result, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		resp, err := lister.CompetitionTeams(ctx, code)
		if err != nil {
			return results, fmt.Errorf("fetch %s teams: %w", code, err)
		}
		res, err := Write(outDir, code, simplify(resp))
		if err != nil {
			return results, err
		}
		logger.Get().Info(ctx, "saved team lookup",
			logger.String("competition", code),
			logger.Int("teams", res.Teams),
			logger.String("json", res.JSONPath),
			logger.String("csv", res.CSVPath))
		results = append(results, res)
	}
	return results, nil
}

func simplify(resp *footballdata.TeamsResponse) []Team {
	if resp == nil {
		return []Team{}
	}
	out := make([]Team, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		out = append(out, Team{
			TeamID:    deref(t.ID),
			Name:      deref(t.Name),
			ShortName: deref(t.ShortName),
			TLA:       deref(t.TLA),
			Crest:     deref(t.Crest),
		})
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Write stores teams as <prefix>_teams.json and <prefix>_teams.csv under dir.
func Write(dir, code string, teams []Team) (Result, error) {
	prefix, err := Prefix(code)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Code:     strings.ToUpper(code),
		Teams:    len(teams),
		JSONPath: filepath.Join(dir, prefix+"_teams.json"),
		CSVPath:  filepath.Join(dir, prefix+"_teams.csv"),
	}

	data, err := json.MarshalIndent(teams, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode %s: %w", res.JSONPath, err)
	}
	if err := os.WriteFile(res.JSONPath, data, filePermission); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", res.JSONPath, err)
	}

	if err := writeCSV(res.CSVPath, teams); err != nil {
		return Result{}, err
	}
	return res, nil
}

func writeCSV(path string, teams []Team) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, t := range teams {
		if err := w.Write([]string{strconv.Itoa(t.TeamID), t.Name, t.ShortName, t.TLA, t.Crest}); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
