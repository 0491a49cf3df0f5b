package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/footstats/internal/domain/model"
)

// Display positions.
const (
	PositionGoalkeeper = "Goalkeeper"
	PositionDefender   = "Defender"
	PositionMidfielder = "Midfielder"
	PositionForward    = "Forward"
)

const (
	dateLayout   = "2006-01-02"
	noShirtLabel = "N/A"
)

// Player is a squad member.
type Player struct {
	ID          int
	Name        string
	Position    string
	Nationality string
	DateOfBirth *string
	ShirtNumber *int
}

// PlayerFromRecord builds a Player; id and name are required.
func PlayerFromRecord(rec model.PlayerRecord) (*Player, error) {
	if rec.PlayerID == 0 || rec.Name == "" {
		return nil, fmt.Errorf("player %d: %w", rec.PlayerID, ErrMissingIdentity)
	}
	return &Player{
		ID:          rec.PlayerID,
		Name:        rec.Name,
		Position:    rec.Position,
		Nationality: rec.Nationality,
		DateOfBirth: rec.DateOfBirth,
		ShirtNumber: rec.ShirtNumber,
	}, nil
}

// AgeAt returns the completed years between the date of birth and today.
// ok is false when the date of birth is absent or unparsable.
func (p *Player) AgeAt(today time.Time) (age int, ok bool) {
	if p.DateOfBirth == nil || *p.DateOfBirth == "" {
		return 0, false
	}
	birth, err := time.Parse(dateLayout, *p.DateOfBirth)
	if err != nil {
		return 0, false
	}
	age = today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// Age is AgeAt the current UTC date.
func (p *Player) Age() (int, bool) {
	return p.AgeAt(time.Now().UTC())
}

// DisplayPosition classifies the raw position by keyword. Anything that
// matches none of goal+keeper, back or mid is reported as Forward, so
// "Winger" or "Offence" land there too.
func (p *Player) DisplayPosition() string {
	pos := strings.ToLower(p.Position)
	switch {
	case strings.Contains(pos, "goal") && strings.Contains(pos, "keeper"):
		return PositionGoalkeeper
	case strings.Contains(pos, "back"):
		return PositionDefender
	case strings.Contains(pos, "mid"):
		return PositionMidfielder
	default:
		return PositionForward
	}
}

// DisplayNumber is "#<n>" or "N/A" without a shirt number.
func (p *Player) DisplayNumber() string {
	if p.ShirtNumber == nil {
		return noShirtLabel
	}
	return fmt.Sprintf("#%d", *p.ShirtNumber)
}

func (p *Player) IsGoalkeeper() bool { return p.DisplayPosition() == PositionGoalkeeper }
func (p *Player) IsDefender() bool   { return p.DisplayPosition() == PositionDefender }
func (p *Player) IsMidfielder() bool { return p.DisplayPosition() == PositionMidfielder }
func (p *Player) IsForward() bool    { return p.DisplayPosition() == PositionForward }

func (p *Player) String() string {
	return fmt.Sprintf("Player(name=%q, position=%q, %s)", p.Name, p.Position, p.DisplayNumber())
}

// PlayerView is the display row of a player.
type PlayerView struct {
	PlayerID        int     `json:"player_id"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	DisplayPosition string  `json:"display_position"`
	Nationality     string  `json:"nationality"`
	DateOfBirth     *string `json:"date_of_birth"`
	Age             *int    `json:"age"`
	ShirtNumber     *int    `json:"shirt_number"`
	DisplayNumber   string  `json:"display_number"`
}

// View flattens the player with its age as of today.
func (p *Player) View(today time.Time) PlayerView {
	v := PlayerView{
		PlayerID:        p.ID,
		Name:            p.Name,
		Position:        p.Position,
		DisplayPosition: p.DisplayPosition(),
		Nationality:     p.Nationality,
		DateOfBirth:     p.DateOfBirth,
		ShirtNumber:     p.ShirtNumber,
		DisplayNumber:   p.DisplayNumber(),
	}
	if age, ok := p.AgeAt(today); ok {
		v.Age = &age
	}
	return v
}

var positionOrder = map[string]int{ //nolint:gochecknoglobals
	PositionGoalkeeper: 1,
	PositionDefender:   2,
	PositionMidfielder: 3,
	PositionForward:    4,
}

// SortSquad orders players goalkeeper → defender → midfielder → forward,
// then by name. It sorts in place and returns the slice.
func SortSquad(players []*Player) []*Player {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		ra, rb := positionOrder[a.DisplayPosition()], positionOrder[b.DisplayPosition()]
		if ra != rb {
			return ra < rb
		}
		return a.Name < b.Name
	})
	return players
}
