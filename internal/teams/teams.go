// Package teams loads and validates the rosters a match can be played with.
//
// Rosters are written in CUE and unified with an embedded schema before
// use, so a short squad or a malformed team ID is rejected when the roster is
// loaded rather than halfway through a match. The default roster is embedded
// in the binary; LoadFile reads a custom one.
//
// Batting order is the order of the players list. Bowling order is the order
// of the bowlers list, and every bowler must also be a listed player.
package teams

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/overs/internal/match"
)

//go:embed schema.cue
var schemaCUE string

//go:embed default_teams.cue
var defaultTeamsCUE []byte

// Team is a validated roster.
type Team struct {
	ID      match.TeamID
	Name    string
	Players []string // batting order
	Bowlers []string // bowling order
}

// Registry is an immutable set of teams keyed by ID.
type Registry struct {
	teams map[match.TeamID]Team
	ids   []match.TeamID // sorted, for deterministic random selection
}

// teamDef mirrors #Team for decoding.
type teamDef struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Bowlers []string `json:"bowlers"`
}

// Default returns the embedded roster. It panics if the embedded roster is
// invalid, which is a build defect.
func Default() *Registry {
	r, err := Load(defaultTeamsCUE, "default_teams.cue")
	if err != nil {
		panic(fmt.Sprintf("teams: embedded roster invalid: %v", err))
	}
	return r
}

// LoadFile reads a CUE roster from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Load(data, path)
}

// Load compiles a CUE roster, unifies it with the schema and validates it.
// Schema failures are reported as INVALID_TEAM_SELECTION errors carrying the
// CUE position in Details.
func Load(src []byte, filename string) (*Registry, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile roster schema: %w", err)
	}

	data := ctx.CompileBytes(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	teamsVal := v.LookupPath(cue.ParsePath("teams"))
	if !teamsVal.Exists() {
		return nil, match.NewInvalidTeamSelection("%s: no teams defined", filename)
	}

	var defs map[string]teamDef
	if err := teamsVal.Decode(&defs); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}

	list := make([]Team, 0, len(defs))
	for _, def := range defs {
		list = append(list, Team{
			ID:      match.TeamID(def.ID),
			Name:    normalize(def.Name),
			Players: normalizeAll(def.Players),
			Bowlers: normalizeAll(def.Bowlers),
		})
	}
	return New(list...)
}

// New builds a registry from teams constructed in Go. The same rules as the
// CUE schema apply.
func New(list ...Team) (*Registry, error) {
	r := &Registry{teams: make(map[match.TeamID]Team, len(list))}
	for _, t := range list {
		if err := Validate(t); err != nil {
			return nil, err
		}
		if _, dup := r.teams[t.ID]; dup {
			return nil, match.NewInvalidTeamSelection("duplicate team %q", t.ID)
		}
		r.teams[t.ID] = t
		r.ids = append(r.ids, t.ID)
	}
	if len(r.ids) < 2 {
		return nil, match.NewInvalidTeamSelection("a roster needs at least two teams, got %d", len(r.ids))
	}
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return r, nil
}

// Validate checks a single roster.
func Validate(t Team) error {
	if t.ID == "" {
		return match.NewInvalidTeamSelection("team ID is required")
	}
	if len(t.Players) < match.MinPlayers {
		return match.NewInvalidTeamSelection("team %s has %d players, need at least %d",
			t.ID, len(t.Players), match.MinPlayers)
	}
	if len(t.Bowlers) < match.MinBowlers {
		return match.NewInvalidTeamSelection("team %s has %d bowlers, need at least %d",
			t.ID, len(t.Bowlers), match.MinBowlers)
	}

	seen := make(map[string]bool, len(t.Players))
	for _, p := range t.Players {
		if p == "" {
			return match.NewInvalidTeamSelection("team %s has an unnamed player", t.ID)
		}
		if seen[p] {
			return match.NewInvalidTeamSelection("team %s lists %q twice", t.ID, p)
		}
		seen[p] = true
	}

	bowling := make(map[string]bool, len(t.Bowlers))
	for _, b := range t.Bowlers {
		if !seen[b] {
			return match.NewInvalidTeamSelection("team %s bowler %q is not in the squad", t.ID, b)
		}
		if bowling[b] {
			return match.NewInvalidTeamSelection("team %s lists bowler %q twice", t.ID, b)
		}
		bowling[b] = true
	}
	return nil
}

// Get returns the team with the given ID.
func (r *Registry) Get(id match.TeamID) (Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return Team{}, match.NewInvalidTeamSelection("unknown team %q", id)
	}
	return t, nil
}

// Pair resolves two distinct teams.
func (r *Registry) Pair(a, b match.TeamID) (Team, Team, error) {
	if a == b {
		return Team{}, Team{}, match.NewInvalidTeamSelection("a team cannot play itself (%s)", a)
	}
	ta, err := r.Get(a)
	if err != nil {
		return Team{}, Team{}, err
	}
	tb, err := r.Get(b)
	if err != nil {
		return Team{}, Team{}, err
	}
	return ta, tb, nil
}

// IDs returns all team IDs in sorted order.
func (r *Registry) IDs() []match.TeamID {
	out := make([]match.TeamID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len returns the number of teams.
func (r *Registry) Len() int { return len(r.ids) }

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = normalize(s)
	}
	return out
}

// formatCUEError converts a CUE error into an INVALID_TEAM_SELECTION error,
// keeping the first position for diagnostics.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return match.NewInvalidTeamSelection("roster: %v", err)
	}

	first := errs[0]
	me := match.NewInvalidTeamSelection("roster: %s", first.Error())
	if positions := errors.Positions(first); len(positions) > 0 {
		pos := positions[0]
		me.Details = map[string]string{
			"file":   pos.Filename(),
			"line":   fmt.Sprintf("%d", pos.Line()),
			"column": fmt.Sprintf("%d", pos.Column()),
		}
	}
	return me
}
