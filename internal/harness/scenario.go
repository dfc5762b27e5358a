package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/overs/internal/match"
)

// Scenario defines a scripted match.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// TeamsFile is a CUE roster, relative to the scenario file. Empty uses
	// the built-in roster.
	TeamsFile string `yaml:"teams_file,omitempty"`

	// Teams is the home and away side.
	Teams []string `yaml:"teams"`

	// BatFirst forces the side batting first. Empty draws the toss from Seed.
	BatFirst string `yaml:"bat_first,omitempty"`

	// Overs per innings. Zero means a full 20-over match.
	Overs int `yaml:"overs,omitempty"`

	// Seed drives the toss and generated deliveries.
	Seed int64 `yaml:"seed,omitempty"`

	// MatchID is a fixed ID for deterministic traces.
	// If empty, defaults to "test-match-default".
	MatchID string `yaml:"match_id,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step bowls one or more deliveries. Exactly one of Deliver, Generate and
// PlayOut is set.
type Step struct {
	// Deliver bowls a fixed delivery.
	Deliver *DeliverySpec `yaml:"deliver,omitempty"`

	// Repeat bowls Deliver this many times. Zero means once.
	Repeat int `yaml:"repeat,omitempty"`

	// Generate bowls this many generated deliveries.
	Generate int `yaml:"generate,omitempty"`

	// PlayOut bowls generated deliveries until the match completes.
	PlayOut bool `yaml:"play_out,omitempty"`
}

// DeliverySpec is a delivery as written in a scenario file.
type DeliverySpec struct {
	Kind      string `yaml:"kind"`
	Runs      int    `yaml:"runs,omitempty"`
	Dismissal string `yaml:"dismissal,omitempty"`
}

// Event converts d into a delivery event.
func (d DeliverySpec) Event() (match.BallEvent, error) {
	return match.NewEvent(match.Kind(d.Kind), d.Runs, match.Dismissal(d.Dismissal))
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Team is the side checked by score and extras.
	Team string `yaml:"team,omitempty"`

	// Expect is the expected value: "runs/wickets" for score, a name for
	// striker and bowler, a status or a result summary.
	Expect string `yaml:"expect,omitempty"`

	// Overs optionally checks the team's overs alongside score.
	Overs string `yaml:"overs,omitempty"`

	// Count is the expected extras total.
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertScore      = "score"
	AssertStriker    = "striker"
	AssertBowler     = "bowler"
	AssertStatus     = "status"
	AssertResult     = "result"
	AssertExtras     = "extras"
	AssertInvariants = "invariants"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// TeamsFile is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving TeamsFile against baseDir.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.TeamsFile != "" && !filepath.IsAbs(scenario.TeamsFile) && baseDir != "" {
		scenario.TeamsFile = filepath.Join(baseDir, scenario.TeamsFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Teams) != 2 {
		return fmt.Errorf("teams must list exactly two sides, got %d", len(s.Teams))
	}
	if s.BatFirst != "" && s.BatFirst != s.Teams[0] && s.BatFirst != s.Teams[1] {
		return fmt.Errorf("bat_first %q is not one of %v", s.BatFirst, s.Teams)
	}
	if s.Overs < 0 {
		return fmt.Errorf("overs must be positive, got %d", s.Overs)
	}
	if s.TeamsFile != "" {
		if _, err := os.Stat(s.TeamsFile); os.IsNotExist(err) {
			return fmt.Errorf("teams file not found: %s", s.TeamsFile)
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st Step) error {
	set := 0
	if st.Deliver != nil {
		set++
	}
	if st.Generate != 0 {
		set++
	}
	if st.PlayOut {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of deliver, generate and play_out is required", index)
	}
	if st.Generate < 0 {
		return fmt.Errorf("steps[%d]: generate must be positive", index)
	}
	if st.Repeat < 0 {
		return fmt.Errorf("steps[%d]: repeat must be non-negative", index)
	}
	if st.Repeat > 0 && st.Deliver == nil {
		return fmt.Errorf("steps[%d]: repeat applies only to deliver", index)
	}
	if st.Deliver != nil {
		if _, err := st.Deliver.Event(); err != nil {
			return fmt.Errorf("steps[%d].deliver: %w", index, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertScore:
		if a.Team == "" || a.Expect == "" {
			return fmt.Errorf("assertions[%d]: team and expect are required for score", index)
		}
	case AssertExtras:
		if a.Team == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: team and count are required for extras", index)
		}
	case AssertStriker, AssertBowler, AssertResult:
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for %s", index, a.Type)
		}
	case AssertStatus:
		if a.Expect != "live" && a.Expect != "completed" {
			return fmt.Errorf("assertions[%d]: status must be live or completed, got %q", index, a.Expect)
		}
	case AssertInvariants:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
