package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/free_hit.yaml")
	require.NoError(t, err)

	assert.Equal(t, "free_hit_reprieve", scenario.Name)
	assert.Equal(t, []string{"AAA", "BBB"}, scenario.Teams)
	assert.Equal(t, "AAA", scenario.BatFirst)
	assert.Equal(t, 2, scenario.Overs)
	assert.Equal(t, int64(7), scenario.Seed)
	assert.Equal(t, filepath.Join("testdata", "teams.cue"), scenario.TeamsFile)

	require.Len(t, scenario.Steps, 3)
	require.NotNil(t, scenario.Steps[0].Deliver)
	assert.Equal(t, "noball", scenario.Steps[0].Deliver.Kind)
	assert.Equal(t, "caught", scenario.Steps[1].Deliver.Dismissal)
	assert.Equal(t, 3, scenario.Steps[2].Repeat)
	assert.Len(t, scenario.Assertions, 5)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := LoadScenario("testdata/failing/typo.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: invariants}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: invariants}]\n",
			wantErr: "description is required",
		},
		{
			name:    "one team",
			yaml:    "name: n\ndescription: d\nteams: [AAA]\nsteps: [{generate: 1}]\nassertions: [{type: invariants}]\n",
			wantErr: "exactly two sides",
		},
		{
			name:    "bat first not playing",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nbat_first: CCC\nsteps: [{generate: 1}]\nassertions: [{type: invariants}]\n",
			wantErr: "bat_first",
		},
		{
			name:    "negative overs",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\novers: -1\nsteps: [{generate: 1}]\nassertions: [{type: invariants}]\n",
			wantErr: "overs must be positive",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: []\nassertions: [{type: invariants}]\n",
			wantErr: "steps list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "two actions in one step",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{generate: 1, play_out: true}]\nassertions: [{type: invariants}]\n",
			wantErr: "exactly one of deliver, generate and play_out",
		},
		{
			name:    "repeat without deliver",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{generate: 1, repeat: 2}]\nassertions: [{type: invariants}]\n",
			wantErr: "repeat applies only to deliver",
		},
		{
			name:    "unknown kind",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{deliver: {kind: beamer}}]\nassertions: [{type: invariants}]\n",
			wantErr: "unknown delivery kind",
		},
		{
			name:    "wide without penalty",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{deliver: {kind: wide}}]\nassertions: [{type: invariants}]\n",
			wantErr: "penalty run",
		},
		{
			name:    "caught with runs",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{deliver: {kind: wicket, runs: 1, dismissal: caught}}]\nassertions: [{type: invariants}]\n",
			wantErr: "only a run out",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: vibes}]\n",
			wantErr: "unknown assertion type",
		},
		{
			name:    "score without team",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: score, expect: 1/0}]\n",
			wantErr: "team and expect are required",
		},
		{
			name:    "extras without count",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: extras, team: AAA}]\n",
			wantErr: "team and count are required",
		},
		{
			name:    "bad status",
			yaml:    "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: status, expect: paused}]\n",
			wantErr: "status must be live or completed",
		},
		{
			name:    "missing teams file",
			yaml:    "name: n\ndescription: d\nteams_file: nowhere.cue\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: invariants}]\n",
			wantErr: "teams file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_ExtrasCountZero(t *testing.T) {
	yaml := "name: n\ndescription: d\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: extras, team: AAA, count: 0}]\n"
	scenario, err := ParseScenario([]byte(yaml), "")
	require.NoError(t, err)
	require.NotNil(t, scenario.Assertions[0].Count)
	assert.Equal(t, 0, *scenario.Assertions[0].Count)
}

func TestParseScenario_AbsoluteTeamsFile(t *testing.T) {
	abs, err := filepath.Abs("testdata/teams.cue")
	require.NoError(t, err)

	yaml := "name: n\ndescription: d\nteams_file: " + abs + "\nteams: [AAA, BBB]\nsteps: [{generate: 1}]\nassertions: [{type: invariants}]\n"
	scenario, err := ParseScenario([]byte(yaml), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, abs, scenario.TeamsFile)
}

func TestLoadScenario_RelativeTeamsFile(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile("testdata/teams.cue")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roster.cue"), data, 0644))

	path := writeScenario(t, dir, `
name: relative
description: "Roster next to the scenario"
teams_file: roster.cue
teams: [AAA, BBB]
steps:
  - generate: 1
assertions:
  - type: invariants
`)
	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "roster.cue"), scenario.TeamsFile)
}
