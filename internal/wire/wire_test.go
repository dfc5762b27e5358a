package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/overs/internal/match"
)

func TestMarshalCanonical_KeyOrderAndEscaping(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b":  1,
		"a":  "x<y & z",
		"aa": true,
		"c":  []any{int64(2), "s"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x<y & z","aa":true,"b":1,"c":[2,"s"]}`, string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"f": 1.5})
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"n": nil})
	assert.Error(t, err)

	_, err = MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

func TestMarshalCanonical_NFC(t *testing.T) {
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	got, err = MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got))
}

func TestMarshalEvent(t *testing.T) {
	tests := []struct {
		ev   match.BallEvent
		want string
	}{
		{match.Ball{Bat: 4}, `{"kind":"ball","runs":4}`},
		{match.Wide{Extras: 1}, `{"kind":"wide","runs":1}`},
		{match.LegBye{Extras: 2}, `{"kind":"legbye","runs":2}`},
		{match.Wicket{Dismissal: match.RunOut, Completed: 1}, `{"dismissal":"run_out","kind":"wicket","runs":1}`},
	}
	for _, tt := range tests {
		got, err := MarshalEvent(tt.ev)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))

		back, err := UnmarshalEvent(got)
		require.NoError(t, err)
		assert.Equal(t, tt.ev, back)
	}
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	for _, in := range []string{
		`{"kind":"wide","runs":0}`,
		`{"kind":"wicket","runs":1,"dismissal":"caught"}`,
		`{"kind":"dead_ball","runs":0}`,
		`not json`,
	} {
		_, err := UnmarshalEvent([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestChain_DeterministicAndSensitive(t *testing.T) {
	deliveries := []match.Delivery{
		{Seq: 1, Innings: 1, Ball: 1, Bowler: "B", Batsman: "A", Event: match.Ball{Bat: 1}},
		{Seq: 2, Innings: 1, Ball: 1, Bowler: "B", Batsman: "C", Event: match.Wide{Extras: 1}},
	}

	run := func(ds []match.Delivery) string {
		c := NewChain(Genesis("m-1", 42))
		for _, d := range ds {
			_, _, err := c.Add(d)
			require.NoError(t, err)
		}
		return c.Head()
	}

	first := run(deliveries)
	assert.Equal(t, first, run(deliveries))
	assert.Len(t, first, 64)

	changed := append([]match.Delivery(nil), deliveries...)
	changed[1].Event = match.Wide{Extras: 2}
	assert.NotEqual(t, first, run(changed))

	assert.NotEqual(t, Genesis("m-1", 42), Genesis("m-1", 43))
}

func TestChain_RejectsNilEvent(t *testing.T) {
	_, _, err := NewChain("").Add(match.Delivery{Seq: 1})
	assert.Error(t, err)
}

func TestDeliveryEvent_DecodesLoggedPayload(t *testing.T) {
	for _, ev := range []match.BallEvent{
		match.Ball{Bat: 4},
		match.NoBall{Extras: 2},
		match.Wicket{Dismissal: match.RunOut, Completed: 1},
	} {
		payload, err := MarshalDelivery(match.Delivery{Seq: 9, Innings: 2, Bowler: "B7", Batsman: "A1", Event: ev})
		require.NoError(t, err)

		got, err := DeliveryEvent(payload)
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
}

func TestDeliveryEvent_Rejects(t *testing.T) {
	_, err := DeliveryEvent([]byte(`{"seq":1}`))
	assert.ErrorContains(t, err, "no event")

	_, err = DeliveryEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = DeliveryEvent([]byte(`{"event":{"kind":"beamer","runs":0}}`))
	assert.ErrorContains(t, err, "unknown delivery kind")
}
