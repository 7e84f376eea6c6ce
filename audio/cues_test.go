package audio

import (
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/flappy/game"
)

func TestSelectCues(t *testing.T) {
	tests := []struct {
		name string
		ev   game.StepEvents
		want []Cue
	}{
		{"quiet tick", game.StepEvents{}, nil},
		{"flaps collapse", game.StepEvents{Jumps: 12}, []Cue{CueFlap}},
		{"score", game.StepEvents{Passed: true}, []Cue{CueScore}},
		{
			"pipe crash",
			game.StepEvents{Removed: []game.Removal{{Handle: 1, Cause: game.CausePipe}, {Handle: 2, Cause: game.CausePipe}}},
			[]Cue{CueCrash},
		},
		{
			"ground and ceiling share a cue",
			game.StepEvents{Removed: []game.Removal{{Cause: game.CauseGround}, {Cause: game.CauseCeiling}}},
			[]Cue{CueFall},
		},
		{
			"capped birds are silent",
			game.StepEvents{Removed: []game.Removal{{Cause: game.CauseCapped}}},
			nil,
		},
		{
			"everything",
			game.StepEvents{Jumps: 1, Passed: true, Removed: []game.Removal{{Cause: game.CauseGround}, {Cause: game.CausePipe}}},
			[]Cue{CueFlap, CueScore, CueCrash, CueFall},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectCues(tt.ev); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectCues = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEveryCueHasATone(t *testing.T) {
	for _, c := range []Cue{CueFlap, CueScore, CueCrash, CueFall} {
		if _, ok := tones[c]; !ok {
			t.Errorf("no tone for %v", c)
		}
	}
}

func TestSweepEnds(t *testing.T) {
	tn := tones[CueScore]
	g := newSweep(sampleRate, tn)
	want := sampleRate.N(tn.length)

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := g.Stream(buf)
		for _, s := range buf[:n] {
			if math.Abs(s[0]) > tn.volume || s[0] != s[1] {
				t.Fatalf("sample %v out of range or not mono", s)
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
}

func TestRenderWithoutSpeaker(t *testing.T) {
	c := NewCues()
	s := &game.Snapshot{Events: game.StepEvents{Jumps: 1, Passed: true}}
	if !c.Render(s) {
		t.Error("Render should never stop the run")
	}
	c.Close()
}
