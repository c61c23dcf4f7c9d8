package player

import (
	"reflect"
	"testing"
)

func TestCodeToPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code   string
		want   Position
		wantOK bool
	}{
		{code: "G", want: PositionGoalkeeper, wantOK: true},
		{code: "d", want: PositionDefender, wantOK: true},
		{code: " M ", want: PositionMidfielder, wantOK: true},
		{code: "F", want: PositionForward, wantOK: true},
		{code: "X", wantOK: false},
		{code: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := CodeToPosition(tt.code)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("CodeToPosition(%q)=(%q,%v) want (%q,%v)", tt.code, got, ok, tt.want, tt.wantOK)
		}
		if ok && !got.Valid() {
			t.Fatalf("CodeToPosition(%q) returned invalid position %q", tt.code, got)
		}
	}
}

func TestCodeRank(t *testing.T) {
	t.Parallel()

	order := []string{"G", "d", "M", "f", "?"}
	for i := 1; i < len(order); i++ {
		if CodeRank(order[i-1]) >= CodeRank(order[i]) {
			t.Fatalf("expected %q to rank before %q", order[i-1], order[i])
		}
	}
}

func TestPositionNames(t *testing.T) {
	t.Parallel()

	want := []string{"GK", "DEF", "MID", "FWD"}
	if got := PositionNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PositionNames()=%v want %v", got, want)
	}
	if Position("ST").Valid() {
		t.Fatal("ST must not be a valid position")
	}
}
