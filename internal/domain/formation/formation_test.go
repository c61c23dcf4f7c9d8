package formation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
)

const (
	gk  = player.PositionGoalkeeper
	def = player.PositionDefender
	mid = player.PositionMidfielder
	fwd = player.PositionForward
)

func TestToPositions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		formation string
		want      []player.Position
		targetErr error
	}{
		{
			name:      "4-4-2",
			formation: "4-4-2",
			want:      []player.Position{gk, def, def, def, def, mid, mid, mid, mid, fwd, fwd},
		},
		{
			name:      "4-2-3-1 merges middle groups",
			formation: "4-2-3-1",
			want:      []player.Position{gk, def, def, def, def, mid, mid, mid, mid, mid, fwd},
		},
		{
			name:      "3-4-1-2",
			formation: "3-4-1-2",
			want:      []player.Position{gk, def, def, def, mid, mid, mid, mid, mid, fwd, fwd},
		},
		{
			name:      "two groups only",
			formation: "5-5",
			want:      []player.Position{gk, def, def, def, def, def, fwd, fwd, fwd, fwd, fwd},
		},
		{
			name:      "single group",
			formation: "4",
			targetErr: ErrInvalidFormat,
		},
		{
			name:      "too many slots",
			formation: "4-4-4",
			targetErr: ErrInvalidFormat,
		},
		{
			name:      "too few slots",
			formation: "3-3-2",
			targetErr: ErrInvalidFormat,
		},
		{
			name:      "non numeric",
			formation: "4-x-2",
			targetErr: ErrInvalidFormat,
		},
		{
			name:      "empty",
			formation: "",
			targetErr: ErrInvalidFormat,
		},
		{
			name:      "groups overflowing to eleven",
			formation: "9223372036854775807-9223372036854775807-12",
			targetErr: ErrInvalidFormat,
		},
		{
			name:      "oversized group",
			formation: "12-0",
			targetErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ToPositions(tt.formation)
			if tt.targetErr != nil {
				if !errors.Is(err, tt.targetErr) {
					t.Fatalf("expected error %v, got %v", tt.targetErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != Size {
				t.Fatalf("expected %d positions, got=%d", Size, len(got))
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("positions mismatch: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestToPositions_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := ToPositions("3-5-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ToPositions("3-5-2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("non deterministic output: %v vs %v", first, again)
		}
	}
}

func TestInfer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		codes []string
		want  string
	}{
		{
			name:  "4-3-3",
			codes: []string{"G", "D", "D", "D", "D", "M", "M", "M", "F", "F", "F"},
			want:  "4-3-3",
		},
		{
			name:  "lowercase codes",
			codes: []string{"g", "d", "d", "d", "m", "m", "m", "m", "m", "f", "f"},
			want:  "3-5-2",
		},
		{
			name:  "missing code",
			codes: []string{"G", "D", "D", "D", "D", "M", "M", "M", "F", "F", ""},
			want:  "",
		},
		{
			name:  "no midfielders",
			codes: []string{"G", "D", "D", "D", "D", "D", "F", "F", "F", "F", "F"},
			want:  "5-5",
		},
		{
			name:  "padded codes",
			codes: []string{" G", "D ", "D", "D", "D", "M", "M", "M", "M", "F", " f "},
			want:  "4-4-2",
		},
		{
			name:  "unknown codes ignored",
			codes: []string{"G", "D", "D", "D", "D", "M", "M", "M", "F", "F", "X"},
			want:  "",
		},
		{
			name:  "only defenders",
			codes: []string{"G", "D", "D", "D", "D", "D", "D", "D", "D", "D", "D"},
			want:  "",
		},
	}

	for _, tt := range tests {
		if got := Infer(tt.codes); got != tt.want {
			t.Fatalf("%s: Infer()=%q want %q", tt.name, got, tt.want)
		}
	}
}

func TestFindInText(t *testing.T) {
	t.Parallel()

	if got := FindInText("Arsenal (4-2-3-1)"); got != "4-2-3-1" {
		t.Fatalf("unexpected formation: %q", got)
	}
	if got := FindInText("Bench"); got != "" {
		t.Fatalf("expected empty formation, got %q", got)
	}
}
