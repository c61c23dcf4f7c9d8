package formation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
)

var ErrInvalidFormat = errors.New("invalid formation")

// Size is the number of slots a formation must describe, goalkeeper included.
const Size = 11

// Pattern finds a formation such as "4-2-3-1" inside free text.
var Pattern = regexp.MustCompile(`\d+(?:-\d+)+`)

// ToPositions expands a formation into its 11 positional labels:
// one GK, the first group as DEF, middle groups as MID, the last group as FWD.
func ToPositions(formation string) ([]player.Position, error) {
	raw := strings.Split(strings.TrimSpace(formation), "-")
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: %q needs at least two groups", ErrInvalidFormat, formation)
	}

	groups := make([]int, 0, len(raw))
	total := 1
	for _, part := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q has non-numeric group %q", ErrInvalidFormat, formation, part)
		}
		if n > Size {
			return nil, fmt.Errorf("%w: %q has oversized group %q", ErrInvalidFormat, formation, part)
		}
		groups = append(groups, n)
		total += n
	}
	if total != Size {
		return nil, fmt.Errorf("%w: %q produces %d players, expected %d", ErrInvalidFormat, formation, total, Size)
	}

	out := make([]player.Position, 0, Size)
	out = append(out, player.PositionGoalkeeper)
	out = appendN(out, player.PositionDefender, groups[0])
	for _, n := range groups[1 : len(groups)-1] {
		out = appendN(out, player.PositionMidfielder, n)
	}
	out = appendN(out, player.PositionForward, groups[len(groups)-1])

	return out, nil
}

// FindInText returns the first formation-looking token in text, or "".
func FindInText(text string) string {
	return Pattern.FindString(text)
}

// Infer rebuilds a formation from per-player API codes. It returns "" unless
// the outfield codes (D, M, F) account for exactly ten players.
func Infer(codes []string) string {
	var def, mid, fwd int
	for _, code := range codes {
		pos, _ := player.CodeToPosition(code)
		switch pos {
		case player.PositionDefender:
			def++
		case player.PositionMidfielder:
			mid++
		case player.PositionForward:
			fwd++
		}
	}
	if def+mid+fwd != Size-1 {
		return ""
	}

	parts := make([]string, 0, 3)
	for _, n := range []int{def, mid, fwd} {
		if n > 0 {
			parts = append(parts, strconv.Itoa(n))
		}
	}
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts, "-")
}

func appendN(dst []player.Position, pos player.Position, n int) []player.Position {
	for i := 0; i < n; i++ {
		dst = append(dst, pos)
	}
	return dst
}
