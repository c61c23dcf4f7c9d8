package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/lineup-dataset/internal/domain/formation"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
)

// DefaultMaxWarnings caps how many warnings Report.Write prints.
const DefaultMaxWarnings = 20

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding against the dataset. Error-severity issues unwrap to ErrSchemaViolation.
type Issue struct {
	Severity Severity
	Location string
	Message  string
}

func (i Issue) Error() string {
	return i.Location + ": " + i.Message
}

func (i Issue) Unwrap() error {
	if i.Severity == SeverityError {
		return ErrSchemaViolation
	}
	return nil
}

type Report struct {
	Matches  int
	Errors   []Issue
	Warnings []Issue
}

func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Write prints up to maxWarnings warnings followed by every error.
func (r Report) Write(w io.Writer, maxWarnings int) error {
	if maxWarnings <= 0 {
		maxWarnings = DefaultMaxWarnings
	}

	var b strings.Builder
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\n%d warnings:\n", len(r.Warnings))
		for i, issue := range r.Warnings {
			if i >= maxWarnings {
				break
			}
			fmt.Fprintf(&b, "  WARN: %s\n", issue.Error())
		}
		if len(r.Warnings) > maxWarnings {
			fmt.Fprintf(&b, "  ... and %d more\n", len(r.Warnings)-maxWarnings)
		}
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\n%d errors:\n", len(r.Errors))
		for _, issue := range r.Errors {
			fmt.Fprintf(&b, "  ERROR: %s\n", issue.Error())
		}
	} else {
		fmt.Fprintf(&b, "\nAll %d matches valid!\n", r.Matches)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var positionTag = "oneof=" + strings.Join(player.PositionNames(), " ")

// ValidationService checks a persisted dataset against the canonical schema.
type ValidationService struct {
	repo     match.Repository
	validate *validator.Validate
}

func NewValidationService(repo match.Repository) *ValidationService {
	return &ValidationService{
		repo:     repo,
		validate: validator.New(),
	}
}

// ValidateDataset reads the repository's raw bytes and validates them.
func (s *ValidationService) ValidateDataset(ctx context.Context) (Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValidationService.ValidateDataset")
	defer span.End()

	if s.repo == nil {
		return Report{}, fmt.Errorf("%w: no dataset repository configured", ErrInvalidInput)
	}
	raw, err := s.repo.LoadRaw(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load dataset: %w", err)
	}
	return s.Validate(raw)
}

// Check validates the dataset and prints the report to w, labelling it with
// path. A missing dataset is printed as "ERROR: <path> not found" and the
// error still wraps match.ErrDatasetNotFound.
func (s *ValidationService) Check(ctx context.Context, w io.Writer, path string) (Report, error) {
	report, err := s.ValidateDataset(ctx)
	if errors.Is(err, match.ErrDatasetNotFound) {
		if _, werr := fmt.Fprintf(w, "ERROR: %s not found\n", path); werr != nil {
			return Report{}, werr
		}
		return Report{}, err
	}
	if err != nil {
		return Report{}, err
	}

	if _, err := fmt.Fprintf(w, "Validating %d matches...\n", report.Matches); err != nil {
		return report, err
	}
	if err := report.Write(w, DefaultMaxWarnings); err != nil {
		return report, err
	}
	return report, nil
}

// Validate never stops at the first problem. The returned error is only set
// when the payload is not JSON at all.
func (s *ValidationService) Validate(raw []byte) (Report, error) {
	var root any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return Report{}, fmt.Errorf("%w: decode dataset: %v", ErrSchemaViolation, err)
	}

	var report Report
	matches, ok := root.([]any)
	if !ok {
		report.Errors = append(report.Errors, Issue{Severity: SeverityError, Location: "root", Message: "root must be an array"})
		return report, nil
	}

	report.Matches = len(matches)
	for i, item := range matches {
		s.validateMatch(&report, i, item)
	}
	return report, nil
}

func (s *ValidationService) validateMatch(report *Report, index int, item any) {
	obj, ok := item.(map[string]any)
	if !ok {
		report.addError(fmt.Sprintf("Match %d (?)", index), "match must be an object")
		return
	}

	id := "?"
	if v, ok := obj["id"].(string); ok {
		id = v
	}
	prefix := fmt.Sprintf("Match %d (%s)", index, id)

	if missing := missingKeys(obj, match.RequiredFields); len(missing) > 0 {
		report.addError(prefix, "missing fields "+formatKeys(missing))
		return
	}

	for _, side := range match.Sides {
		key := side.LineupKey()
		s.validateLineup(report, prefix+" "+key, obj[key])
	}
}

func (s *ValidationService) validateLineup(report *Report, prefix string, item any) {
	lineup, _ := item.(map[string]any)

	players, _ := lineup["players"].([]any)
	if len(players) != match.LineupSize {
		report.addError(prefix, fmt.Sprintf("has %d players, expected %d", len(players), match.LineupSize))
		return
	}

	formationText, _ := lineup["formation"].(string)
	if _, err := formation.ToPositions(formationText); err != nil {
		report.addError(prefix, fmt.Sprintf("invalid formation '%s': %v", formationText, err))
		return
	}

	for j, p := range players {
		s.validatePlayer(report, fmt.Sprintf("%s player %d", prefix, j), p)
	}
}

func (s *ValidationService) validatePlayer(report *Report, prefix string, item any) {
	obj, ok := item.(map[string]any)
	if !ok {
		report.addError(prefix, "player must be an object")
		return
	}

	if missing := missingKeys(obj, player.RequiredFields); len(missing) > 0 {
		report.addError(prefix, "missing fields "+formatKeys(missing))
	}

	position, isString := obj["position"].(string)
	if !isString || s.validate.Var(position, positionTag) != nil {
		report.addError(prefix, fmt.Sprintf("invalid position '%v'", displayValue(obj["position"])))
	}

	normalized, _ := obj["lastNameNormalized"].(string)
	if s.validate.Var(normalized, "required") != nil {
		report.addError(prefix, "empty lastNameNormalized")
	}

	if age := numberValue(obj["age"]); age <= 0 {
		report.addWarning(prefix, fmt.Sprintf("age is %v", formatNumber(age)))
	}
	if shirt := numberValue(obj["shirtNumber"]); shirt <= 0 {
		report.addWarning(prefix, fmt.Sprintf("shirtNumber is %v", formatNumber(shirt)))
	}
	if flag, _ := obj["nationalityFlag"].(string); flag == "" {
		report.addWarning(prefix, fmt.Sprintf("no flag for '%v'", displayValue(obj["nationality"])))
	}
}

func (r *Report) addError(location, message string) {
	r.Errors = append(r.Errors, Issue{Severity: SeverityError, Location: location, Message: message})
}

func (r *Report) addWarning(location, message string) {
	r.Warnings = append(r.Warnings, Issue{Severity: SeverityWarning, Location: location, Message: message})
}

func missingKeys(obj map[string]any, required []string) []string {
	var out []string
	for _, key := range required {
		if _, ok := obj[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func formatKeys(keys []string) string {
	return "{" + strings.Join(keys, ", ") + "}"
}

func numberValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func displayValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
