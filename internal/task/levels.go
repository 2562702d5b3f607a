package task

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Iron-Ham/taskgraph/internal/errors"
)

// Priority ranks.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
	PriorityNone     = 5
)

// Difficulty buckets.
const (
	DifficultyEasy   = 0.5
	DifficultyNormal = 1.0
	DifficultyHard   = 2.0
)

// Progress bounds.
const (
	ProgressMin  = 0.0
	ProgressDone = 100.0
)

var priorityNames = map[string]int{
	"critical": PriorityCritical,
	"high":     PriorityHigh,
	"medium":   PriorityMedium,
	"low":      PriorityLow,
	"none":     PriorityNone,
}

var difficultyNames = map[string]float64{
	"easy":   DifficultyEasy,
	"normal": DifficultyNormal,
	"hard":   DifficultyHard,
}

// PriorityNames returns the priority names from most to least urgent.
func PriorityNames() []string {
	return []string{"critical", "high", "medium", "low", "none"}
}

// DifficultyNames returns the difficulty bucket names from easiest to hardest.
func DifficultyNames() []string {
	return []string{"easy", "normal", "hard"}
}

// PriorityName returns the name of a priority rank, or its number when it is
// outside the known ranks.
func PriorityName(p int) string {
	for name, v := range priorityNames {
		if v == p {
			return name
		}
	}
	return strconv.Itoa(p)
}

// DifficultyName returns the bucket name of a difficulty, or the formatted
// number for custom weights.
func DifficultyName(d float64) string {
	for name, v := range difficultyNames {
		if v == d {
			return name
		}
	}
	return strconv.FormatFloat(d, 'g', -1, 64)
}

// ParsePriority accepts a priority name ("high") or rank ("2").
func ParsePriority(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := priorityNames[s]; ok {
		return p, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewValidationError(
			fmt.Sprintf("must be one of %s or 1-5", strings.Join(PriorityNames(), ", "))).
			WithField("priority").WithValue(s)
	}
	if err := ValidatePriority(p); err != nil {
		return 0, err
	}
	return p, nil
}

// ParseDifficulty accepts a bucket name ("hard") or a positive number.
func ParseDifficulty(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := difficultyNames[s]; ok {
		return d, nil
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.NewValidationError(
			fmt.Sprintf("must be one of %s or a positive number", strings.Join(DifficultyNames(), ", "))).
			WithField("difficulty").WithValue(s)
	}
	if err := ValidateDifficulty(d); err != nil {
		return 0, err
	}
	return d, nil
}

// ValidatePriority checks that p is a known rank.
func ValidatePriority(p int) error {
	if p < PriorityCritical || p > PriorityNone {
		return errors.NewValidationError("must be between 1 and 5").
			WithField("priority").WithValue(p)
	}
	return nil
}

// ValidateDifficulty checks that d is a positive, finite weight.
func ValidateDifficulty(d float64) error {
	if !isFinite(d) || d <= 0 {
		return errors.NewValidationError("must be positive").
			WithField("difficulty").WithValue(d)
	}
	return nil
}

// ValidateProgress checks that v is within [0,100]. NaN is rejected.
func ValidateProgress(v float64) error {
	if !isFinite(v) || v < ProgressMin || v > ProgressDone {
		return errors.NewValidationError("must be between 0 and 100").
			WithField("progress").WithValue(v)
	}
	return nil
}

// isFinite is false for NaN and the infinities, which strconv.ParseFloat
// accepts as "nan" and "inf".
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateForm checks user input before a task is created. The engine does
// not call this; it trusts its callers.
func ValidateForm(f Form) error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.NewValidationError("must not be empty").WithField("name")
	}
	if err := ValidatePriority(f.Priority); err != nil {
		return err
	}
	return ValidateDifficulty(f.Difficulty)
}
