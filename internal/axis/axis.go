// Package axis validates user edits to the display ranges of the trend charts.
package axis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Kind identifies one of the editable chart axes.
type Kind int

const (
	Time Kind = iota
	InflectionFrequency
	InflectionImpedance
)

// Kinds lists every editable axis in display order.
var Kinds = []Kind{Time, InflectionFrequency, InflectionImpedance}

func (k Kind) String() string {
	switch k {
	case Time:
		return "time"
	case InflectionFrequency:
		return "inflection frequency"
	case InflectionImpedance:
		return "inflection impedance"
	default:
		return fmt.Sprintf("axis(%d)", int(k))
	}
}

// Range is a closed display interval. A valid range has Min < Max.
type Range struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Valid reports whether Min < Max and both bounds are finite.
func (r Range) Valid() bool {
	return isFinite(r.Min) && isFinite(r.Max) && r.Min < r.Max
}

// Default display ranges for the editable axes.
var (
	DefaultTime                = Range{Min: 0, Max: 30}
	DefaultInflectionFrequency = Range{Min: 1000, Max: 1500}
	DefaultInflectionImpedance = Range{Min: 0, Max: 100}
)

// Fixed ranges for the axes the user cannot edit.
var (
	SParamFrequency = Range{Min: 0.85, Max: 4}
	S11             = Range{Min: -50, Max: 0}
	MinS11          = Range{Min: -40, Max: 0}
)

// ValidationError reports numeric input that was rejected.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q: %s", e.Input, e.Reason)
}

// ApplyEdit returns the range produced by the user's min/max text, or current
// unchanged when the edit is empty, unparsable, or would break Min < Max.
// The bool reports whether the edit was accepted.
func ApplyEdit(current Range, minText, maxText string) (Range, bool) {
	minText = strings.TrimSpace(minText)
	maxText = strings.TrimSpace(maxText)

	switch {
	case minText != "" && maxText == "":
		lo, err := parseBound(minText)
		if err != nil || lo >= current.Max {
			return current, false
		}
		return Range{Min: lo, Max: current.Max}, true

	case minText == "" && maxText != "":
		hi, err := parseBound(maxText)
		if err != nil || hi <= current.Min {
			return current, false
		}
		return Range{Min: current.Min, Max: hi}, true

	case minText != "" && maxText != "":
		lo, err := parseBound(minText)
		if err != nil {
			return current, false
		}
		hi, err := parseBound(maxText)
		if err != nil || hi <= lo {
			return current, false
		}
		return Range{Min: lo, Max: hi}, true
	}
	return current, false
}

func parseBound(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ValidationError{Input: text, Reason: "not a number"}
	}
	if !isFinite(v) {
		return 0, &ValidationError{Input: text, Reason: "not finite"}
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseSmoothing parses a rolling-mean window width. Widths below one are
// rejected.
func ParseSmoothing(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	w, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &ValidationError{Input: text, Reason: "not an integer"}
	}
	if w < 1 {
		return 0, &ValidationError{Input: text, Reason: "must be at least 1"}
	}
	return w, nil
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Ranges is the full set of editable ranges.
type Ranges struct {
	Time                Range `toml:"time"`
	InflectionFrequency Range `toml:"inflection_frequency"`
	InflectionImpedance Range `toml:"inflection_impedance"`
}

// Defaults returns the startup ranges.
func Defaults() Ranges {
	return Ranges{
		Time:                DefaultTime,
		InflectionFrequency: DefaultInflectionFrequency,
		InflectionImpedance: DefaultInflectionImpedance,
	}
}

// Get returns the range for kind.
func (r Ranges) Get(kind Kind) Range {
	switch kind {
	case InflectionFrequency:
		return r.InflectionFrequency
	case InflectionImpedance:
		return r.InflectionImpedance
	default:
		return r.Time
	}
}

func (r *Ranges) set(kind Kind, v Range) {
	switch kind {
	case InflectionFrequency:
		r.InflectionFrequency = v
	case InflectionImpedance:
		r.InflectionImpedance = v
	default:
		r.Time = v
	}
}

// Controller owns the editable ranges. It is safe for concurrent use.
type Controller struct {
	mu     sync.RWMutex
	ranges Ranges
}

// NewController returns a controller seeded with the default ranges.
func NewController() *Controller {
	return &Controller{ranges: Defaults()}
}

// Apply validates an edit for kind and stores the result when accepted.
func (c *Controller) Apply(kind Kind, minText, maxText string) (Range, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := ApplyEdit(c.ranges.Get(kind), minText, maxText)
	if ok {
		c.ranges.set(kind, next)
	}
	return next, ok
}

// Range returns the current range for kind.
func (c *Controller) Range(kind Kind) Range {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ranges.Get(kind)
}

// Ranges returns a copy of all ranges.
func (c *Controller) Ranges() Ranges {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ranges
}

// Restore replaces the stored ranges. Invalid entries keep their default.
func (c *Controller) Restore(saved Ranges) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defaults := Defaults()
	for _, kind := range Kinds {
		v := saved.Get(kind)
		if !v.Valid() {
			v = defaults.Get(kind)
		}
		c.ranges.set(kind, v)
	}
}
