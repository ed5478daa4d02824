package nlu

import "strconv"

// Intent is the caller's classified goal for one utterance.
type Intent string

const (
	IntentReserveTable     Intent = "reserve_table"
	IntentOrderTakeaway    Intent = "order_takeaway"
	IntentAskMenu          Intent = "ask_menu"
	IntentAskHoursLocation Intent = "ask_hours_location"
	IntentChangeCancel     Intent = "change_cancel"
	IntentFeedback         Intent = "feedback"
	IntentFallback         Intent = "fallback"
)

// Valid reports whether i is one of the enumerated intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentReserveTable, IntentOrderTakeaway, IntentAskMenu,
		IntentAskHoursLocation, IntentChangeCancel, IntentFeedback,
		IntentFallback:
		return true
	}
	return false
}

// Slots carries the fields extracted from one utterance. Keys are
// intent-dependent and never required; defaults apply at the use-site
// through the accessors below, never at parse time.
type Slots map[string]any

// Text returns the named slot as a string, or fallback when it is
// missing or empty.
func (s Slots) Text(key, fallback string) string {
	switch v := s[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return fallback
}

// Int returns the named slot as a positive integer, or fallback.
func (s Slots) Int(key string, fallback int) int {
	switch v := s[key].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// Float returns the named slot as a non-negative number, or fallback.
func (s Slots) Float(key string, fallback float64) float64 {
	switch v := s[key].(type) {
	case float64:
		if v >= 0 {
			return v
		}
	case int:
		if v >= 0 {
			return float64(v)
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return fallback
}

// List returns the named slot as a sequence, or an empty one.
func (s Slots) List(key string) []any {
	if v, ok := s[key].([]any); ok {
		return v
	}
	return []any{}
}

// Result is the normalized output of understanding one utterance.
type Result struct {
	Intent     Intent  `json:"intent"`
	Slots      Slots   `json:"slots"`
	Confidence float64 `json:"confidence"`
}

// Fallback is the degraded result returned whenever understanding fails.
func Fallback() Result {
	return Result{Intent: IntentFallback, Slots: Slots{}, Confidence: 0}
}

// normalize clamps a parsed result into the contract the orchestrator
// relies on: a known intent, non-nil slots, confidence in [0,1]. An
// intent outside the enumerated set discards the whole result.
func normalize(r Result) Result {
	if !r.Intent.Valid() {
		return Fallback()
	}
	if r.Slots == nil {
		r.Slots = Slots{}
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	return r
}
