package coercer

import (
	"math"
	"strconv"
	"strings"

	"kycflow/internal/errors"
)

// TypeCoercer turns spreadsheet cell text into the typed values the API emits
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the literals recognised as booleans
type CoercionConfig struct {
	TrueLiteral  string `json:"true_literal"`
	FalseLiteral string `json:"false_literal"`
}

// DefaultCoercionConfig returns the Yes/No convention used by the onboarding workbooks
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		TrueLiteral:  "Yes",
		FalseLiteral: "No",
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// Int parses a cell as an integer. Spreadsheets store every number as a float,
// so "42.0" and "4.2E+1" are accepted and truncated toward zero.
func (c *TypeCoercer) Int(column, raw string) (int64, error) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, errors.InvalidNumber(column, raw)
	}

	if val, err := strconv.ParseInt(cleanVal, 10, 64); err == nil {
		return val, nil
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, errors.InvalidNumber(column, raw)
	}
	val = math.Trunc(val)
	if val >= math.MaxInt64 || val < math.MinInt64 {
		return 0, errors.InvalidNumber(column, raw)
	}
	return int64(val), nil
}

// Flag reports whether a cell holds exactly the true literal. Anything else is false.
func (c *TypeCoercer) Flag(raw string) bool {
	return raw == c.config.TrueLiteral
}

// FlagValue converts the true/false literals to booleans and returns any other value unchanged
func (c *TypeCoercer) FlagValue(val interface{}) interface{} {
	s, ok := val.(string)
	if !ok {
		return val
	}
	switch s {
	case c.config.TrueLiteral:
		return true
	case c.config.FalseLiteral:
		return false
	}
	return val
}
