package validate

import (
	"errors"
	"strconv"
	"strings"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Add appends ef when it is non-nil, so checks can be chained.
func (e Errs) Add(ef *ErrField) Errs {
	if ef == nil {
		return e
	}
	return append(e, *ef)
}

// Required rejects the empty string. Whitespace is content.
func Required(field, value string) *ErrField {
	if value == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

// Present rejects an absent value; zero and negative values are fine.
func Present[T any](field string, v *T) *ErrField {
	if v == nil {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

// ID parses a decimal row id. Any int64 is accepted; whether it names a row is the store's call.
func ID(field, raw string) (int64, *ErrField) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ErrField{Field: field, Msg: "must be an integer"}
	}
	return id, nil
}

// Overflows reports whether raw is a signed all-digit integer outside the int64 range.
func Overflows(raw string) bool {
	digits := strings.TrimLeft(raw, "+-")
	if digits == "" || len(raw)-len(digits) > 1 {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	_, err := strconv.ParseInt(raw, 10, 64)
	return errors.Is(err, strconv.ErrRange)
}
