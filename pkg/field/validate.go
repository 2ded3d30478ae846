// ABOUTME: Per-kind validation predicates and error messages
// ABOUTME: Validation is pure and never fails the caller

package field

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rangePattern        = regexp.MustCompile(`^(\d{1,3}|\d{1,3}-\d{1,3})$`)
	compactDatePattern  = regexp.MustCompile(`^\d{8}T\d{6}$`)
	isoDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)
	alphanumericPattern = regexp.MustCompile(`^[A-Za-z0-9]*$`)
	filePattern         = regexp.MustCompile(`^\.(/[\p{L}\p{N}_ \-()]+)*(\.[A-Za-z0-9]+)?$`)
)

const (
	msgLineText      = "Must contain a single line of text."
	msgMultilineText = "Must contain one or more lines of text."
	msgInteger       = "Must be an integer."
	msgFloat         = "Must be a floating point number."
	msgBool          = "Must be a boolean value."
	msgRange         = "Must be a one number or a range eg 1-3"
	msgDate          = "Date format must be yyyymmddThhmmss or yyyy-mm-ddThh:mm:ss"
	msgAlphanumeric  = "Must be alphanumeric."
	msgFile          = "Must be a file path."
)

// Message returns the human-readable reason reported for an invalid value of kind
func Message(kind Kind) string {
	switch kind {
	case LineText:
		return msgLineText
	case MultilineText:
		return msgMultilineText
	case Integer:
		return msgInteger
	case Float:
		return msgFloat
	case Bool:
		return msgBool
	case Range:
		return msgRange
	case Date:
		return msgDate
	case Alphanumeric:
		return msgAlphanumeric
	case File:
		return msgFile
	}
	return msgLineText
}

// Check reports whether raw is acceptable for kind
func Check(kind Kind, raw string) bool {
	return validate(kind, raw) == ""
}

// validate returns "" for a valid value, otherwise the kind's message
func validate(kind Kind, raw string) string {
	var ok bool
	switch kind {
	case LineText:
		ok = !strings.ContainsAny(raw, "\r\n")
	case MultilineText:
		ok = true
	case Integer:
		_, err := strconv.ParseInt(raw, 10, 32)
		ok = err == nil
	case Float:
		ok = isDecimalFloat(raw)
	case Bool:
		_, err := strconv.ParseBool(raw)
		ok = err == nil
	case Range:
		ok = rangePattern.MatchString(raw)
	case Date:
		ok = compactDatePattern.MatchString(raw) || isoDatePattern.MatchString(raw)
	case Alphanumeric:
		ok = alphanumericPattern.MatchString(raw)
	case File:
		ok = filePattern.MatchString(raw)
	}
	if ok {
		return ""
	}
	return Message(kind)
}

// strconv.ParseFloat also takes hex mantissas and '_' separators; the
// catalog format only carries plain decimal notation.
func isDecimalFloat(raw string) bool {
	if strings.ContainsAny(raw, "xX_") {
		return false
	}
	_, err := strconv.ParseFloat(raw, 32)
	return err == nil
}
