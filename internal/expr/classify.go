package expr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/paragrid/internal/refpath"
)

// Class is the top-level classification of a raw expression.
type Class int

const (
	ClassInvalid Class = iota
	ClassString
	ClassNumber
	ClassCollection
	ClassReference
	ClassFunctionCall
	ClassCompound
)

func (c Class) String() string {
	switch c {
	case ClassString:
		return "string literal"
	case ClassNumber:
		return "number literal"
	case ClassCollection:
		return "collection"
	case ClassReference:
		return "reference"
	case ClassFunctionCall:
		return "function call"
	case ClassCompound:
		return "compound"
	default:
		return "invalid"
	}
}

// numberRegex is a decimal floating point literal with optional sign and exponent.
var numberRegex = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

var callRegex = regexp.MustCompile(`^@?[A-Za-z_][A-Za-z0-9_.]*\(.*\)$`)

// operatorChars holds every character that starts an operator token.
const operatorChars = "!%^&|*/+-"

// Classify determines what kind of expression raw is. The checks run in a
// fixed order, so a quoted string that contains operators is still a string
// literal and a signed number is a number literal, not a compound.
func Classify(raw string) Class {
	text := strings.TrimSpace(raw)
	switch {
	case text == "":
		return ClassInvalid
	case isStringLiteral(text):
		return ClassString
	case numberRegex.MatchString(text):
		return ClassNumber
	case strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{"):
		return ClassCollection
	case isReference(text):
		return ClassReference
	case callRegex.MatchString(text):
		return ClassFunctionCall
	case strings.ContainsAny(text, operatorChars) || strings.HasPrefix(text, "("):
		return ClassCompound
	}
	return ClassInvalid
}

func isStringLiteral(text string) bool {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return false
	}
	_, err := strconv.Unquote(text)
	return err == nil
}

func isReference(text string) bool {
	if !refpath.LooksLikeReference(text) {
		return false
	}
	_, err := refpath.Parse(text)
	return err == nil
}
