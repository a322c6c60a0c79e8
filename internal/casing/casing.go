// Package casing converts spec identifiers between UpperCamel, UPPER_SNAKE
// and lower_snake.
//
// Only ASCII letters and digits are accepted. A valid UpperCamel name starts
// with an uppercase letter, never has two uppercase letters in a row, and
// never has a lowercase letter right after a digit. On that set the
// conversions are injective and CamelToUpperSnake/UpperSnakeToCamel
// invert each other.
package casing

import "strings"

// Case names an identifier style.
type Case uint8

const (
	UpperCamel Case = iota
	UpperSnake
	LowerSnake
)

func (c Case) String() string {
	switch c {
	case UpperCamel:
		return "UpperCamel"
	case UpperSnake:
		return "UPPER_SNAKE"
	case LowerSnake:
		return "lower_snake"
	}
	return "unknown"
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ValidChars reports whether s only uses the characters allowed for c.
// UpperCamel forbids underscores.
func ValidChars(s string, c Case) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case isUpper(b), isLower(b), isDigit(b):
		case b == '_' && c != UpperCamel:
		default:
			return false
		}
	}
	return true
}

// Is reports whether s is already spelled in case c.
func Is(s string, c Case) bool {
	if s == "" || !ValidChars(s, c) {
		return false
	}
	switch c {
	case UpperCamel:
		return isUpperCamel(s)
	case UpperSnake:
		return isSnake(s, isUpper)
	case LowerSnake:
		return isSnake(s, isLower)
	}
	return false
}

func isUpperCamel(s string) bool {
	if !isUpper(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]
		if isUpper(prev) && isUpper(cur) {
			return false
		}
		if isDigit(prev) && isLower(cur) {
			return false
		}
	}
	return true
}

// isSnake accepts letter-led words joined by single underscores, with
// letters restricted by letter.
func isSnake(s string, letter func(byte) bool) bool {
	if !letter(s[0]) {
		return false
	}
	for _, word := range strings.Split(s, "_") {
		if word == "" {
			return false
		}
		for i := 0; i < len(word); i++ {
			if !letter(word[i]) && !isDigit(word[i]) {
				return false
			}
		}
	}
	return true
}

// Words splits an UpperCamel identifier at lower-to-upper and
// letter/digit transitions.
func Words(s string) []string {
	if s == "" {
		return nil
	}
	words := make([]string, 0, 4)
	start := 0
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]
		split := (isLower(prev) && isUpper(cur)) ||
			(isUpper(prev) && isUpper(cur)) ||
			(isDigit(prev) != isDigit(cur))
		if split {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// CamelToUpperSnake converts MyErr1 to MY_ERR_1.
func CamelToUpperSnake(s string) string {
	return strings.ToUpper(strings.Join(Words(s), "_"))
}

// CamelToLowerSnake converts MyErr1 to my_err_1.
func CamelToLowerSnake(s string) string {
	return strings.ToLower(strings.Join(Words(s), "_"))
}

// SnakeToCamel converts MY_ERR_1 or my_err_1 to MyErr1.
func SnakeToCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, word := range strings.Split(s, "_") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	return b.String()
}

// LowerFirst lowercases the leading ASCII letter, turning an exported Go
// identifier into its unexported form.
func LowerFirst(s string) string {
	if s == "" || !isUpper(s[0]) {
		return s
	}
	return string(s[0]+('a'-'A')) + s[1:]
}
