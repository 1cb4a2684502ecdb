package task

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTitleLength is the longest allowed title, in characters.
const MaxTitleLength = 100

// NormalizeTitle trims surrounding whitespace and applies Unicode NFC, so
// "é" typed as e + combining accent counts as one character.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// ValidateTitle checks that the normalized title has 1..MaxTitleLength characters.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(NormalizeTitle(title))
	switch {
	case n == 0:
		return ErrEmptyTitle
	case n > MaxTitleLength:
		return ErrTitleTooLong
	}
	return nil
}

// ValidateDay checks that day is a weekday name.
func ValidateDay(day string) error {
	if !Day(day).Valid() {
		return ErrInvalidDay.with(day)
	}
	return nil
}

// ValidatePriority checks that priority is low, medium or high.
func ValidatePriority(priority string) error {
	if !Priority(priority).Valid() {
		return ErrInvalidPriority.with(priority)
	}
	return nil
}

// Validate checks title, then day, then priority and returns the first failure.
func Validate(title, day, priority string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	if err := ValidateDay(day); err != nil {
		return err
	}
	return ValidatePriority(priority)
}
