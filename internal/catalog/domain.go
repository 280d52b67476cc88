// Package catalog holds the shared book collection and the
// authorization-guarded mutation surface in front of it.
package catalog

import (
	"fmt"
	"strings"

	"bookery/internal/platform/errors"
)

// Rating grades a book.
type Rating string

const (
	RatingPoor      Rating = "POOR"
	RatingAverage   Rating = "AVERAGE"
	RatingGood      Rating = "GOOD"
	RatingExcellent Rating = "EXCELLENT"
	RatingUnknown   Rating = "UNKNOWN"
)

// ParseRating converts a string to a Rating, case-insensitively.
func ParseRating(s string) (Rating, error) {
	switch Rating(strings.ToUpper(s)) {
	case RatingPoor:
		return RatingPoor, nil
	case RatingAverage:
		return RatingAverage, nil
	case RatingGood:
		return RatingGood, nil
	case RatingExcellent:
		return RatingExcellent, nil
	case RatingUnknown:
		return RatingUnknown, nil
	}
	return "", errors.InvalidArgument(fmt.Sprintf("unknown rating %q", s))
}

// Book is a catalog record. Its identity is the (isbn, owner) pair, with the
// owner compared case-insensitively.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Rating Rating `json:"rating"`
	ISBN   string `json:"isbn"`
	Owner  string `json:"owner"`
}

// Validate checks the record's fields.
func (b Book) Validate() error {
	if b.Title == "" {
		return errors.InvalidArgument("the title must be non-empty")
	}
	if b.Author == "" {
		return errors.InvalidArgument("the author must be non-empty")
	}
	if b.Year < 0 {
		return errors.InvalidArgument("the year must not be negative")
	}
	if _, err := ParseRating(string(b.Rating)); err != nil {
		return err
	}
	if !CorrectISBNFormat(b.ISBN) {
		return errors.InvalidArgument(fmt.Sprintf("the ISBN %q did not have the correct format", b.ISBN))
	}
	if b.Owner == "" {
		return errors.InvalidArgument("the owner must be non-empty")
	}
	return nil
}

// BookAddedEvent is journaled when a book enters the catalog.
type BookAddedEvent struct {
	ISBN  string `json:"isbn"`
	Owner string `json:"owner"`
	Title string `json:"title"`
}

// BookRemovedEvent is journaled when a book leaves the catalog.
type BookRemovedEvent struct {
	ISBN  string `json:"isbn"`
	Owner string `json:"owner"`
}

// key is the identity of a Book within the catalog.
type key struct {
	isbn  string
	owner string // case-folded
}

func (b Book) key() key {
	return key{isbn: b.ISBN, owner: strings.ToLower(b.Owner)}
}

// CorrectISBNFormat reports whether isbn is either exactly 10 digits or a
// 3-digit group, a hyphen, and a recursively valid ISBN:
//
//	0123456789
//	123-0123456789
func CorrectISBNFormat(isbn string) bool {
	switch len(isbn) {
	case 10:
		return allDigits(isbn)
	case 14:
		group, rest, ok := strings.Cut(isbn, "-")
		if !ok || len(group) != 3 {
			return false
		}
		return allDigits(group) && CorrectISBNFormat(rest)
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
