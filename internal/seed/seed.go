// Package seed loads initial users and books from CSV files. Lines starting
// with '#' are comments. Malformed or duplicate records are logged and
// skipped; a bad line never aborts the load.
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"bookery/internal/catalog"
	"bookery/internal/session"
)

// LoadUsers reads `name,password` records and registers each user. It returns
// the number of users loaded.
func LoadUsers(ctx context.Context, svc session.Service, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open users file: %w", err)
	}
	defer f.Close()

	loaded := 0
	forEachRecord(f, path, func(record []string) {
		if len(record) != 2 {
			slog.Warn("skipping malformed user record", "file", path, "fields", len(record))
			return
		}
		if _, err := svc.Register(ctx, record[0], record[1]); err != nil {
			slog.Warn("skipping user record", "file", path, "name", record[0], "error", err)
			return
		}
		loaded++
	})
	return loaded, nil
}

// LoadBooks reads `title,author,year,rating,isbn,owner` records and inserts
// each book directly into the store; seed data predates any session. It
// returns the number of books loaded.
func LoadBooks(store *catalog.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open books file: %w", err)
	}
	defer f.Close()

	loaded := 0
	forEachRecord(f, path, func(record []string) {
		book, err := parseBook(record)
		if err != nil {
			slog.Warn("skipping malformed book record", "file", path, "error", err)
			return
		}
		if err := store.Add(book); err != nil {
			slog.Warn("skipping book record", "file", path, "isbn", book.ISBN, "error", err)
			return
		}
		loaded++
	})
	return loaded, nil
}

func parseBook(record []string) (catalog.Book, error) {
	if len(record) != 6 {
		return catalog.Book{}, fmt.Errorf("want 6 fields, got %d", len(record))
	}
	year, err := strconv.Atoi(record[2])
	if err != nil {
		return catalog.Book{}, fmt.Errorf("bad year %q: %w", record[2], err)
	}
	rating, err := catalog.ParseRating(record[3])
	if err != nil {
		return catalog.Book{}, err
	}
	return catalog.Book{
		Title:  record[0],
		Author: record[1],
		Year:   year,
		Rating: rating,
		ISBN:   record[4],
		Owner:  record[5],
	}, nil
}

// forEachRecord feeds every CSV record to fn, logging and skipping lines the
// reader cannot parse.
func forEachRecord(r io.Reader, path string, fn func(record []string)) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			slog.Warn("skipping unreadable line", "file", path, "error", err)
			continue
		}
		fn(record)
	}
}
