// Package files reads rosters and question lists from the CSV and XLSX
// exports the production team works with.
package files

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"quizshow-scoreboard/internal/domain"
)

var rankPattern = regexp.MustCompile(`\d+`)

// RosterResult is a parsed roster. Skipped counts rows that were not usable.
type RosterResult struct {
	Entries []domain.RosterEntry
	Skipped int
}

// QuestionResult is a parsed question list.
type QuestionResult struct {
	Questions []domain.Question
	Skipped   int
}

// ParseRoster picks the parser from the file extension.
func ParseRoster(filename string, data []byte) (RosterResult, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return ParseRosterCSV(data)
	case ".xlsx":
		return ParseRosterXLSX(data)
	default:
		return RosterResult{}, fmt.Errorf("unsupported roster file type: %q", ext)
	}
}

// ParseRosterCSV reads "rank, organization, name" rows. The rank column may
// carry text around the number ("No.12").
func ParseRosterCSV(data []byte) (RosterResult, error) {
	rows, err := readCSV(data)
	if err != nil {
		return RosterResult{}, err
	}
	return rosterFromRows(rows)
}

// ParseQuestionsCSV reads "question, answer" rows.
func ParseQuestionsCSV(data []byte) (QuestionResult, error) {
	rows, err := readCSV(data)
	if err != nil {
		return QuestionResult{}, err
	}

	var res QuestionResult
	for _, row := range rows {
		if len(row) < 2 {
			res.Skipped++
			continue
		}
		res.Questions = append(res.Questions, domain.Question{Text: row[0], Answer: row[1]})
	}
	if len(res.Questions) == 0 {
		return res, fmt.Errorf("no question rows: %w", domain.ErrQuestionSetNotFound)
	}
	return res, nil
}

func readCSV(data []byte) ([][]string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func rosterFromRows(rows [][]string) (RosterResult, error) {
	var res RosterResult
	for _, row := range rows {
		// a whole row quoted into one cell
		if len(row) == 1 {
			row = strings.Split(strings.ReplaceAll(row[0], `"`, ""), ",")
		}
		if len(row) < 3 {
			res.Skipped++
			continue
		}
		match := rankPattern.FindString(row[0])
		if match == "" {
			res.Skipped++
			continue
		}
		rank, err := strconv.Atoi(match)
		if err != nil || rank < 1 {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, domain.RosterEntry{
			Rank:         rank,
			Organization: strings.TrimSpace(row[1]),
			Name:         strings.TrimSpace(row[2]),
		})
	}
	if len(res.Entries) == 0 {
		return res, fmt.Errorf("no roster rows: %w", domain.ErrRosterNotFound)
	}
	return res, nil
}
