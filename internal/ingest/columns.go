package ingest

import "strings"

// Header keywords, matched case-insensitively as substrings.
var (
	termHeaders       = []string{"keyword", "term", "query", "search term"}
	volumeHeaders     = []string{"volume", "monthly searches"}
	positionHeaders   = []string{"position", "rank", "ranking", "pos", "serp"}
	targetHeaders     = []string{"target"}
	difficultyHeaders = []string{"difficulty", "kd"}
)

// Mapping records which column feeds each keyword field. -1 means absent.
type Mapping struct {
	Term       int `json:"term"`
	Volume     int `json:"volume"`
	Position   int `json:"position"`
	Target     int `json:"target"`
	Difficulty int `json:"difficulty"`
}

// DetectColumns maps header names to keyword fields. Target and difficulty
// are claimed first so headers such as "Target Position" or "Keyword
// Difficulty" are not mistaken for the position or term columns. Term,
// volume and position fall back to columns 0, 1 and 2 when no header
// matches.
func DetectColumns(header []string) Mapping {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	taken := make(map[int]bool)

	find := func(keys []string) int {
		for i, h := range lower {
			if taken[i] {
				continue
			}
			for _, k := range keys {
				if strings.Contains(h, k) {
					taken[i] = true
					return i
				}
			}
		}
		return -1
	}
	fallback := func(idx, col int) int {
		if idx >= 0 || col >= len(header) || taken[col] {
			return idx
		}
		taken[col] = true
		return col
	}

	m := Mapping{
		Target:     find(targetHeaders),
		Difficulty: find(difficultyHeaders),
	}
	m.Term = find(termHeaders)
	m.Volume = find(volumeHeaders)
	m.Position = find(positionHeaders)

	m.Term = fallback(m.Term, 0)
	m.Volume = fallback(m.Volume, 1)
	m.Position = fallback(m.Position, 2)
	return m
}

// field returns the column name mapped to idx, or "" when absent.
func field(header []string, idx int) string {
	if idx < 0 || idx >= len(header) {
		return ""
	}
	return header[idx]
}
