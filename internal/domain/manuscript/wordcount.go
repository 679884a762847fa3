package manuscript

import "strings"

// Abstract length thresholds.
const (
	WarnAbstractWords = 200
	MaxAbstractWords  = 250
)

// CountWords counts whitespace-delimited tokens. Blank text counts as zero.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Level is how the live counter is drawn for a given count.
type Level struct {
	Name  string `json:"level"`
	Color string `json:"color"`
	Bold  bool   `json:"bold"`
}

// Counter levels.
var (
	LevelOK   = Level{Name: "ok", Color: "#27ae60"}
	LevelWarn = Level{Name: "warn", Color: "#f39c12", Bold: true}
	LevelOver = Level{Name: "over", Color: "#e74c3c", Bold: true}
)

// LevelFor maps a word count to its counter level.
// POST: ok for count ≤ 200, warn for 201..250, over above 250
func LevelFor(count int) Level {
	switch {
	case count > MaxAbstractWords:
		return LevelOver
	case count > WarnAbstractWords:
		return LevelWarn
	default:
		return LevelOK
	}
}

// WordCount is the counter state for one abstract.
type WordCount struct {
	Count int `json:"count"`
	Level
}

// CountAbstract returns the counter state for text.
func CountAbstract(text string) WordCount {
	n := CountWords(text)
	return WordCount{Count: n, Level: LevelFor(n)}
}
