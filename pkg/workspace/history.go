package workspace

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"studyspace-be/internal/entity"
)

const (
	DefaultHistoryCap = 50
	excerptRunes      = 80
)

// appendHistory puts item first and drops the oldest entries beyond limit.
func appendHistory(history []entity.StudyHistoryItem, item entity.StudyHistoryItem, limit int) []entity.StudyHistoryItem {
	if limit <= 0 {
		limit = DefaultHistoryCap
	}
	out := make([]entity.StudyHistoryItem, 0, min(len(history)+1, limit))
	out = append(out, item)
	for _, h := range history {
		if len(out) == limit {
			break
		}
		out = append(out, h)
	}
	return out
}

func newHistoryItem(input string, mode entity.Mode, at time.Time) entity.StudyHistoryItem {
	return entity.StudyHistoryItem{
		Id:           uuid.New(),
		Timestamp:    at,
		TopicExcerpt: Excerpt(input),
		Mode:         mode,
	}
}

// Excerpt collapses whitespace and cuts the input to a short topic line.
func Excerpt(input string) string {
	s := strings.Join(strings.Fields(input), " ")
	if utf8.RuneCountInString(s) <= excerptRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:excerptRunes])) + "…"
}
