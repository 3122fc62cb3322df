package quiz

import (
	"fmt"
	"strings"

	"flightdeck/internal/model"
)

// Evaluate scores a submitted answer against the airport the question was
// about. Comparison trims surrounding whitespace and ignores case. An
// unrecognized question type is a client error, not a crash.
func Evaluate(qType model.QuestionType, airport *model.Airport, submitted string) (bool, error) {
	if !qType.Valid() {
		return false, fmt.Errorf("unknown question type %q: %w", qType, model.ErrInvalidInput)
	}
	return normalize(submitted) == normalize(answerField(qType, airport)), nil
}

// CorrectAnswerFor returns the expected answer string for feedback messages.
func CorrectAnswerFor(qType model.QuestionType, airport *model.Airport) string {
	return answerField(qType, airport)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
