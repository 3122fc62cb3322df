// Package quiz holds the pure question-generation and answer-evaluation
// logic. It has no storage or transport dependencies; randomness is injected
// so generation is deterministic under a seeded source.
package quiz

import (
	"fmt"
	"math/rand"
	"sync"

	"flightdeck/internal/config"
	"flightdeck/internal/model"
)

// Generator builds multiple-choice questions from an airport snapshot.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	mixedTypes bool
}

// NewGenerator returns a Generator using rng as its randomness source. When
// mixedTypes is false every question is CodeToAirport, matching the default
// policy; when true the type is picked uniformly per question.
func NewGenerator(rng *rand.Rand, mixedTypes bool) *Generator {
	return &Generator{rng: rng, mixedTypes: mixedTypes}
}

// Build picks one subject uniformly and three distinct distractors from the
// remaining airports (shuffle-and-take, so option order does not correlate
// with catalog order). Fails with model.ErrInsufficientData when fewer than
// four distinct options can be produced.
func (g *Generator) Build(airports []model.Airport) (*model.QuizQuestion, error) {
	if len(airports) < config.MinAirportsForQuiz {
		return nil, fmt.Errorf("need at least %d airports to generate a question, have %d: %w",
			config.MinAirportsForQuiz, len(airports), model.ErrInsufficientData)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	qType := model.CodeToAirport
	if g.mixedTypes && g.rng.Intn(2) == 1 {
		qType = model.AirportToCode
	}

	subject := airports[g.rng.Intn(len(airports))]
	correct := answerField(qType, &subject)

	// Shuffle the rest and take the first three distinct answer strings.
	rest := make([]model.Airport, 0, len(airports)-1)
	for _, a := range airports {
		if a.Code != subject.Code {
			rest = append(rest, a)
		}
	}
	g.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	seen := map[string]bool{normalize(correct): true}
	wrong := make([]string, 0, 3)
	for _, a := range rest {
		option := answerField(qType, &a)
		if seen[normalize(option)] {
			continue
		}
		seen[normalize(option)] = true
		wrong = append(wrong, option)
		if len(wrong) == 3 {
			break
		}
	}
	if len(wrong) < 3 {
		return nil, fmt.Errorf("could not collect 3 distinct distractors: %w", model.ErrInsufficientData)
	}

	return &model.QuizQuestion{
		Code:          subject.Code,
		CorrectAnswer: correct,
		WrongAnswers:  wrong,
		Type:          qType,
	}, nil
}

// answerField is the airport field a question of the given type asks for.
func answerField(t model.QuestionType, airport *model.Airport) string {
	if t == model.AirportToCode {
		return airport.Code
	}
	return airport.Name
}
