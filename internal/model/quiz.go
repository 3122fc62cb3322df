// internal/model/quiz.go
package model

// QuestionType is a closed set: the prompt either shows a code and asks for
// the airport name, or shows the name and asks for the code.
type QuestionType string

const (
	CodeToAirport QuestionType = "code_to_airport"
	AirportToCode QuestionType = "airport_to_code"
)

func (t QuestionType) Valid() bool {
	return t == CodeToAirport || t == AirportToCode
}

// QuizQuestion is transient: it lives for one question/answer round-trip.
// The client echoes Code and Type back with its answer; no server-side
// session holds pending questions.
type QuizQuestion struct {
	Code          string       `json:"code"`
	CorrectAnswer string       `json:"correct_answer"`
	WrongAnswers  []string     `json:"wrong_answers"`
	Type          QuestionType `json:"question_type"`
}

type SubmitAnswerRequest struct {
	Code         string       `json:"code" validate:"required,len=3"`
	QuestionType QuestionType `json:"question_type" validate:"required"`
	Answer       string       `json:"answer" validate:"required"`
}

// QuizStats reflects the post-update progress for the answered airport.
type QuizStats struct {
	TotalAttempts  int     `json:"total_attempts"`
	CorrectAnswers int     `json:"correct_answers"`
	AccuracyRate   float64 `json:"accuracy_rate"`
	CurrentStreak  int     `json:"current_streak"`
	BestStreak     int     `json:"best_streak"`
}

type AnswerResponse struct {
	IsCorrect     bool      `json:"is_correct"`
	CorrectAnswer string    `json:"correct_answer"`
	Feedback      string    `json:"feedback"`
	Stats         QuizStats `json:"stats"`
}

// QuizSummary aggregates across all of a user's progress records.
type QuizSummary struct {
	TotalQuizzes    int     `json:"total_quizzes"`
	TotalCorrect    int     `json:"total_correct"`
	AccuracyRate    float64 `json:"accuracy_rate"`
	AirportsStudied int     `json:"airports_studied"`
	WeakAirports    int     `json:"weak_airports"`
	CurrentStreak   int     `json:"current_streak"`
	BestStreak      int     `json:"best_streak"`
}
