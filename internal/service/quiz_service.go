package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"flightdeck/internal/middleware"
	"flightdeck/internal/model"
	"flightdeck/internal/quiz"
	"flightdeck/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizService composes question generation, answer evaluation and progress
// tracking into the two user-facing operations plus the stats aggregate.
type QuizService interface {
	GetQuestion(ctx context.Context) (*model.QuizQuestion, error)
	SubmitAnswer(ctx context.Context, userID uuid.UUID, req *model.SubmitAnswerRequest) (*model.AnswerResponse, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*model.QuizSummary, error)
}

type quizService struct {
	db          *gorm.DB
	airportRepo repository.AirportRepository
	progRepo    repository.ProgressRepository
	generator   *quiz.Generator
	now         func() time.Time
}

func NewQuizService(db *gorm.DB, airportRepo repository.AirportRepository, progRepo repository.ProgressRepository, generator *quiz.Generator) QuizService {
	return &quizService{
		db:          db,
		airportRepo: airportRepo,
		progRepo:    progRepo,
		generator:   generator,
		now:         time.Now,
	}
}

// GetQuestion generates a question over the current catalog snapshot. The
// catalog read is idempotent and retried once on storage failure.
func (s *quizService) GetQuestion(ctx context.Context) (*model.QuizQuestion, error) {
	logger := middleware.GetLogger(ctx)

	airports, err := s.airportRepo.FindAll(ctx, s.db)
	if err != nil {
		logger.Warn("Catalog read failed, retrying once", "error", err)
		airports, err = s.airportRepo.FindAll(ctx, s.db)
		if err != nil {
			logger.Error("Catalog read failed after retry", "error", err)
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load the airport catalog.", "", err)
		}
	}

	question, err := s.generator.Build(airports)
	if err != nil {
		if errors.Is(err, model.ErrInsufficientData) {
			logger.Warn("Not enough airports to generate a question", "count", len(airports))
			return nil, model.NewAppError("INSUFFICIENT_AIRPORTS", "Need at least 4 airports in the catalog to generate quiz questions.", "", model.ErrInsufficientData)
		}
		logger.Error("Question generation failed", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to generate a question.", "", err)
	}

	logger.Info("Question generated", "code", question.Code, "type", question.Type)
	return question, nil
}

// SubmitAnswer evaluates the answer and applies the outcome to the user's
// progress for the airport. The read-modify-write runs inside one
// transaction with the progress row locked, so concurrent submissions for
// the same (user, airport) serialize instead of dropping updates. The write
// is never retried.
func (s *quizService) SubmitAnswer(ctx context.Context, userID uuid.UUID, req *model.SubmitAnswerRequest) (*model.AnswerResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "code", req.Code)

	airport, err := s.airportRepo.FindByCode(ctx, s.db, req.Code)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Answer submitted for unknown airport code")
			return nil, model.NewAppError("UNKNOWN_AIRPORT", fmt.Sprintf("Airport code '%s' not found.", req.Code), "code", model.ErrInvalidInput)
		}
		logger.Error("Error finding airport for answer", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	isCorrect, err := quiz.Evaluate(req.QuestionType, airport, req.Answer)
	if err != nil {
		logger.Warn("Unknown question type in answer submission", "question_type", req.QuestionType)
		return nil, model.NewAppError("UNKNOWN_QUESTION_TYPE", fmt.Sprintf("Question type '%s' is not recognized.", req.QuestionType), "question_type", model.ErrInvalidInput)
	}

	var progress *model.UserProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.progRepo.FindByUserAndAirportForUpdate(ctx, tx, userID, airport.Code)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error locking progress row", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to record the answer.", "", err)
		}

		now := s.now()
		if existing == nil {
			// The savepoint keeps the transaction usable if the insert loses
			// a first-answer race against the composite unique index.
			tx.SavePoint("create_progress")
			created := newProgress(userID, airport.Code, isCorrect, now)
			createErr := s.progRepo.Create(ctx, tx, created)
			if createErr == nil {
				progress = created
				return nil
			}
			if !errors.Is(createErr, model.ErrConflict) {
				logger.Error("Error creating progress", "error", createErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to record the answer.", "", createErr)
			}
			tx.RollbackTo("create_progress")
			existing, err = s.progRepo.FindByUserAndAirportForUpdate(ctx, tx, userID, airport.Code)
			if err != nil {
				logger.Error("Error re-reading progress after insert conflict", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to record the answer.", "", err)
			}
		}

		applyOutcome(existing, isCorrect, now)
		if err := s.progRepo.Update(ctx, tx, existing); err != nil {
			logger.Error("Error updating progress", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to record the answer.", "", err)
		}
		progress = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	correctAnswer := quiz.CorrectAnswerFor(req.QuestionType, airport)
	feedback := buildFeedback(isCorrect, correctAnswer, progress.CurrentStreak)

	logger.Info("Answer recorded",
		"is_correct", isCorrect,
		"total_attempts", progress.TotalAttempts,
		"current_streak", progress.CurrentStreak,
	)

	return &model.AnswerResponse{
		IsCorrect:     isCorrect,
		CorrectAnswer: correctAnswer,
		Feedback:      feedback,
		Stats: model.QuizStats{
			TotalAttempts:  progress.TotalAttempts,
			CorrectAnswers: progress.CorrectAnswers,
			AccuracyRate:   roundPercent(progress.AccuracyRate()),
			CurrentStreak:  progress.CurrentStreak,
			BestStreak:     progress.BestStreak,
		},
	}, nil
}

// GetStats aggregates across all of the user's progress records. A user with
// no records gets a zero summary, not an error.
func (s *quizService) GetStats(ctx context.Context, userID uuid.UUID) (*model.QuizSummary, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	progresses, err := s.progRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to load progress records", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load quiz stats.", "", err)
	}

	summary := &model.QuizSummary{AirportsStudied: len(progresses)}
	for _, p := range progresses {
		summary.TotalQuizzes += p.TotalAttempts
		summary.TotalCorrect += p.CorrectAnswers
		summary.CurrentStreak += p.CurrentStreak
		if p.IsWeak() {
			summary.WeakAirports++
		}
		if p.BestStreak > summary.BestStreak {
			summary.BestStreak = p.BestStreak
		}
	}
	if summary.TotalQuizzes > 0 {
		summary.AccuracyRate = roundPercent(float64(summary.TotalCorrect) / float64(summary.TotalQuizzes))
	}

	logger.Info("Stats aggregated", "airports_studied", summary.AirportsStudied)
	return summary, nil
}

// newProgress is the first-answer state: one attempt, streaks seeded from
// the outcome.
func newProgress(userID uuid.UUID, code string, isCorrect bool, now time.Time) *model.UserProgress {
	hit := 0
	if isCorrect {
		hit = 1
	}
	return &model.UserProgress{
		ProgressID:     uuid.New(),
		UserID:         userID,
		AirportCode:    code,
		CorrectAnswers: hit,
		TotalAttempts:  1,
		CurrentStreak:  hit,
		BestStreak:     hit,
		LastStudied:    now,
	}
}

// applyOutcome mutates progress per the streak rules: a hit extends the
// streak and may raise the best, a miss resets the streak and leaves the
// best untouched.
func applyOutcome(progress *model.UserProgress, isCorrect bool, now time.Time) {
	progress.TotalAttempts++
	progress.LastStudied = now

	if isCorrect {
		progress.CorrectAnswers++
		progress.CurrentStreak++
		if progress.CurrentStreak > progress.BestStreak {
			progress.BestStreak = progress.CurrentStreak
		}
	} else {
		progress.CurrentStreak = 0
	}
}

func buildFeedback(isCorrect bool, correctAnswer string, currentStreak int) string {
	if !isCorrect {
		return fmt.Sprintf("Incorrect. ❌ The correct answer is: %s", correctAnswer)
	}
	feedback := "Correct! ✅ Great job!"
	if currentStreak > 1 {
		feedback += fmt.Sprintf(" Streak: %d! 🔥", currentStreak)
	}
	return feedback
}

// roundPercent converts a 0..1 rate to a percentage with one decimal.
func roundPercent(rate float64) float64 {
	return math.Round(rate*1000) / 10
}
