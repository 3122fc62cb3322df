// internal/service/quiz_service_test.go
package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"flightdeck/internal/model"
	"flightdeck/internal/quiz"
	"flightdeck/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDBQuiz opens a uniquely named in-memory database so tests do not
// share state through sqlite's shared cache.
func setupTestDBQuiz(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open sqlite for quiz service testing")

	err = db.AutoMigrate(&model.Airport{}, &model.User{}, &model.UserProgress{})
	require.NoError(t, err, "failed to migrate sqlite for quiz service testing")
	return db
}

func seedQuizAirports(t *testing.T, db *gorm.DB, airports []model.Airport) {
	t.Helper()
	require.NoError(t, db.Create(&airports).Error)
}

func seedQuizUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := &model.User{
		UserID:       uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		Username:     uuid.NewString()[:8],
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now(),
		LastLoginAt:  time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user.UserID
}

func newTestQuizService(db *gorm.DB) QuizService {
	return NewQuizService(
		db,
		repository.NewGormAirportRepository(),
		repository.NewGormProgressRepository(),
		quiz.NewGenerator(rand.New(rand.NewSource(1)), false),
	)
}

var quizTestAirports = []model.Airport{
	{Code: "ATL", Name: "Hartsfield-Jackson Atlanta International Airport", City: "Atlanta", Country: "USA", Region: "North America"},
	{Code: "LAX", Name: "Los Angeles International Airport", City: "Los Angeles", Country: "USA", Region: "North America"},
	{Code: "ORD", Name: "O'Hare International Airport", City: "Chicago", Country: "USA", Region: "North America"},
	{Code: "LHR", Name: "Heathrow Airport", City: "London", Country: "UK", Region: "Europe"},
	{Code: "HND", Name: "Tokyo Haneda Airport", City: "Tokyo", Country: "Japan", Region: "Asia"},
}

func Test_quizService_GetQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a question from the catalog", func(t *testing.T) {
		db := setupTestDBQuiz(t)
		seedQuizAirports(t, db, quizTestAirports)
		svc := newTestQuizService(db)

		q, err := svc.GetQuestion(ctx)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, model.CodeToAirport, q.Type)
		assert.Len(t, q.WrongAnswers, 3)
		assert.NotContains(t, q.WrongAnswers, q.CorrectAnswer)
	})

	t.Run("fewer than four airports", func(t *testing.T) {
		db := setupTestDBQuiz(t)
		seedQuizAirports(t, db, quizTestAirports[:3])
		svc := newTestQuizService(db)

		q, err := svc.GetQuestion(ctx)
		assert.Nil(t, q)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInsufficientData)

		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INSUFFICIENT_AIRPORTS", appErr.Code)
	})
}

func Test_quizService_SubmitAnswer_StreakLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBQuiz(t)
	seedQuizAirports(t, db, quizTestAirports)
	userID := seedQuizUser(t, db)
	svc := newTestQuizService(db)

	atlName := "Hartsfield-Jackson Atlanta International Airport"
	correctReq := &model.SubmitAnswerRequest{Code: "ATL", QuestionType: model.CodeToAirport, Answer: atlName}
	wrongReq := &model.SubmitAnswerRequest{Code: "ATL", QuestionType: model.CodeToAirport, Answer: "Heathrow Airport"}

	// First correct answer creates the progress row.
	resp, err := svc.SubmitAnswer(ctx, userID, correctReq)
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, atlName, resp.CorrectAnswer)
	assert.Equal(t, "Correct! ✅ Great job!", resp.Feedback)
	assert.Equal(t, model.QuizStats{
		TotalAttempts:  1,
		CorrectAnswers: 1,
		AccuracyRate:   100.0,
		CurrentStreak:  1,
		BestStreak:     1,
	}, resp.Stats)

	// Second and third correct answers extend the streak.
	resp, err = svc.SubmitAnswer(ctx, userID, correctReq)
	require.NoError(t, err)
	assert.Equal(t, "Correct! ✅ Great job! Streak: 2! 🔥", resp.Feedback)
	assert.Equal(t, 2, resp.Stats.CurrentStreak)

	resp, err = svc.SubmitAnswer(ctx, userID, correctReq)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Stats.CurrentStreak)
	assert.Equal(t, 3, resp.Stats.BestStreak)

	// A miss resets the current streak but not the best.
	resp, err = svc.SubmitAnswer(ctx, userID, wrongReq)
	require.NoError(t, err)
	assert.False(t, resp.IsCorrect)
	assert.Equal(t, "Incorrect. ❌ The correct answer is: "+atlName, resp.Feedback)
	assert.Equal(t, model.QuizStats{
		TotalAttempts:  4,
		CorrectAnswers: 3,
		AccuracyRate:   75.0,
		CurrentStreak:  0,
		BestStreak:     3,
	}, resp.Stats)

	// Only one row exists for the pair.
	var count int64
	require.NoError(t, db.Model(&model.UserProgress{}).
		Where("user_id = ? AND airport_code = ?", userID, "ATL").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func Test_quizService_SubmitAnswer_FirstAnswerWrong(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBQuiz(t)
	seedQuizAirports(t, db, quizTestAirports)
	userID := seedQuizUser(t, db)
	svc := newTestQuizService(db)

	resp, err := svc.SubmitAnswer(ctx, userID, &model.SubmitAnswerRequest{
		Code:         "LHR",
		QuestionType: model.AirportToCode,
		Answer:       "LAX",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsCorrect)
	assert.Equal(t, "LHR", resp.CorrectAnswer)
	assert.Equal(t, model.QuizStats{
		TotalAttempts:  1,
		CorrectAnswers: 0,
		AccuracyRate:   0.0,
		CurrentStreak:  0,
		BestStreak:     0,
	}, resp.Stats)
}

func Test_quizService_SubmitAnswer_NormalizesAnswer(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBQuiz(t)
	seedQuizAirports(t, db, quizTestAirports)
	userID := seedQuizUser(t, db)
	svc := newTestQuizService(db)

	resp, err := svc.SubmitAnswer(ctx, userID, &model.SubmitAnswerRequest{
		Code:         "ATL",
		QuestionType: model.AirportToCode,
		Answer:       "  atl  ",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
}

func Test_quizService_SubmitAnswer_Errors(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBQuiz(t)
	seedQuizAirports(t, db, quizTestAirports)
	userID := seedQuizUser(t, db)
	svc := newTestQuizService(db)

	tests := []struct {
		name     string
		req      *model.SubmitAnswerRequest
		wantCode string
	}{
		{
			name:     "unknown airport code",
			req:      &model.SubmitAnswerRequest{Code: "XXX", QuestionType: model.CodeToAirport, Answer: "whatever"},
			wantCode: "UNKNOWN_AIRPORT",
		},
		{
			name:     "unknown question type",
			req:      &model.SubmitAnswerRequest{Code: "ATL", QuestionType: "reverse_code", Answer: "ATL"},
			wantCode: "UNKNOWN_QUESTION_TYPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.SubmitAnswer(ctx, userID, tt.req)
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidInput)

			var appErr *model.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}

	// A rejected answer must not touch progress.
	var count int64
	require.NoError(t, db.Model(&model.UserProgress{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func Test_quizService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("no progress yields a zero summary", func(t *testing.T) {
		db := setupTestDBQuiz(t)
		userID := seedQuizUser(t, db)
		svc := newTestQuizService(db)

		summary, err := svc.GetStats(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, &model.QuizSummary{}, summary)
	})

	t.Run("aggregates across airports", func(t *testing.T) {
		db := setupTestDBQuiz(t)
		seedQuizAirports(t, db, quizTestAirports)
		userID := seedQuizUser(t, db)
		svc := newTestQuizService(db)

		now := time.Now()
		rows := []model.UserProgress{
			// 9/10 correct, strong.
			{ProgressID: uuid.New(), UserID: userID, AirportCode: "ATL", CorrectAnswers: 9, TotalAttempts: 10, CurrentStreak: 4, BestStreak: 6, LastStudied: now},
			// 1/5 correct, below the weak threshold.
			{ProgressID: uuid.New(), UserID: userID, AirportCode: "LAX", CorrectAnswers: 1, TotalAttempts: 5, CurrentStreak: 0, BestStreak: 1, LastStudied: now},
			// 3/5 correct, exactly at the boundary: 0.6 is not weak.
			{ProgressID: uuid.New(), UserID: userID, AirportCode: "ORD", CorrectAnswers: 3, TotalAttempts: 5, CurrentStreak: 2, BestStreak: 3, LastStudied: now},
		}
		require.NoError(t, db.Create(&rows).Error)

		summary, err := svc.GetStats(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, &model.QuizSummary{
			TotalQuizzes:    20,
			TotalCorrect:    13,
			AccuracyRate:    65.0,
			AirportsStudied: 3,
			WeakAirports:    1,
			CurrentStreak:   6,
			BestStreak:      6,
		}, summary)
	})
}

func Test_quizService_StatsSurviveAirportDelete(t *testing.T) {
	// Deleting a catalog entry must not cascade into progress history.
	ctx := context.Background()
	db := setupTestDBQuiz(t)
	seedQuizAirports(t, db, quizTestAirports)
	userID := seedQuizUser(t, db)
	svc := newTestQuizService(db)

	_, err := svc.SubmitAnswer(ctx, userID, &model.SubmitAnswerRequest{
		Code:         "HND",
		QuestionType: model.AirportToCode,
		Answer:       "HND",
	})
	require.NoError(t, err)

	require.NoError(t, db.Where("code = ?", "HND").Delete(&model.Airport{}).Error)

	summary, err := svc.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AirportsStudied)
	assert.Equal(t, 1, summary.TotalQuizzes)
}
