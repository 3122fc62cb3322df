// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// WeakAccuracyThreshold marks a topic as weak when accuracy falls below it.
const WeakAccuracyThreshold = 0.6

// UserProgress tracks mastery of one airport for one user.
// Invariants: CurrentStreak <= BestStreak after every update, BestStreak is
// monotonically non-decreasing, CurrentStreak resets to 0 on a miss.
type UserProgress struct {
	ProgressID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_user_airport,unique"`
	AirportCode    string    `gorm:"type:char(3);not null;index:idx_user_airport,unique"`
	CorrectAnswers int       `gorm:"not null;default:0"`
	TotalAttempts  int       `gorm:"not null;default:0"`
	CurrentStreak  int       `gorm:"not null;default:0"`
	BestStreak     int       `gorm:"not null;default:0"`
	LastStudied    time.Time `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// AccuracyRate is derived, 0.0 before the first attempt.
func (p *UserProgress) AccuracyRate() float64 {
	if p.TotalAttempts == 0 {
		return 0.0
	}
	return float64(p.CorrectAnswers) / float64(p.TotalAttempts)
}

func (p *UserProgress) IsWeak() bool {
	return p.AccuracyRate() < WeakAccuracyThreshold
}
