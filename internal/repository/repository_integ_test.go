// Integration tests against a real PostgreSQL instance, so constraint
// normalization and row locking are exercised on the dialect production runs
// on. Requires a local Docker daemon.
package repository_test

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"flightdeck/internal/model"
	"flightdeck/internal/quiz"
	"flightdeck/internal/repository"
	"flightdeck/internal/service"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct dockertest pool: %s", err)
	}
	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=flightdeck",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=flightdeck_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start PostgreSQL resource: %s", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=flightdeck password=secret dbname=flightdeck_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		var errRetry error
		testDB, errRetry = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if errRetry != nil {
			return errRetry
		}
		sqlDB, errRetry := testDB.DB()
		if errRetry != nil {
			return errRetry
		}
		return sqlDB.Ping()
	}); err != nil {
		if pErr := pool.Purge(resource); pErr != nil {
			log.Printf("Warning: could not purge resource: %s", pErr)
		}
		log.Fatalf("Could not connect to PostgreSQL container: %s", err)
	}

	if err := repository.Migrate(testDB); err != nil {
		log.Fatalf("Could not migrate test database: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge PostgreSQL resource: %s", err)
	}
	os.Exit(code)
}

func createIntegUser(t *testing.T) uuid.UUID {
	t.Helper()
	user := &model.User{
		UserID:       uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		Username:     fmt.Sprintf("user_%s", uuid.NewString()[:8]),
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now(),
		LastLoginAt:  time.Now(),
	}
	require.NoError(t, testDB.Create(user).Error)
	return user.UserID
}

func TestGormAirportRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormAirportRepository()

	t.Run("seed catalog is present", func(t *testing.T) {
		airports, err := repo.FindAll(ctx, testDB)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(airports), 10)

		// FindAll orders by code.
		for i := 1; i < len(airports); i++ {
			assert.LessOrEqual(t, airports[i-1].Code, airports[i].Code)
		}
	})

	t.Run("duplicate code is normalized to ErrConflict", func(t *testing.T) {
		airport := &model.Airport{Code: "ZRH", Name: "Zurich Airport", City: "Zurich", Country: "Switzerland", Region: "Europe"}
		require.NoError(t, repo.Create(ctx, testDB, airport))

		err := repo.Create(ctx, testDB, &model.Airport{Code: "ZRH", Name: "Duplicate", City: "x", Country: "y", Region: "z"})
		assert.ErrorIs(t, err, model.ErrConflict)

		require.NoError(t, repo.Delete(ctx, testDB, "ZRH"))
	})

	t.Run("find and delete unknown code", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, testDB, "QQQ")
		assert.ErrorIs(t, err, model.ErrNotFound)

		err = repo.Delete(ctx, testDB, "QQQ")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestGormUserRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormUserRepository()

	t.Run("duplicate email is normalized to ErrConflict", func(t *testing.T) {
		email := fmt.Sprintf("%s@example.com", uuid.NewString())
		first := &model.User{UserID: uuid.New(), Email: email, Username: fmt.Sprintf("u_%s", uuid.NewString()[:8]), PasswordHash: "h"}
		require.NoError(t, repo.Create(ctx, testDB, first))

		second := &model.User{UserID: uuid.New(), Email: email, Username: fmt.Sprintf("u_%s", uuid.NewString()[:8]), PasswordHash: "h"}
		err := repo.Create(ctx, testDB, second)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("update last login on unknown user", func(t *testing.T) {
		err := repo.UpdateLastLogin(ctx, testDB, uuid.New(), time.Now())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestGormProgressRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormProgressRepository()
	userID := createIntegUser(t)

	first := &model.UserProgress{
		ProgressID: uuid.New(), UserID: userID, AirportCode: "ATL",
		CorrectAnswers: 1, TotalAttempts: 1, CurrentStreak: 1, BestStreak: 1,
		LastStudied: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, testDB, first))

	t.Run("composite unique index rejects a second row", func(t *testing.T) {
		dup := &model.UserProgress{
			ProgressID: uuid.New(), UserID: userID, AirportCode: "ATL",
			TotalAttempts: 1, LastStudied: time.Now(),
		}
		err := repo.Create(ctx, testDB, dup)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("locked read inside a transaction", func(t *testing.T) {
		err := testDB.Transaction(func(tx *gorm.DB) error {
			got, err := repo.FindByUserAndAirportForUpdate(ctx, tx, userID, "ATL")
			require.NoError(t, err)
			assert.Equal(t, first.ProgressID, got.ProgressID)
			return nil
		})
		require.NoError(t, err)
	})
}

// TestQuizService_ConcurrentSubmissions_Postgres drives concurrent answers for
// one (user, airport) pair through the full service path. Every submission
// must be counted: the row lock serializes the read-modify-write and the
// savepoint recovers the losers of the first-answer insert race.
func TestQuizService_ConcurrentSubmissions_Postgres(t *testing.T) {
	ctx := context.Background()
	userID := createIntegUser(t)

	svc := service.NewQuizService(
		testDB,
		repository.NewGormAirportRepository(),
		repository.NewGormProgressRepository(),
		quiz.NewGenerator(rand.New(rand.NewSource(1)), false),
	)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubmitAnswer(ctx, userID, &model.SubmitAnswerRequest{
				Code:         "JFK",
				QuestionType: model.AirportToCode,
				Answer:       "JFK",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "submission %d failed", i)
	}

	var progress model.UserProgress
	require.NoError(t, testDB.Where("user_id = ? AND airport_code = ?", userID, "JFK").First(&progress).Error)
	assert.Equal(t, workers, progress.TotalAttempts, "no submission may be dropped")
	assert.Equal(t, workers, progress.CorrectAnswers)
	assert.Equal(t, workers, progress.BestStreak)
	assert.LessOrEqual(t, progress.CurrentStreak, progress.BestStreak)

	var count int64
	require.NoError(t, testDB.Model(&model.UserProgress{}).
		Where("user_id = ? AND airport_code = ?", userID, "JFK").
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "exactly one row per (user, airport)")
}
