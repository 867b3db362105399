package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gradely/gradebook-backend/internal/config"
	"github.com/gradely/gradebook-backend/internal/database"
	"github.com/gradely/gradebook-backend/internal/logger"
	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
)

// Seeds a demo dataset: an admin, a teacher with two courses, three
// students enrolled in the second course, and graded results for each
// of its tests. Existing rows are wiped first, so only run against a
// development database.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	resultRepo := repository.NewTestResultRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)

	fmt.Println("=== Seeding Demo Data ===")

	// Wipe in FK order.
	for _, table := range []string{"test_results", "course_enrollments", "tokens", "tests", "courses", "users"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("Failed to wipe table")
		}
	}

	admin := &model.User{Email: "admin@gradely.io", FirstName: "Grace", LastName: "Admin"}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}
	if _, err := pool.Exec(ctx, "UPDATE users SET is_admin = TRUE WHERE id = $1", admin.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to promote admin")
	}
	fmt.Printf("Created admin %s (ID: %d)\n", admin.Email, admin.ID)

	teacher := &model.User{Email: "rita@gradely.io", FirstName: "Rita", LastName: "Ray"}
	if err := userRepo.Create(ctx, teacher); err != nil {
		log.Fatal().Err(err).Msg("Failed to create teacher")
	}

	students := make([]*model.User, 0, 3)
	for _, s := range []struct{ email, first, last string }{
		{"ada@gradely.io", "Ada", "Lovell"},
		{"alvin@gradely.io", "Alvin", "Reyes"},
		{"micky@gradely.io", "Micky", "Tan"},
	} {
		u := &model.User{Email: s.email, FirstName: s.first, LastName: s.last}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatal().Err(err).Str("email", s.email).Msg("Failed to create student")
		}
		students = append(students, u)
	}
	fmt.Printf("Created teacher and %d students\n", len(students))

	// Course creation also enrolls the creator as TEACHER.
	course1 := &model.Course{Name: "Applied Databases", CourseDetails: "Query design and data modeling"}
	if err := courseRepo.Create(ctx, course1, teacher.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	course2 := &model.Course{Name: "Distributed Systems", CourseDetails: "Consensus, replication and failure"}
	if err := courseRepo.Create(ctx, course2, teacher.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}

	for _, s := range students {
		enrollment := &model.CourseEnrollment{UserID: s.ID, CourseID: course2.ID, Role: model.CourseRoleStudent}
		if err := enrollmentRepo.Create(ctx, enrollment); err != nil {
			log.Fatal().Err(err).Int("user_id", s.ID).Msg("Failed to enroll student")
		}
	}

	now := time.Now()
	tests := make([]*model.Test, 0, 3)
	for _, t := range []struct {
		name string
		date time.Time
	}{
		{"First test", now.AddDate(0, 0, 7)},
		{"Second test", now.AddDate(0, 0, 14)},
		{"Final", now.AddDate(0, 0, 28)},
	} {
		test := &model.Test{Name: t.name, Date: t.date, CourseID: course2.ID}
		if err := testRepo.Create(ctx, test); err != nil {
			log.Fatal().Err(err).Str("name", t.name).Msg("Failed to create test")
		}
		tests = append(tests, test)
	}

	scores := []int{650, 900, 950, 850}
	resultCount := 0
	for _, test := range tests {
		for _, s := range students {
			tr := &model.TestResult{
				Result:    scores[rand.Intn(len(scores))],
				StudentID: s.ID,
				GraderID:  teacher.ID,
				TestID:    test.ID,
			}
			if err := resultRepo.Create(ctx, tr); err != nil {
				log.Fatal().Err(err).Int("test_id", test.ID).Msg("Failed to create test result")
			}
			resultCount++
		}
	}

	fmt.Printf("\nSeed completed! %d courses, %d tests, %d results.\n", 2, len(tests), resultCount)
}
