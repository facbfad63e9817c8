package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/repository/contract"
	"studyspace-be/internal/repository/implementation"
	"studyspace-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// demoNamespace keeps seeded ids stable across runs.
var demoNamespace = uuid.MustParse("6f1c9a52-3d0e-4b8f-9a41-2c7d5e8b0f13")

type demoProfile struct {
	Name        string
	Plan        entity.Plan
	Daily       int
	Total       int
	Mastered    int
	Streak      int
	ActiveHours int // hours since last activity
}

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Error: ", err)
	}

	log.Println("Seeding demo profiles...")

	profiles := []demoProfile{
		{Name: "Ana Free", Plan: entity.PlanFree},
		{Name: "Budi Starter", Plan: entity.PlanStarter, Daily: 2, Total: 14, Mastered: 3, Streak: 2, ActiveHours: 1},
		{Name: "Citra Student", Plan: entity.PlanStudent, Daily: 5, Total: 61, Mastered: 12, Streak: 6},
		{Name: "Dewi Pro", Plan: entity.PlanPro, Daily: 9, Total: 140, Mastered: 33, Streak: 11, ActiveHours: 2},
		{Name: "Eko Unlimited", Plan: entity.PlanUnlimited, Daily: 17, Total: 402, Mastered: 75, Streak: 30},
		{Name: "Fajar Pro", Plan: entity.PlanPro, Daily: 4, Total: 52, Mastered: 8, Streak: 1, ActiveHours: 30},
	}

	repo := implementation.NewProfileRepository(db)
	ctx := context.Background()
	now := time.Now()

	for _, p := range profiles {
		id := uuid.NewSHA1(demoNamespace, []byte(p.Name))
		if err := seedProfile(ctx, repo, id, p, now); err != nil {
			log.Printf("Error: Failed to seed %s: %v", p.Name, err)
			continue
		}
		log.Printf("Seeded %-14s plan=%-9s id=%s", p.Name, p.Plan, id)
	}

	log.Println("✅ Demo profiles seeded.")
}

func seedProfile(ctx context.Context, repo contract.ProfileRepository, id uuid.UUID, p demoProfile, now time.Time) error {
	_, err := repo.FindById(ctx, id)
	switch {
	case errors.Is(err, contract.ErrProfileNotFound):
		if err := repo.Create(ctx, &entity.UserProfile{Id: id, DisplayName: p.Name, Plan: p.Plan}); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	lastActive := now.Add(-time.Duration(p.ActiveHours) * time.Hour)
	return repo.Update(ctx, id, entity.ProfileUpdate{
		DisplayName:      &p.Name,
		Plan:             &p.Plan,
		TotalGenerations: &p.Total,
		DailyGenerations: &p.Daily,
		LastActiveDate:   &lastActive,
		MasteredConcepts: &p.Mastered,
		StreakDays:       &p.Streak,
	})
}
