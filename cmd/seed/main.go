package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"notedo/internal/config"
	"notedo/internal/db"
	"notedo/internal/model"
	"notedo/internal/repository"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@notedo.local"
	demoPassword = "demo1234"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Profile{}, &model.Tag{}, &model.Note{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	tags := repository.NewTagRepository(gormDB)
	notes := repository.NewNoteRepository(gormDB)

	user, err := seedUser(ctx, users)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	seededTags, err := seedTags(ctx, tags, user.ID)
	if err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}

	created, err := seedNotes(ctx, notes, user.ID, seededTags)
	if err != nil {
		log.Fatalf("Failed to seed notes: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - User: %s / %s", demoEmail, demoPassword)
	log.Printf("  - Tags: %d", len(seededTags))
	log.Printf("  - Notes created: %d", created)
}

// seedUser creates the demo user with a confirmed profile, or returns the
// existing one.
func seedUser(ctx context.Context, users repository.UserRepository) (*model.User, error) {
	if existing, err := users.FindByEmail(ctx, demoEmail); err == nil {
		log.Println("Demo user already exists")
		return existing, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     demoUsername,
		Email:        demoEmail,
		PasswordHash: string(hash),
		Profile: model.Profile{
			Avatar:      model.DefaultAvatar,
			Bio:         "Demo account",
			IsConfirmed: true,
		},
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Println("Demo user created")
	return user, nil
}

func seedTags(ctx context.Context, tags repository.TagRepository, userID uint) ([]model.Tag, error) {
	existing, err := tags.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Println("Demo tags already exist")
		return existing, nil
	}

	names := []string{"work", "home", "ideas"}
	seeded := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tag := model.Tag{Name: name, UserID: userID}
		if err := tags.Create(ctx, &tag); err != nil {
			return nil, err
		}
		seeded = append(seeded, tag)
	}
	return seeded, nil
}

func seedNotes(ctx context.Context, notes repository.NoteRepository, userID uint, tags []model.Tag) (int, error) {
	if existing, _, err := notes.ListByUser(ctx, userID, 0, 1); err != nil {
		return 0, err
	} else if len(existing) > 0 {
		log.Println("Demo notes already exist")
		return 0, nil
	}

	dueSoon := time.Now().Add(6 * time.Hour)
	nextWeek := time.Now().Add(7 * 24 * time.Hour)

	demo := []model.Note{
		{
			Name:        "Submit report",
			Description: "Quarterly numbers for the team meeting",
			IsTodo:      true,
			Deadline:    &dueSoon,
			UserID:      userID,
			Tags:        tags[:1],
		},
		{
			Name:        "Plan vacation",
			Description: "Pick dates and book flights",
			IsTodo:      true,
			Deadline:    &nextWeek,
			UserID:      userID,
			Tags:        tags[1:2],
		},
		{
			Name:        "Blog post ideas",
			Description: "Collect topics for next month",
			UserID:      userID,
			Tags:        tags[2:],
		},
	}

	for i := range demo {
		if err := notes.Create(ctx, &demo[i]); err != nil {
			return i, err
		}
	}
	return len(demo), nil
}
