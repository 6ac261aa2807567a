// Command seed fills a database with demo users, projects, RSVPs and badges
// and prints a bearer token for the demo organizer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/db"
	"github.com/shram-daan/shramdaan/internal/auth"
	"github.com/shram-daan/shramdaan/internal/config"
	"github.com/shram-daan/shramdaan/internal/logger"
	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/services"
	"github.com/shram-daan/shramdaan/internal/storage"
	"github.com/shram-daan/shramdaan/internal/types"
)

type demoProject struct {
	input      services.CreateProjectInput
	organizer  string
	volunteers []string
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func main() {
	tokenFor := flag.String("token-for", "demo-organizer", "user id to print a bearer token for")
	flag.Parse()

	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if err := seed(context.Background(), cfg, log, *tokenFor); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func seed(ctx context.Context, cfg *config.Config, log zerolog.Logger, tokenFor string) error {
	conn, err := db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL)

	if err != nil {
		return err
	}

	if err := db.MigrateDatabase(conn); err != nil {
		return err
	}

	store := storage.New(conn)
	users := services.NewUserService(store, log)
	projects := services.NewProjectService(store, log)

	identities := []services.Identity{
		{ID: "demo-organizer", Email: "organizer@shramdaan.example", FirstName: "Priya", LastName: "Sharma"},
		{ID: "demo-volunteer-1", Email: "arjun@shramdaan.example", FirstName: "Arjun", LastName: "Mehta"},
		{ID: "demo-volunteer-2", Email: "kavya@shramdaan.example", FirstName: "Kavya", LastName: "Iyer"},
		{ID: "demo-volunteer-3", Email: "rahul@shramdaan.example", FirstName: "Rahul", LastName: "Verma"},
	}

	for _, id := range identities {
		if _, err := users.SignIn(ctx, id); err != nil {
			return fmt.Errorf("seed user %s: %w", id.ID, err)
		}
	}

	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)

	demo := []demoProject{
		{
			input: services.CreateProjectInput{
				Title:         "Beach Cleanup Drive",
				Description:   "Clear plastic and debris from the shoreline before the monsoon.",
				Category:      models.CategoryCleanup,
				Location:      "Juhu Beach, Mumbai",
				DateTime:      start,
				Duration:      intPtr(3),
				MaxVolunteers: intPtr(20),
				Provided:      strPtr("Gloves, bags, water"),
				ContactPerson: strPtr("Priya Sharma"),
			},
			organizer:  "demo-organizer",
			volunteers: []string{"demo-volunteer-1", "demo-volunteer-2"},
		},
		{
			input: services.CreateProjectInput{
				Title:         "Plant 500 Saplings",
				Description:   "Native species planting along the lake bund.",
				Category:      models.CategoryTreePlanting,
				Location:      "Powai Lake",
				DateTime:      start.Add(7 * 24 * time.Hour),
				Duration:      intPtr(4),
				MaxVolunteers: intPtr(2),
				Requirements:  strPtr("Closed shoes"),
			},
			organizer:  "demo-organizer",
			volunteers: []string{"demo-volunteer-1", "demo-volunteer-3"},
		},
		{
			input: services.CreateProjectInput{
				Title:       "Weekend Reading Circle",
				Description: "Read aloud with children at the community library.",
				Category:    models.CategoryEducation,
				Location:    "Dharavi Community Library",
				DateTime:    start.Add(3 * 24 * time.Hour),
			},
			organizer:  "demo-volunteer-2",
			volunteers: []string{"demo-volunteer-3"},
		},
	}

	for _, p := range demo {
		project, err := projects.Create(ctx, p.input, p.organizer)

		if err != nil {
			return fmt.Errorf("seed project %q: %w", p.input.Title, err)
		}

		for _, volunteer := range p.volunteers {
			if _, err := projects.Join(ctx, project.ID, volunteer); err != nil && !errors.Is(err, types.ErrConflict) {
				return fmt.Errorf("seed rsvp %s on %q: %w", volunteer, p.input.Title, err)
			}
		}
	}

	badges := []struct{ user, badgeType, name string }{
		{"demo-organizer", "organizer", "Community Builder"},
		{"demo-volunteer-1", "first_rsvp", "First Step"},
		{"demo-volunteer-1", "green_thumb", "Green Thumb"},
	}

	for _, b := range badges {
		if _, err := users.AwardBadge(ctx, b.user, b.badgeType, b.name); err != nil {
			return fmt.Errorf("seed badge %s: %w", b.badgeType, err)
		}
	}

	tokens, err := auth.NewManager(cfg.JWTSecret)

	if err != nil {
		return err
	}

	user, err := store.GetUser(ctx, tokenFor)

	if err != nil {
		return fmt.Errorf("token user %s: %w", tokenFor, err)
	}

	claims := auth.Claims{FirstName: user.FirstName, LastName: user.LastName}
	if user.Email != nil {
		claims.Email = *user.Email
	}

	token, err := tokens.GenerateJWT(user.ID, claims)

	if err != nil {
		return err
	}

	log.Info().Int("users", len(identities)).Int("projects", len(demo)).Int("badges", len(badges)).Msg("demo data seeded")
	fmt.Printf("Bearer token for %s:\n%s\n", user.ID, token)

	return nil
}
