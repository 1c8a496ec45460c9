// Command main runs the database seeder for LevelUp.
package main

import (
	"context"
	"flag"
	"log"

	"levelup/internal/config"
	"levelup/internal/database"
	"levelup/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	numRooms := flag.Int("rooms", defaults.NumRooms, "Number of chat rooms to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 picks one)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d users, %d posts, %d rooms, clean=%v\n", *numUsers, *numPosts, *numRooms, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.Seed(context.Background(), db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		NumRooms:    *numRooms,
		ShouldClean: *shouldClean,
		Seed:        *randSeed,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ Created %d users, %d posts, %d comments, %d likes, %d rooms, %d messages, %d reminders",
		summary.Users, summary.Posts, summary.Comments, summary.Likes, summary.Rooms, summary.Messages, summary.Reminders)
	log.Printf("📧 All test users have the password: %s", seed.DemoPassword)
}
