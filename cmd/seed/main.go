// Command main runs the database seeder for Quill.
package main

import (
	"flag"
	"log"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of reader accounts to create")
	numBlogs := flag.Int("blogs", 40, "Number of blogs to create")
	adminPassword := flag.String("admin-password", seed.DefaultPassword, "Password for the admin account")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	adminOnly := flag.Bool("admin-only", false, "Only ensure the admin account exists")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	admin, err := s.EnsureAdmin(*adminPassword)
	if err != nil {
		log.Fatalf("Admin bootstrap failed: %v", err)
	}

	if *adminOnly {
		log.Println("Admin account ready.")
		return
	}

	if err := s.SeedDemo(admin, *numUsers, *numBlogs); err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}

	log.Println("All done! Database populated with demo data.")
	log.Printf("All generated users have the password: %s", seed.DefaultPassword)
}
