// Command seed fills a development database with fake board content.
package main

import (
	"context"
	"flag"
	"log"

	"anonboard/internal/config"
	"anonboard/internal/database"
	"anonboard/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Posts, "posts", opts.Posts, "number of posts to create")
	flag.IntVar(&opts.MaxComments, "max-comments", opts.MaxComments, "maximum comments per post")
	flag.IntVar(&opts.MaxLikes, "max-likes", opts.MaxLikes, "maximum likes per post")
	flag.IntVar(&opts.MaxDays, "max-days", opts.MaxDays, "spread created_at over this many days")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	factory := seed.NewFactory(db, opts)
	if err := factory.Run(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d posts", opts.Posts)
}
