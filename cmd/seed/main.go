package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sanikant20/bookMandala-Server/config"
	"github.com/sanikant20/bookMandala-Server/internal/infrastructure/mongodb"
	"github.com/sanikant20/bookMandala-Server/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	email := "demo@bookmandala.com"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	coll := client.Database(cfg.MongoDB).Collection(cfg.UsersCollection)
	res, err := coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"fullname":    "Demo User",
				"password":    hash,
				"phoneNumber": "555-0100",
				"dob":         "1990-01-01",
				"gender":      "other",
				"avatar":      "https://storage.googleapis.com/" + cfg.GCSBucket + "/avatars/demo.png",
				"updatedAt":   now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: email=%s password=%s (matched=%d upserted=%v)\n", email, password, res.MatchedCount, res.UpsertedID)
}
