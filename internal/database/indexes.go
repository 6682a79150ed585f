package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	nameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
		Options: options.Index().
			SetName("name_unique").
			SetUnique(true),
	}

	// Email is optional, so uniqueness only applies to documents that
	// carry one.
	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"email": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureUserIndexes: creating name_unique and email_unique indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{nameIndex, emailIndex})
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: indexes created")
	return nil
}

func EnsureAddressIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("addresses").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	log.Println("EnsureAddressIndexes: creating userId_index index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureAddressIndexes: userId index error:", err)
		return err
	}
	log.Println("EnsureAddressIndexes: userId_index index created")
	return nil
}

func EnsureRequestIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("requests").Indexes()

	// Serves both the open-request lookup on create and the
	// latest-request-first status query.
	userIDIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("userId_createdAt_index"),
	}

	log.Println("EnsureRequestIndexes: creating userId_createdAt_index index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureRequestIndexes: userId index error:", err)
		return err
	}
	log.Println("EnsureRequestIndexes: userId_createdAt_index index created")
	return nil
}
