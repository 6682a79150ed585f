// Package scheduler runs the monthly billing reset over all address
// ledgers.
package scheduler

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"wasteworks/internal/billing"
	"wasteworks/internal/models"
)

// Sweeper resets every address's monthly payment to the default fee at
// the start of each month. It owns no state beyond the database handle
// and is started once by main for the lifetime of the process.
type Sweeper struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Sweeper {
	return &Sweeper{db: db}
}

// NextSweep returns midnight on the first day of the month after now.
func NextSweep(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
}

// Run fires a sweep at the start of every month until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	for {
		next := NextSweep(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.Sweep(ctx); err != nil {
				log.Println("[SWEEP] [ERROR] sweep aborted:", err)
			}
		}
	}
}

// Sweep puts every address ledger back to the default monthly fee,
// persisting each document individually. A failing document is logged
// and skipped so the rest of the batch still resets.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cursor, err := s.db.Collection("addresses").Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	reset := 0
	for cursor.Next(ctx) {
		var addr models.Address
		if err := cursor.Decode(&addr); err != nil {
			log.Println("[SWEEP] [ERROR] decode address failed:", err)
			continue
		}

		_, err := s.db.Collection("addresses").UpdateByID(ctx, addr.ID, bson.M{
			"$set": bson.M{"monthlyPayment": billing.DefaultMonthlyFee},
		})
		if err != nil {
			log.Printf("[SWEEP] [ERROR] reset failed for %s: %v", addr.ID.Hex(), err)
			continue
		}
		reset++
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	log.Printf("[SWEEP] [INFO] monthly payments reset for %d addresses", reset)
	return nil
}
