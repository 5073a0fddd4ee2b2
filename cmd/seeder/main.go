package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"time"

	memora "github.com/sarthakraghuvanshi/Memora-Second-Mind"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ingestion"
)

// Sample notes, several with explicit dates so temporal queries have
// something to hit.
var notes = []string{
	"Dentist appointment on 12/03/2025 at 9am, remember the referral letter.",
	"Standup notes: the migration finished, cache hit rate is back above 90%.",
	"Gift ideas for Priya: ceramics class voucher, the blue notebook she liked.",
	"Meeting with the landlord on 5 February 2025 about the lease renewal.",
	"Recipe sketch: roast cauliflower with tahini, pomegranate, and mint.",
	"Flight to Lisbon booked for March 18, confirmation code XK4R92.",
	"The library book on distributed systems is due back 2025-04-01.",
	"Workout log: 5k in 26:40, left knee felt fine this time.",
	"Call notes from 14/01/2025: insurer needs the water damage photos.",
	"Ideas for the talk: start with the failure story, end with the checklist.",
	"Bought the espresso machine secondhand, descale every two months.",
	"Tax documents folder updated, accountant meeting on 10 April 2025.",
	"Weekend plan: hike the coastal trail if the rain holds off.",
	"Password hints moved to the safe, top drawer, behind the passports.",
	"Notes from the architecture review: split the billing worker first.",
}

var (
	seedFileName = flag.String("src", "", "file of seed notes, one per line")
	dbPath       = flag.String("db", "./memora_db", "database directory")
	userID       = flag.String("user", "seed-user", "user to own the seeded documents")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// ingestAll pushes each note through the pipeline and collects document IDs.
func ingestAll(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq[string]) ([]core.ID, error) {
	var ids []core.ID
	for line := range source {
		if line == "" {
			continue
		}
		doc, err := pipeline.Ingest(ctx, ingestion.IngestRequest{
			UserID:  *userID,
			Type:    core.DocumentTypeText,
			Content: line,
		})
		if err != nil {
			return ids, err
		}
		ids = append(ids, doc.Id)
	}
	return ids, nil
}

func main() {
	secret := os.Getenv("MEMORA_ENCRYPTION_KEY")
	if secret == "" {
		secret = "seeder-dev-secret"
	}

	db, err := memora.NewDatabase(*dbPath,
		memora.WithCryptoConfig(&crypto.Config{MasterSecret: secret}),
		memora.WithAIToken(os.Getenv("MEMORA_EMBEDDING_TOKEN")))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ingester, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	ctx := context.Background()

	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(notes)
	}

	ids, err := ingestAll(ctx, ingester, source)
	if err != nil {
		panic(err)
	}

	// Give the pool time to finish before the process exits.
	deadline := time.Now().Add(time.Minute)
	for _, id := range ids {
		for {
			doc, err := db.DocumentRepository().GetDocument(ctx, id)
			if err != nil {
				panic(err)
			}
			if doc.Status != core.DocumentStatusPending || time.Now().After(deadline) {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
	slog.Info("seeding complete", "documents", len(ids), "user", *userID)
}
