// Command clock-demo runs two hybrid logical clocks side by side,
// exchanges timestamps between them, and persists each node's resume
// point in SQLite so a rerun picks up where the last one left off.
//
// Persistence of clock state is deliberately the application's job, not
// the library's; this demo shows what that looks like.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/c0deZ3R0/go-hlc-kit/hlc"
	"github.com/c0deZ3R0/go-hlc-kit/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS clock_state (
	node_id TEXT PRIMARY KEY,
	last_timestamp TEXT NOT NULL
);`

func main() {
	dbPath := flag.String("db", "clock-demo.db", "path to the SQLite database holding resume points")
	rounds := flag.Int("rounds", 5, "number of send/receive exchanges to run")
	flag.Parse()

	logging.Init(logging.GetConfigFromEnv())

	if err := run(*dbPath, *rounds); err != nil {
		logging.Error("demo failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(dbPath string, rounds int) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	alice, err := newNode(db, "alice")
	if err != nil {
		return err
	}
	bob, err := newNode(db, "bob")
	if err != nil {
		return err
	}

	logging.Info("clocks ready",
		slog.String("alice", alice.Last().Encode()),
		slog.String("bob", bob.Last().Encode()),
	)

	for i := 0; i < rounds; i++ {
		// alice timestamps a local event and sends it to bob
		sent, err := alice.Send()
		if err != nil {
			logging.Default().LogClockError(context.Background(), err, "alice send rejected")
			return err
		}

		merged, err := bob.ReceiveEncoded(sent.Encode())
		if err != nil {
			logging.Default().LogClockError(context.Background(), err, "bob receive rejected")
			return err
		}

		logging.Info("exchange complete",
			slog.Int("round", i+1),
			slog.Any("sent", sent),
			slog.Any("merged", merged),
		)

		// the merged timestamp on bob is always ordered after the sent one
		if hlc.Compare(merged, sent) <= 0 {
			return fmt.Errorf("causality violated: %s !> %s", merged.Encode(), sent.Encode())
		}
	}

	// persist both resume points for the next run
	for _, c := range []*hlc.Clock{alice, bob} {
		if err := saveResumePoint(db, c); err != nil {
			return err
		}
	}

	logging.Info("resume points saved", slog.String("db", dbPath))
	return nil
}

// newNode builds a clock for the named node, resuming from the stored
// timestamp when one exists.
func newNode(db *sql.DB, nodeID string) (*hlc.Clock, error) {
	opts := []hlc.Option{
		hlc.WithNodeID(nodeID),
		hlc.WithLogger(logging.Default()),
	}

	var encoded string
	err := db.QueryRow(
		"SELECT last_timestamp FROM clock_state WHERE node_id = ?", nodeID,
	).Scan(&encoded)
	switch {
	case err == sql.ErrNoRows:
		// first run, no resume point
	case err != nil:
		return nil, fmt.Errorf("load resume point for %s: %w", nodeID, err)
	default:
		opts = append(opts, hlc.WithInitialEncoded(encoded))
		logging.Info("resuming clock",
			slog.String("node_id", nodeID),
			slog.String("from", encoded),
		)
	}

	return hlc.New(opts...)
}

func saveResumePoint(db *sql.DB, c *hlc.Clock) error {
	_, err := db.Exec(`
		INSERT INTO clock_state (node_id, last_timestamp) VALUES (?, ?)
		ON CONFLICT(node_id) DO UPDATE SET last_timestamp = excluded.last_timestamp`,
		c.NodeID(), c.Last().Encode(),
	)
	if err != nil {
		return fmt.Errorf("save resume point for %s: %w", c.NodeID(), err)
	}
	return nil
}
