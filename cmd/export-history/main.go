package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"opsassistant/internal/backend"
	"opsassistant/internal/config"
	"opsassistant/internal/history"
	"opsassistant/internal/models"
)

// options are the command line flags
type options struct {
	out        string
	search     string
	category   string
	sentiment  string
	minUrgency int
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("export-history", flag.ContinueOnError)
	fs.StringVar(&opts.out, "out", "", "Output file (default stdout)")
	fs.StringVar(&opts.search, "search", "", "Case-insensitive match on sender, subject or summary")
	fs.StringVar(&opts.category, "category", history.FilterAll, "Category filter")
	fs.StringVar(&opts.sentiment, "sentiment", history.FilterAll, "Sentiment filter")
	fs.IntVar(&opts.minUrgency, "min-urgency", 0, "Minimum urgency (0-10), 0 disables")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage:")
		fmt.Fprintln(fs.Output(), "  Export everything:   export-history -out history.csv")
		fmt.Fprintln(fs.Output(), "  Urgent leads only:   export-history -category Lead -min-urgency 7")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.minUrgency < 0 || opts.minUrgency > 10 {
		return options{}, fmt.Errorf("-min-urgency must be between 0 and 10")
	}
	return opts, nil
}

func (o options) criteria() history.Criteria {
	return history.Criteria{
		Search:     o.search,
		Category:   o.category,
		Sentiment:  o.sentiment,
		MinUrgency: o.minUrgency,
	}
}

// historySource loads analyzed emails
type historySource interface {
	History(ctx context.Context) ([]models.AnalyzedEmail, error)
}

// export writes the filtered history to w and returns the exported row count
func export(ctx context.Context, src historySource, criteria history.Criteria, w io.Writer) (int, error) {
	records, err := src.History(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load history: %w", err)
	}

	filtered := history.Apply(records, criteria)
	if err := history.WriteCSV(w, filtered); err != nil {
		return 0, fmt.Errorf("failed to write CSV: %w", err)
	}
	return len(filtered), nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	logger := cfg.SetupLogger()

	client := backend.New(cfg.BackendURL, cfg.BackendTimeoutDuration(), logger)

	var out io.Writer = os.Stdout
	if opts.out != "" {
		file, err := os.Create(opts.out)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer file.Close()
		out = file
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := export(ctx, client, opts.criteria(), out)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	if opts.out != "" {
		fmt.Fprintf(os.Stderr, "Exported %d emails to %s\n", count, opts.out)
	}
}
