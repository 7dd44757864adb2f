package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/OWENLEEzy/claude-session-analyzer/internal/config"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/intent"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/searcher"
	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

// allLimit stands in for "no limit" when --all is given.
const allLimit = 9999

// NewSearchCmd creates the 'search' command.
func NewSearchCmd() *cobra.Command {
	var (
		limit  int
		since  string
		until  string
		all    bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search past sessions by topic, time window, or project",
		Long: `Search past sessions. An empty query lists sessions by recency.

Time expressions accept YYYY-MM-DD or the keywords today, yesterday,
week/7days, month/30days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				limit = allLimit
			}
			return runSearch(strings.Join(args, " "), since, until, limit, format)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Number of results (default 5)")
	cmd.Flags().StringVar(&since, "since", "", "Start of time window (inclusive)")
	cmd.Flags().StringVar(&until, "until", "", "End of time window (exclusive)")
	cmd.Flags().BoolVar(&all, "all", false, "List all matching sessions")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runSearch(query, since, until string, limit int, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	s, err := searcher.New(cfg, intent.NewExtractor(cfg))
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = cfg.Limit
	}

	results, err := s.Search(context.Background(), query, since, until, limit)
	if err != nil {
		return err
	}

	if format == "json" {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printResults(os.Stdout, results, query)
	return nil
}

func printResults(w *os.File, results []models.SearchResult, query string) {
	if len(results) == 0 {
		if query != "" {
			fmt.Fprintf(w, "No sessions found matching: %s\n", query)
		} else {
			fmt.Fprintln(w, "No sessions found")
		}
		return
	}

	if query != "" {
		fmt.Fprintf(w, "Found %d sessions matching %q:\n\n", len(results), query)
	} else {
		fmt.Fprintf(w, "Found %d sessions:\n\n", len(results))
	}

	for i, r := range results {
		fmt.Fprintf(w, "%d. [%s] %s  %s\n", i+1, shortID(r.SessionID), r.Timestamp.Format("2006-01-02 15:04"), r.ProjectPath)
		if len(r.Goals) > 0 {
			fmt.Fprintf(w, "   Goals: %s\n", strings.Join(r.Goals, ", "))
		}
		if len(r.Actions) > 0 {
			fmt.Fprintf(w, "   Actions: %s\n", strings.Join(r.Actions, ", "))
		}
		if r.Outcome != models.OutcomeUnknown {
			fmt.Fprintf(w, "   Outcome: %s\n", r.Outcome)
		}
		fmt.Fprintf(w, "   Score: %.3f\n", r.Similarity)
		fmt.Fprintf(w, "   Resume: claude --resume %s\n\n", r.SessionID)
	}
}

func shortID(id string) string {
	if len(id) > 16 {
		return id[:16] + "..."
	}
	return id
}
