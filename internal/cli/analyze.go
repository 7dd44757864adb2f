package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/OWENLEEzy/claude-session-analyzer/internal/config"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/intent"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/searcher"
	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

// NewAnalyzeCmd creates the 'analyze' command.
func NewAnalyzeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze <session.jsonl>...",
		Short: "Derive a goal/action/outcome summary for session files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")

	return cmd
}

type fileAnalysis struct {
	File string `json:"file"`
	models.AnalysisResult
}

func runAnalyze(paths []string, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	s, err := searcher.New(cfg, intent.NewExtractor(cfg))
	if err != nil {
		return err
	}

	var analyses []fileAnalysis
	for _, path := range paths {
		result, err := s.AnalyzeFile(context.Background(), path)
		if err != nil {
			return err
		}
		analyses = append(analyses, fileAnalysis{File: filepath.Base(path), AnalysisResult: result})
	}

	if format == "json" {
		out, err := json.MarshalIndent(analyses, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, a := range analyses {
		fmt.Printf("%s\n", a.File)
		if len(a.Goals) > 0 {
			fmt.Printf("  Goals: %s\n", strings.Join(a.Goals, ", "))
		}
		if len(a.Actions) > 0 {
			fmt.Printf("  Actions: %s\n", strings.Join(a.Actions, ", "))
		}
		fmt.Printf("  Outcome: %s\n", a.Outcome)
		fmt.Printf("  Confidence: %.2f\n", a.Confidence)
		fmt.Printf("  Summary: %s\n\n", a.Summary)
	}
	return nil
}
