package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ai-journaling-be/internal/bootstrap"
	"ai-journaling-be/internal/config"
	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/insight"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Run the emotion pipeline on a text and print the result",
	Long: `Loads the configured model (MODEL_BACKEND, MODEL_DIR) and analyzes the
given text exactly like POST /api/journal/analyze, without saving anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	zl := zap.NewNop()

	metrics := emotion.NewMetrics(zl)
	classifier, err := bootstrap.NewClassifier(cfg.Model, metrics)
	if err != nil {
		return err
	}
	defer classifier.Close()

	analyzer := bootstrap.NewAnalyzer(cfg, classifier, insight.DefaultCatalog(), metrics, zl)
	analysis, err := analyzer.Analyze(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	printAnalysis(cmd.OutOrStdout(), analysis)
	return nil
}

func printAnalysis(w io.Writer, a *insight.Analysis) {
	heading := color.New(color.FgCyan, color.Bold)
	positive := color.New(color.FgGreen)
	negative := color.New(color.FgRed)
	muted := color.New(color.FgHiBlack)

	heading.Fprintln(w, "Detected emotions")
	if len(a.Emotions) == 0 {
		muted.Fprintln(w, "  (none above the confidence threshold)")
	}
	for _, s := range a.Emotions {
		fmt.Fprintf(w, "  %-10s %5.1f%%\n", s.Label, s.Probability*100)
	}

	heading.Fprintln(w, "Top confidences")
	for _, s := range a.TopConfidences {
		fmt.Fprintf(w, "  %-10s %5.1f%%\n", s.Label, s.Probability*100)
	}

	if a.Explained {
		heading.Fprintf(w, "Words driving %q\n", a.ExplainedLabel)
		for _, word := range a.Words {
			if word.IsPositive {
				positive.Fprintf(w, "  + %-15s %.4f\n", word.Word, word.Score)
			} else {
				negative.Fprintf(w, "  - %-15s %.4f\n", word.Word, word.Score)
			}
		}
	}

	if a.Card.Message != "" {
		heading.Fprintf(w, "%s %s\n", a.Card.Icon, a.Card.Emotion)
		fmt.Fprintf(w, "  %s\n", a.Card.Message)
		for _, tip := range a.Card.Tips {
			fmt.Fprintf(w, "  * %s\n", tip)
		}
	}

	for _, n := range a.Notices {
		muted.Fprintf(w, "[%s] %s\n", n.Code, n.Message)
	}
}
