package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkadas/facerec/internal/config"
)

var matchCmd = &cobra.Command{
	Use:   "match [image]",
	Short: "Match a face image against enrolled users",
	Long: `Match a face image against every enrolled user. Prints candidates
above the confidence floor, best match first.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Float64("min-confidence", 0, "Confidence floor (defaults to MIN_CONFIDENCE_SCORE)")
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if v := mustGetFloat64(cmd, "min-confidence"); v > 0 {
		cfg.Face.MinConfidence = v
	}

	store, svc, err := newCore(cfg)
	if err != nil {
		return err
	}
	if store.Count() == 0 {
		fmt.Println("No users enrolled yet")
	}

	image, err := readImageFile(args[0])
	if err != nil {
		return err
	}

	result, err := svc.Identify(cmd.Context(), image)
	if err != nil {
		return err
	}

	if result.FaceCount > 1 {
		fmt.Printf("Image contains %d faces; matched the first\n", result.FaceCount)
	}
	if result.Model != "" {
		profile := cfg.GetModelProfile(result.Model)
		fmt.Printf("Embedding model: %s (dim %d, distances up to %.1f)\n", result.Model, profile.Dim, profile.MaxDistance)
	}
	if len(result.Matches) == 0 {
		fmt.Println("No match above the confidence floor")
		return nil
	}

	fmt.Printf("Best match: %s (confidence %.4f)\n", result.BestMatch.UserID, result.BestMatch.Confidence)
	for _, m := range result.Matches {
		name := m.DisplayName
		if name == "" {
			name = "-"
		}
		fmt.Printf("  %-24s %-20s %.4f\n", m.UserID, name, m.Confidence)
	}
	return nil
}
