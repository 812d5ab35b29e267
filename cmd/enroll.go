package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/arkadas/facerec/internal/config"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [images...]",
	Short: "Enroll face images for a user",
	Long: `Enroll one or more face images for a user. Each image is sent to the
embedding server; the first detected face in each image is appended to the
user's record. Images that fail (no face, unreadable file) are skipped and
counted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("user", "", "User id to enroll (required)")
	enrollCmd.Flags().String("name", "", "Display name stored with the user")
	_ = enrollCmd.MarkFlagRequired("user")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	userID := mustGetString(cmd, "user")
	displayName := mustGetString(cmd, "name")

	_, svc, err := newCore(cfg)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(args)), "enrolling")
	processed := 0
	for _, path := range args {
		func() {
			defer bar.Add(1)

			image, err := readImageFile(path)
			if err != nil {
				fmt.Printf("\n%s: %v\n", path, err)
				return
			}
			outcome, err := svc.Enroll(cmd.Context(), image, userID, displayName)
			if err != nil {
				fmt.Printf("\n%s: %v\n", path, err)
				return
			}
			if outcome.FaceCount > 1 {
				fmt.Printf("\n%s: %d faces detected, enrolled the first\n", path, outcome.FaceCount)
			}
			processed++
		}()
	}

	fmt.Printf("Enrolled %d/%d images for user %s\n", processed, len(args), userID)
	if processed == 0 {
		return fmt.Errorf("no images could be enrolled for user %s", userID)
	}
	return nil
}
