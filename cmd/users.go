package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arkadas/facerec/internal/config"
	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/facematch"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage enrolled users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled users",
	RunE:  runUsersList,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete [user-id]",
	Short: "Delete all encodings for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersListCmd.Flags().String("filter", "", "Filter by user id or display name (diacritics-insensitive)")
	usersListCmd.Flags().Bool("json", false, "Output as JSON")
}

func runUsersList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, err := encodings.NewStore(cfg.Face.EncodingsPath)
	if err != nil {
		return fmt.Errorf("initializing encoding store: %w", err)
	}

	users := store.ListAll()
	if filter := mustGetString(cmd, "filter"); filter != "" {
		needle := facematch.NormalizeDisplayName(filter)
		filtered := users[:0]
		for _, u := range users {
			if strings.Contains(facematch.NormalizeDisplayName(u.UserID), needle) ||
				strings.Contains(facematch.NormalizeDisplayName(u.DisplayName), needle) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	}

	if len(users) == 0 {
		fmt.Println("No enrolled users")
		return nil
	}
	fmt.Printf("%-24s %-20s %10s  %s\n", "USER", "NAME", "ENCODINGS", "UPDATED")
	for _, u := range users {
		name := u.DisplayName
		if name == "" {
			name = "-"
		}
		fmt.Printf("%-24s %-20s %10d  %s\n", u.UserID, name, u.EmbeddingCount, u.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, err := encodings.NewStore(cfg.Face.EncodingsPath)
	if err != nil {
		return fmt.Errorf("initializing encoding store: %w", err)
	}

	if err := store.Delete(args[0]); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	fmt.Printf("Encodings deleted for user %s\n", args[0])
	return nil
}
