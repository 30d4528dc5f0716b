package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trivia-tracker/internal/opentdb"
	"trivia-tracker/internal/quiz"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the available categories and difficulties",
		// The vocabulary is static; skip config loading.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Categories:")
			for _, category := range opentdb.Categories() {
				if category.ID == 0 {
					fmt.Fprintf(out, "       %s\n", category.Name)
					continue
				}
				fmt.Fprintf(out, "  %3d  %s\n", category.ID, category.Name)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Difficulties:")
			for _, difficulty := range quiz.Difficulties() {
				fmt.Fprintf(out, "       %s\n", difficulty)
			}
			return nil
		},
	}
}
