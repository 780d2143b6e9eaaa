package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcraft/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample subjects and questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		n, err := store.Seed(cmd.Context(), a.store)
		if err != nil {
			return err
		}
		if n == 0 {
			slog.Info("database already seeded, nothing to do")
			return nil
		}
		slog.Info("sample data created", "questions", n)
		return nil
	},
}
