package cmd

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcraft/internal/quiz"
	"github.com/abhisek/quizcraft/internal/spacedrep"
	"github.com/abhisek/quizcraft/internal/stats"
	"github.com/abhisek/quizcraft/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizcraft",
	Short: "Personal study app with adaptive review scheduling",
	Long:  "QuizCraft — organize questions by subject and topic, run quizzes and let spaced repetition schedule your reviews.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZCRAFT_DB env var)")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZCRAFT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// app bundles the store and the core services for command handlers.
type app struct {
	store     *store.Store
	scheduler *spacedrep.Scheduler
	assembler *quiz.Assembler
	sessions  *quiz.Service
	stats     *stats.Aggregator
}

func openApp(cmd *cobra.Command) (*app, error) {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	scheduler := spacedrep.NewScheduler(st, spacedrep.DefaultConfig(), nil)
	aggregator := stats.NewAggregator(st, scheduler, nil)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return &app{
		store:     st,
		scheduler: scheduler,
		assembler: quiz.NewAssembler(st, scheduler, rng),
		sessions:  quiz.NewService(st, scheduler, aggregator, nil),
		stats:     aggregator,
	}, nil
}

func (a *app) close() {
	_ = a.store.Close()
}
