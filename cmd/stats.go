package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		d, err := a.stats.Dashboard(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Questions:        %d (%d studied)\n", d.TotalQuestions, d.QuestionsStudied)
		fmt.Printf("Accuracy:         %.1f%% (7d)  %.1f%% (30d)\n", d.Accuracy7d, d.Accuracy30d)
		fmt.Printf("Avg time/answer:  %.1fs\n", d.AvgTimeSeconds)
		fmt.Printf("Study streak:     %d day(s)\n", d.CurrentStreak)
		fmt.Printf("Sessions done:    %d\n", d.TotalSessions)
		fmt.Printf("Due for review:   %d\n", d.DueForReview)

		weak, err := a.stats.WeakestTopics(ctx, 5)
		if err != nil {
			return err
		}
		if len(weak) > 0 {
			fmt.Println("\nWeakest topics:")
			for _, w := range weak {
				fmt.Printf("  %-30s %5.1f%%  (%d attempts, %s)\n",
					w.TopicName, w.Accuracy, w.TotalAttempts, w.SubjectName)
			}
		}
		return nil
	},
}
