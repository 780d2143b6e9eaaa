package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcraft/internal/quiz"
	"github.com/abhisek/quizcraft/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Assemble a quiz and print the selected questions",
	Long: "Assembles a question list for the given mode and filters without starting " +
		"a session. Useful to preview what a quiz would contain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		mode, _ := cmd.Flags().GetString("mode")
		count, _ := cmd.Flags().GetInt("count")
		randomize, _ := cmd.Flags().GetBool("randomize")
		shuffle, _ := cmd.Flags().GetBool("shuffle")

		req := quiz.Request{
			Mode:           store.QuizMode(mode),
			Count:          count,
			RandomizeOrder: randomize,
			ShuffleChoices: shuffle,
		}
		if id, _ := cmd.Flags().GetUint("subject"); id != 0 {
			req.SubjectID = &id
		}
		if id, _ := cmd.Flags().GetUint("topic"); id != 0 {
			req.TopicID = &id
		}

		questions, err := a.assembler.Build(cmd.Context(), req)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			fmt.Println("No questions match the requested filters.")
			return nil
		}

		for i, q := range questions {
			fmt.Printf("%d. %s  (difficulty %d)\n", i+1, q.Statement, q.Difficulty)
			for _, c := range q.Choices {
				fmt.Printf("     %c) %s\n", 'a'+rune(c.Position), c.Text)
			}
		}
		return nil
	},
}

func init() {
	quizCmd.Flags().String("mode", string(store.ModeTraining), "Quiz mode: training, exam, error_review, spaced_review")
	quizCmd.Flags().Int("count", 10, "Number of questions")
	quizCmd.Flags().Uint("subject", 0, "Filter by subject id")
	quizCmd.Flags().Uint("topic", 0, "Filter by topic id")
	quizCmd.Flags().Bool("randomize", true, "Randomize question order")
	quizCmd.Flags().Bool("shuffle", false, "Shuffle answer choices")
}
