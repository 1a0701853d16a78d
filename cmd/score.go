package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score [answers.json]",
	Short: "Score a set of answers",
	Long: `Score answers read from a JSON file ("-" for stdin), or the answers
stored locally for a test with --test.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		testName, _ := cmd.Flags().GetString("test")
		var answers []scoring.Answer
		switch {
		case len(args) == 1:
			answers, err = readAnswers(cmd, args[0])
		case testName != "":
			var t catalog.TestType
			if t, err = catalog.ParseTestType(testName); err == nil {
				answers, err = e.store.Answers().List(cmd.Context(), t)
			}
		default:
			return fmt.Errorf("pass an answers file or --test")
		}
		if err != nil {
			return err
		}
		if len(answers) == 0 {
			return fmt.Errorf("no answers to score")
		}

		start, end := answerSpan(answers)
		res := scoring.ComputeResult(answers, e.bank().Defs(), start, end)
		if res.TestType == catalog.Language {
			w := scoring.WeightedLanguageScore(scoring.SubtestResults(answers))
			res.Weighted = &w
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printResult(cmd, res)
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("test", "", "Score the stored answers of this test")
	scoreCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func readAnswers(cmd *cobra.Command, path string) ([]scoring.Answer, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var answers []scoring.Answer
	if err := json.NewDecoder(r).Decode(&answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return answers, nil
}

// answerSpan is the earliest start and latest end across answers.
func answerSpan(answers []scoring.Answer) (time.Time, time.Time) {
	var start, end time.Time
	for _, a := range answers {
		if !a.StartedAt.IsZero() && (start.IsZero() || a.StartedAt.Before(start)) {
			start = a.StartedAt
		}
		if a.EndedAt.After(end) {
			end = a.EndedAt
		}
	}
	return start, end
}

func printResult(cmd *cobra.Command, res scoring.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d/%d (%.1f%%), risk %s\n",
		res.TestType.DisplayName(), res.Score, res.MaxScore, res.Percentage, res.Risk)
	if res.Weighted != nil {
		fmt.Fprintf(out, "Weighted score: %d\n", res.Weighted.Score)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MODULE", "SCORE", "MAX", "PERCENT", "")
	for _, m := range res.SortedModules() {
		flag := ""
		if m.Underperforming() {
			flag = "needs practice"
		}
		t.Row(m.Module.DisplayName(), fmt.Sprint(m.Score), fmt.Sprint(m.MaxScore),
			fmt.Sprintf("%.1f%%", m.Percentage), flag)
	}
	fmt.Fprintln(out, t.String())
}
