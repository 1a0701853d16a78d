package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/dyscreen/internal/scoring"
)

func TestAnswerSpan(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	answers := []scoring.Answer{
		{StartedAt: t0.Add(time.Minute), EndedAt: t0.Add(2 * time.Minute)},
		{StartedAt: t0, EndedAt: t0.Add(30 * time.Second)},
		{EndedAt: t0.Add(5 * time.Minute)},
	}
	start, end := answerSpan(answers)
	assert.Equal(t, t0, start)
	assert.Equal(t, t0.Add(5*time.Minute), end)
}

func TestMinigameScoreCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"minigame", "score", "letter-hunt", "--correct", "12"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "100")
}

func TestMinigameScoreRejectsNegative(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"minigame", "score", "letter-hunt", "--wrong=-1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil); rootCmd.SetErr(nil) })

	assert.Error(t, rootCmd.Execute())
}

func TestMinigameSubmitRejectsExtraLevels(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Int("correct", 0, "")
	cmd.Flags().Int("wrong", 0, "")
	cmd.Flags().Int("levels", 0, "")
	require.NoError(t, cmd.Flags().Set("levels", "99"))

	_, _, err := outcomeFromFlags(cmd, "word-builder")
	assert.ErrorContains(t, err, "word-builder has 4 levels")

	require.NoError(t, cmd.Flags().Set("levels", "4"))
	_, o, err := outcomeFromFlags(cmd, "word-builder")
	require.NoError(t, err)
	assert.Equal(t, 4, o.Levels)
}
