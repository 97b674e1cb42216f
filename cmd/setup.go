package cmd

import (
	"fmt"

	"github.com/fatih/color"

	setupservice "github.com/RobsonDevCode/firmscan/internal/services/setupService"
	"github.com/spf13/cobra"
)

var setUpCmd = &cobra.Command{
	Use:   "setup",
	Short: "store the tokens scanning needs",
	Long: `setup stores the github token and gemini api key the 'scan'
		   command uses, plus an optional default compilation date cutoff.`,
	RunE: runSetUp,
}

const (
	GithubTokenFlag = "github-token"
	GeminiKeyFlag   = "gemini-key"
)

func runSetUp(cmd *cobra.Command, args []string) error {
	githubToken, _ := cmd.Flags().GetString(GithubTokenFlag)
	geminiKey, _ := cmd.Flags().GetString(GeminiKeyFlag)
	compilationDate, _ := cmd.Flags().GetString(DateFlag)

	fmt.Print("\n Setting up scanner...")

	if err := setupservice.CreateSetupFile(githubToken, geminiKey, compilationDate); err != nil {
		return err
	}

	fmt.Print(color.GreenString("\n Scanner set up, please run the scan command to profile a repository!"))
	return nil
}

func init() {
	setUpCmd.Flags().StringP(GithubTokenFlag, "t", "", "Github personal access token used for api auth")
	setUpCmd.Flags().StringP(GeminiKeyFlag, "g", "", "Gemini api key used for extraction calls")
	setUpCmd.Flags().StringP(DateFlag, "d", "", "Default compilation date cutoff for assessments")

	rootCmd.AddCommand(setUpCmd)
}
