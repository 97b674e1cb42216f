package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/RobsonDevCode/firmscan/internal/clients/models"
	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
	setupservice "github.com/RobsonDevCode/firmscan/internal/services/setupService"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [owner/repo]",
	Short: "scan a firmware repository for third party components",
	Long: `scan a firmware repository for third party components.

		   Discovers dependencies from build manifests and source includes,
		   then drops into an interactive explorer where components can be
		   risk-assessed and nested dependencies discovered on demand.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

const DateFlag = "date"

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repo, err := scannermodels.ParseRepoRef(args[0])
	if err != nil {
		return err
	}

	compilationDate, _ := cmd.Flags().GetString(DateFlag)
	if compilationDate == "" {
		if userSettings, err := setupservice.GetUserSettings(); err == nil && userSettings.CompilationDate != "" {
			compilationDate = userSettings.CompilationDate
		} else {
			compilationDate = time.Now().Format("2006-01-02")
		}
	}

	fmt.Print("Starting discovery...\n")
	result, err := repositoryScanner.Discover(repo, printStatus, ctx)
	if err != nil {
		var rateLimited *models.RateLimitedError
		if errors.As(err, &rateLimited) {
			return fmt.Errorf("%s", color.RedString("github rate limit hit, try again in %s",
				rateLimited.RetryAfter.Round(time.Second)))
		}

		return err
	}

	fmt.Printf("\n Toolchain: %s\n", result.ToolchainInfo)
	if result.RootLicenseInfo != nil {
		fmt.Printf(" License: %s\n", result.RootLicenseInfo.SpdxId)
	}

	return explorer.Explore(repo, result, compilationDate, ctx)
}

func printStatus(status string) {
	fmt.Printf("\n %s", color.CyanString(status))
}

func init() {
	scanCmd.Flags().StringP(DateFlag, "d", "", "Compilation date cutoff, vulnerabilities disclosed after it are emphasised")

	rootCmd.AddCommand(scanCmd)
}
