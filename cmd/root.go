package cmd

import (
	"fmt"
	"os"

	scannerService "github.com/RobsonDevCode/firmscan/internal/scanner"
	explorerservice "github.com/RobsonDevCode/firmscan/internal/services/explorerService"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "firmscan",
	Short: "discover and risk-assess third party components in firmware repositories",
	Long: `firmscan discovers the third party components a firmware repository
		   depends on, even when they are scattered across build files and
		   #include directives, and builds an evidence graded risk profile
		   for each one.`,
}

var repositoryScanner scannerService.RepositoryScannerService
var explorer explorerservice.ExplorerService

// cant DI directly into the command so we use setters
func SetScanner(scanner scannerService.RepositoryScannerService) {
	repositoryScanner = scanner
}

func SetExplorer(service explorerservice.ExplorerService) {
	explorer = service
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
