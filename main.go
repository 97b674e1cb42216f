package main

import (
	"fmt"

	"github.com/RobsonDevCode/firmscan/cmd"
	cache "github.com/RobsonDevCode/firmscan/internal/caching"
	geminiclient "github.com/RobsonDevCode/firmscan/internal/clients/geminiClient"
	githubcontentclient "github.com/RobsonDevCode/firmscan/internal/clients/githubContentClient"
	"github.com/RobsonDevCode/firmscan/internal/configuration"
	scannerService "github.com/RobsonDevCode/firmscan/internal/scanner"
	analysisservice "github.com/RobsonDevCode/firmscan/internal/services/analysisService"
	explorerservice "github.com/RobsonDevCode/firmscan/internal/services/explorerService"
	extractionservice "github.com/RobsonDevCode/firmscan/internal/services/extractionService"
	setupservice "github.com/RobsonDevCode/firmscan/internal/services/setupService"
)

func main() {

	cacheInstance := cache.Cache{}
	config, err := configuration.Load()
	if err != nil {
		fmt.Printf("error starting command line: %s", err.Error())
		return
	}

	// tokens from setup take precedence over the yaml file
	if userSettings, err := setupservice.GetUserSettings(); err == nil {
		if userSettings.GithubToken != "" {
			config.GithubClientSettings.PAT = userSettings.GithubToken
		}
		if userSettings.GeminiApiKey != "" {
			config.GeminiClientSettings.ApiKey = userSettings.GeminiApiKey
		}
	}

	githubClient, err := githubcontentclient.NewGithubContentClient(config, &cacheInstance)
	if err != nil {
		fmt.Printf("error starting command line: %s", err.Error())
		return
	}

	geminiClient, err := geminiclient.NewGeminiClient(config)
	if err != nil {
		fmt.Printf("error starting command line: %s", err.Error())
		return
	}

	extractor := extractionservice.NewExtractor(geminiClient)
	scanner := scannerService.NewScanner(githubClient, extractor)
	analyzer := analysisservice.NewAnalyzer(extractor)
	explorer := explorerservice.NewExplorer(scanner, analyzer)

	cmd.SetScanner(scanner)
	cmd.SetExplorer(explorer)
	cmd.Execute()
}
