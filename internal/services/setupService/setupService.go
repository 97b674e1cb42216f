package setupservice

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RobsonDevCode/firmscan/internal/configuration"
)

const filePath = "configuration/user_setting.json"

// CreateSetupFile stores the tokens the scan command needs. Overwriting an
// existing file is allowed, tokens rotate.
func CreateSetupFile(githubToken string, geminiApiKey string, compilationDate string) error {
	userSettings := configuration.UserSettings{
		GithubToken:     githubToken,
		GeminiApiKey:    geminiApiKey,
		CompilationDate: compilationDate,
	}

	jsonData, err := json.Marshal(userSettings)
	if err != nil {
		return fmt.Errorf("error marshalling json, %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0600); err != nil {
		return fmt.Errorf("error writing file at %s, %w", filePath, err)
	}

	return nil
}

func GetUserSettings() (*configuration.UserSettings, error) {
	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read user settings: %w", err)
	}

	var userSettings configuration.UserSettings
	if err := json.Unmarshal(jsonData, &userSettings); err != nil {
		return nil, fmt.Errorf("error unmarshalling user settings: %w", err)
	}

	return &userSettings, nil
}
