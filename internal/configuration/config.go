package configuration

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const FilePath = "configuration/configuration.yaml"

type Config struct {
	GithubClientSettings GithubClientSettings `yaml:"github_client_settings"`
	GeminiClientSettings GeminiClientSettings `yaml:"gemini_client_settings"`
}

type GithubClientSettings struct {
	BaseUrl string `yaml:"base_url"`
	PAT     string `yaml:"personal_access_token"`
	// minimum spacing between outbound requests, github starts throwing
	// secondary rate limits when we go faster than this
	RequestIntervalMs int `yaml:"request_interval_ms"`
}

type GeminiClientSettings struct {
	BaseUrl string `yaml:"base_url"`
	ApiKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

func Load() (*Config, error) {
	data, err := os.ReadFile(FilePath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	if config.GithubClientSettings.RequestIntervalMs <= 0 {
		config.GithubClientSettings.RequestIntervalMs = 300
	}

	return &config, nil
}
