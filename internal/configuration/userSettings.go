package configuration

type UserSettings struct {
	GithubToken     string `json:"github_token"`
	GeminiApiKey    string `json:"gemini_api_key"`
	CompilationDate string `json:"compilation_date"`
}
