package models

type GithubRepository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	HtmlUrl       string `json:"html_url"`
}
