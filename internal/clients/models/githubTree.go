package models

type GithubTreeResponse struct {
	Sha       string            `json:"sha"`
	Tree      []GithubTreeEntry `json:"tree"`
	Truncated bool              `json:"truncated"`
}

type GithubTreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Sha  string `json:"sha"`
	Size int    `json:"size"`
}
