package models

// GithubContentResponse is what the contents api returns for a single file.
// Files over githubs inline size limit come back with an empty content field
// and have to be resolved through the blobs api instead.
type GithubContentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Sha      string `json:"sha"`
	Size     int    `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	GitUrl   string `json:"git_url"`
}

type GithubBlobResponse struct {
	Sha      string `json:"sha"`
	Size     int    `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchedFile pairs a repository path with its decoded content.
type FetchedFile struct {
	Path    string
	Content string
}
