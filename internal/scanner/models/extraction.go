package scannermodels

// DependencyHit is a single dependency the extractor reported from a
// manifest or source batch.
type DependencyHit struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

type ManifestExtraction struct {
	ToolchainInfo string          `json:"toolchain_info"`
	Dependencies  []DependencyHit `json:"dependencies"`
}

type SourceExtraction struct {
	Dependencies []DependencyHit `json:"dependencies"`
}
