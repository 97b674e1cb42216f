package discoverySources

const (
	BuildManifest  = "Build Manifest"
	SourceScan     = "Source Scan"
	RootRepository = "Root Repository"
)
