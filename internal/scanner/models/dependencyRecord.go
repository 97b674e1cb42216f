package scannermodels

type DependencyRecord struct {
	Name            string
	SourceUrl       string
	DiscoverySource string
}

// DiscoveryResult is produced once per discover call and not retained.
type DiscoveryResult struct {
	Dependencies    []DependencyRecord
	ToolchainInfo   string
	RootLicenseInfo *LicenseInfo
}

const ToolchainNotDetermined = "Not determined"

// StatusSink receives human readable phase text, purely observational.
type StatusSink func(status string)
