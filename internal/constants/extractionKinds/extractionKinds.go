package extractionKinds

const (
	ManifestScan   = "manifest-scan"
	SourceScan     = "source-scan"
	LicenseScan    = "license-scan"
	FullAssessment = "full-assessment"
)
