package scannermodels

type LicenseInfo struct {
	SpdxId            string `json:"spdx_id"`
	ComplianceSummary string `json:"compliance_summary"`
}

type CveInfo struct {
	Id      string `json:"id"`
	Summary string `json:"summary"`
}

// CweFinding groups the specific CVEs found under a weakness category. An
// empty cve list is absence of evidence, not absence of risk.
type CweFinding struct {
	CweId       string    `json:"cwe_id"`
	CweTitle    string    `json:"cwe_title"`
	RiskSummary string    `json:"risk_summary"`
	Cves        []CveInfo `json:"cves"`
}

type RiskAssessment struct {
	MaintainerAnalysis    string       `json:"maintainer_analysis"`
	CodeSecurityAnalysis  string       `json:"code_security_analysis"`
	LicenseAnalysis       LicenseInfo  `json:"license_analysis"`
	VulnerabilityAnalysis []CweFinding `json:"vulnerability_analysis"`
	RiskLevel             string       `json:"risk_level"`
	RiskSummary           string       `json:"risk_summary"`
}
