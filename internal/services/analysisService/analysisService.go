package analysisservice

import (
	"fmt"

	risklevels "github.com/RobsonDevCode/firmscan/internal/constants/riskLevels"
	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
	extractionservice "github.com/RobsonDevCode/firmscan/internal/services/extractionService"
	"golang.org/x/net/context"
)

const analysisFailedMarker = "Analysis failed - manual review required"

type AnalysisService interface {
	Analyze(name string, sourceUrl string, compilationDate string, onStatus scannermodels.StatusSink, ctx context.Context) scannermodels.RiskAssessment
}

type Analyzer struct {
	extractor extractionservice.ExtractionService
}

func NewAnalyzer(extractor extractionservice.ExtractionService) *Analyzer {
	return &Analyzer{
		extractor: extractor,
	}
}

// Analyze runs one full assessment extraction for a dependency. It never
// returns an error: when the extraction comes back unparsable the caller
// still needs something actionable to render, so we hand back a Critical
// fallback instead of breaking their flow.
func (a *Analyzer) Analyze(name string, sourceUrl string, compilationDate string,
	onStatus scannermodels.StatusSink, ctx context.Context) scannermodels.RiskAssessment {
	onStatus(fmt.Sprintf("Running deep risk assessment for %s...", name))

	assessment, err := a.extractor.ExtractRiskAssessment(name, sourceUrl, compilationDate, ctx)
	if err != nil {
		onStatus(fmt.Sprintf("Assessment of %s failed, flagging for manual review", name))
		return fallbackAssessment()
	}

	if assessment.RiskLevel == "" {
		assessment.RiskLevel = risklevels.Critical
	}

	return assessment
}

func fallbackAssessment() scannermodels.RiskAssessment {
	return scannermodels.RiskAssessment{
		MaintainerAnalysis:   analysisFailedMarker,
		CodeSecurityAnalysis: analysisFailedMarker,
		LicenseAnalysis: scannermodels.LicenseInfo{
			SpdxId:            "Unknown",
			ComplianceSummary: analysisFailedMarker,
		},
		VulnerabilityAnalysis: []scannermodels.CweFinding{},
		RiskLevel:             risklevels.Critical,
		RiskSummary:           "The automated assessment could not be completed, treat this dependency as high risk until it has been reviewed manually.",
	}
}
