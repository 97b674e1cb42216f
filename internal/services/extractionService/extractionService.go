package extractionservice

import (
	"encoding/json"
	"strings"

	"github.com/RobsonDevCode/firmscan/internal/clients/models"
	extractionkinds "github.com/RobsonDevCode/firmscan/internal/constants/extractionKinds"
	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
	"golang.org/x/net/context"
)

// StructuredGenerator is the one capability we need from a reasoning
// service: given free text and a target schema, return text expected to
// parse into that schema. Keeping it this narrow lets the whole pipeline
// run against a fake in tests.
type StructuredGenerator interface {
	GenerateStructured(prompt string, schema map[string]interface{}, ctx context.Context) (string, error)
}

type ExtractionService interface {
	ExtractManifestDependencies(manifestContent string, ctx context.Context) (scannermodels.ManifestExtraction, error)
	ExtractSourceDependencies(sourceContent string, knownNames []string, ctx context.Context) (scannermodels.SourceExtraction, error)
	ExtractLicense(licenseContent string, ctx context.Context) (scannermodels.LicenseInfo, error)
	ExtractRiskAssessment(name string, sourceUrl string, compilationDate string, ctx context.Context) (scannermodels.RiskAssessment, error)
}

type Extractor struct {
	generator StructuredGenerator
}

func NewExtractor(generator StructuredGenerator) *Extractor {
	return &Extractor{
		generator: generator,
	}
}

func (e *Extractor) ExtractManifestDependencies(manifestContent string, ctx context.Context) (scannermodels.ManifestExtraction, error) {
	var result scannermodels.ManifestExtraction
	if err := e.extract(extractionkinds.ManifestScan, buildManifestPrompt(manifestContent), manifestSchema, &result, ctx); err != nil {
		return scannermodels.ManifestExtraction{}, err
	}

	return result, nil
}

func (e *Extractor) ExtractSourceDependencies(sourceContent string, knownNames []string, ctx context.Context) (scannermodels.SourceExtraction, error) {
	var result scannermodels.SourceExtraction
	if err := e.extract(extractionkinds.SourceScan, buildSourcePrompt(sourceContent, knownNames), sourceSchema, &result, ctx); err != nil {
		return scannermodels.SourceExtraction{}, err
	}

	return result, nil
}

func (e *Extractor) ExtractLicense(licenseContent string, ctx context.Context) (scannermodels.LicenseInfo, error) {
	var result scannermodels.LicenseInfo
	if err := e.extract(extractionkinds.LicenseScan, buildLicensePrompt(licenseContent), licenseSchema, &result, ctx); err != nil {
		return scannermodels.LicenseInfo{}, err
	}

	return result, nil
}

func (e *Extractor) ExtractRiskAssessment(name string, sourceUrl string, compilationDate string, ctx context.Context) (scannermodels.RiskAssessment, error) {
	var result scannermodels.RiskAssessment
	if err := e.extract(extractionkinds.FullAssessment, buildAssessmentPrompt(name, sourceUrl, compilationDate), assessmentSchema, &result, ctx); err != nil {
		return scannermodels.RiskAssessment{}, err
	}

	return result, nil
}

// extract issues one generate call, no internal retry - retries are a phase
// level decision. Any failure comes back as ExtractionFailedError so the
// caller can choose between degrading and converting to a fallback.
func (e *Extractor) extract(kind string, prompt string, schema map[string]interface{}, out interface{}, ctx context.Context) error {
	raw, err := e.generator.GenerateStructured(prompt, schema, ctx)
	if err != nil {
		return &models.ExtractionFailedError{Kind: kind, RawText: err.Error()}
	}

	cleaned := StripCodeFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &models.ExtractionFailedError{Kind: kind, RawText: raw}
	}

	return nil
}

// StripCodeFences removes a surrounding ```json ... ``` wrapper, models keep
// adding one even when asked for bare json.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.Index(trimmed, "\n"); newline >= 0 {
		// drop the language tag line
		trimmed = trimmed[newline+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "json")
	}

	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")

	return strings.TrimSpace(trimmed)
}
