package extractionservice

import (
	"context"
	"errors"
	"testing"

	"github.com/RobsonDevCode/firmscan/internal/clients/models"
	extractionkinds "github.com/RobsonDevCode/firmscan/internal/constants/extractionKinds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error

	prompts []string
	schemas []map[string]interface{}
}

func (f *fakeGenerator) GenerateStructured(prompt string, schema map[string]interface{}, ctx context.Context) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)

	if f.err != nil {
		return "", f.err
	}

	return f.response, nil
}

func TestExtractManifestDependencies_ParsesResponse(t *testing.T) {
	generator := &fakeGenerator{
		response: `{"toolchain_info":"PlatformIO espressif32","dependencies":[{"name":"FastLED","url":"https://github.com/FastLED/FastLED"}]}`,
	}

	extractor := NewExtractor(generator)
	result, err := extractor.ExtractManifestDependencies("[env:esp32]", context.Background())

	require.NoError(t, err)
	assert.Equal(t, "PlatformIO espressif32", result.ToolchainInfo)
	require.Len(t, result.Dependencies, 1)
	assert.Equal(t, "FastLED", result.Dependencies[0].Name)
}

func TestExtractManifestDependencies_StripsCodeFences(t *testing.T) {
	generator := &fakeGenerator{
		response: "```json\n{\"toolchain_info\":\"avr-gcc\",\"dependencies\":[]}\n```",
	}

	extractor := NewExtractor(generator)
	result, err := extractor.ExtractManifestDependencies("Makefile content", context.Background())

	require.NoError(t, err)
	assert.Equal(t, "avr-gcc", result.ToolchainInfo)
}

func TestExtract_UnparsableOutputIsTypedFailure(t *testing.T) {
	generator := &fakeGenerator{
		response: "Sure! Here are the dependencies I found:",
	}

	extractor := NewExtractor(generator)
	_, err := extractor.ExtractManifestDependencies("content", context.Background())

	var extractionFailed *models.ExtractionFailedError
	require.ErrorAs(t, err, &extractionFailed)
	assert.Equal(t, extractionkinds.ManifestScan, extractionFailed.Kind)
	assert.Equal(t, "Sure! Here are the dependencies I found:", extractionFailed.RawText)
}

func TestExtract_GeneratorErrorIsTypedFailure(t *testing.T) {
	generator := &fakeGenerator{
		err: errors.New("service unavailable"),
	}

	extractor := NewExtractor(generator)
	_, err := extractor.ExtractRiskAssessment("FastLED", "https://github.com/FastLED/FastLED", "2023-06-01", context.Background())

	var extractionFailed *models.ExtractionFailedError
	require.ErrorAs(t, err, &extractionFailed)
	assert.Equal(t, extractionkinds.FullAssessment, extractionFailed.Kind)
}

func TestExtractSourceDependencies_PromptCarriesKnownNames(t *testing.T) {
	generator := &fakeGenerator{
		response: `{"dependencies":[]}`,
	}

	extractor := NewExtractor(generator)
	_, err := extractor.ExtractSourceDependencies("#include \"LibB.h\"", []string{"LibA", "FastLED"}, context.Background())

	require.NoError(t, err)
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "LibA, FastLED")
	assert.Contains(t, generator.prompts[0], "#include \"LibB.h\"")
}

func TestExtractRiskAssessment_PromptCarriesCompilationDate(t *testing.T) {
	generator := &fakeGenerator{
		response: `{"maintainer_analysis":"ok","code_security_analysis":"ok","license_analysis":{"spdx_id":"MIT","compliance_summary":"permissive"},"vulnerability_analysis":[],"risk_level":"Low","risk_summary":"fine"}`,
	}

	extractor := NewExtractor(generator)
	result, err := extractor.ExtractRiskAssessment("FastLED", "https://github.com/FastLED/FastLED", "2022-11-30", context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Low", result.RiskLevel)
	assert.Contains(t, generator.prompts[0], "2022-11-30")

	// the full schema goes out with the call
	require.Len(t, generator.schemas, 1)
	properties, ok := generator.schemas[0]["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, properties, "vulnerability_analysis")
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare json untouched", input: `{"a":1}`, expected: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "anonymous fence", input: "```\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "surrounding whitespace", input: "  \n```json\n{\"a\":1}\n```\n  ", expected: `{"a":1}`},
		{name: "single line fence", input: "```json{\"a\":1}```", expected: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFences(tt.input))
		})
	}
}
