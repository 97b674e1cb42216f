package extractionservice

import (
	"fmt"
	"strings"
)

var dependencyListSchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
			"url":  map[string]interface{}{"type": "string"},
		},
		"required": []string{"name", "url"},
	},
}

var manifestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"toolchain_info": map[string]interface{}{"type": "string"},
		"dependencies":   dependencyListSchema,
	},
	"required": []string{"toolchain_info", "dependencies"},
}

var sourceSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"dependencies": dependencyListSchema,
	},
	"required": []string{"dependencies"},
}

var licenseSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"spdx_id":            map[string]interface{}{"type": "string"},
		"compliance_summary": map[string]interface{}{"type": "string"},
	},
	"required": []string{"spdx_id", "compliance_summary"},
}

var assessmentSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"maintainer_analysis":    map[string]interface{}{"type": "string"},
		"code_security_analysis": map[string]interface{}{"type": "string"},
		"license_analysis":       licenseSchema,
		"vulnerability_analysis": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"cwe_id":       map[string]interface{}{"type": "string"},
					"cwe_title":    map[string]interface{}{"type": "string"},
					"risk_summary": map[string]interface{}{"type": "string"},
					"cves": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"id":      map[string]interface{}{"type": "string"},
								"summary": map[string]interface{}{"type": "string"},
							},
							"required": []string{"id", "summary"},
						},
					},
				},
				"required": []string{"cwe_id", "cwe_title", "risk_summary", "cves"},
			},
		},
		"risk_level": map[string]interface{}{
			"type": "string",
			"enum": []string{"Low", "Medium", "High", "Critical"},
		},
		"risk_summary": map[string]interface{}{"type": "string"},
	},
	"required": []string{
		"maintainer_analysis",
		"code_security_analysis",
		"license_analysis",
		"vulnerability_analysis",
		"risk_level",
		"risk_summary",
	},
}

func buildManifestPrompt(manifestContent string) string {
	return fmt.Sprintf(`You are auditing an embedded/firmware repository.
Below are its build manifest files (platformio.ini, library.json, Makefile, CMakeLists.txt).

Identify the toolchain/framework the project is built with (board, platform, framework versions where stated) and every third party library the manifests declare or reference. For each library give its name and the most likely source repository url, empty string if unknown.

Manifest content:
%s`, manifestContent)
}

func buildSourcePrompt(sourceContent string, knownNames []string) string {
	known := "none so far"
	if len(knownNames) > 0 {
		known = strings.Join(knownNames, ", ")
	}

	return fmt.Sprintf(`You are auditing an embedded/firmware repository.
Below is a batch of its source files. Find third party libraries referenced through #include directives or direct usage.

Ignore standard and framework headers (for example stdio.h, string.h, stdint.h, Arduino.h, avr/*, esp_*, freertos/*) and headers local to this repository. The exclusions above are examples, use your judgment for anything similar.

These dependencies are already known, do not report them again: %s.

For each new third party library give its name and the most likely source repository url, empty string if unknown.

Source content:
%s`, known, sourceContent)
}

func buildLicensePrompt(licenseContent string) string {
	return fmt.Sprintf(`Identify the license below. Return its SPDX identifier ("Unknown" if you cannot tell, "Proprietary" for a custom commercial license) and a short summary of the compliance obligations it puts on a commercial firmware product.

License text:
%s`, licenseContent)
}

func buildAssessmentPrompt(name string, sourceUrl string, compilationDate string) string {
	return fmt.Sprintf(`You are a supply chain security analyst. Produce a risk assessment of the third party component %q (source: %s) as a dependency of a commercial embedded/firmware product.

The firmware shipped around %s, emphasise vulnerabilities disclosed after that date since they will not be patched in the field.

Cover:
- maintainer_analysis: who maintains it, how actively, bus factor concerns
- code_security_analysis: language, memory safety posture, attack surface in an embedded context
- license_analysis: SPDX identifier and compliance obligations
- vulnerability_analysis: known weakness categories (CWE) that apply, with concrete CVEs where they exist. An empty cve list is fine when a weakness class applies but nothing is disclosed
- risk_level: overall Low/Medium/High/Critical
- risk_summary: two or three sentences for an engineering manager`, name, sourceUrl, compilationDate)
}
