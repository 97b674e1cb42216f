package excelexportservice

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	exportexceloptions "github.com/RobsonDevCode/firmscan/internal/constants/exportExcelOptions"
	risklevels "github.com/RobsonDevCode/firmscan/internal/constants/riskLevels"
	tableheaders "github.com/RobsonDevCode/firmscan/internal/constants/tableHeaders"
	dependencytree "github.com/RobsonDevCode/firmscan/internal/dependencyTree"
	"github.com/xuri/excelize/v2"
)

const saveFileTo = "./export"
const profileSheetName = "Risk Profile"
const findingSheetName = "Findings"

// ExportRiskProfile writes the discovered dependencies and any completed
// assessments to a timestamped workbook, highest risk first.
func ExportRiskProfile(repoName string, nodes []*dependencytree.DependencyNode) error {
	if err := os.MkdirAll(saveFileTo, 0755); err != nil {
		return fmt.Errorf("error creating directory %s, %w", saveFileTo, err)
	}

	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", profileSheetName)
	for i, header := range tableheaders.ExcelProfileHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(profileSheetName, cell, header)
	}

	if _, err := file.NewSheet(findingSheetName); err != nil {
		return fmt.Errorf("error creating findings sheet, %w", err)
	}
	for i, header := range tableheaders.ExcelFindingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(findingSheetName, cell, header)
	}

	slices.SortStableFunc(nodes, func(a, b *dependencytree.DependencyNode) int {
		return riskScore(b) - riskScore(a)
	})

	findingRow := 2
	for i, node := range nodes {
		row := i + 2 // excel is 1 indexed and row 1 holds the headers

		rowData := []interface{}{
			node.Name,
			node.Url,
			node.DiscoverySource,
			node.Level,
		}

		if node.Assessment != nil {
			rowData = append(rowData,
				node.Assessment.RiskLevel,
				node.Assessment.RiskSummary,
				node.Assessment.LicenseAnalysis.SpdxId,
				node.Assessment.LicenseAnalysis.ComplianceSummary,
				node.Assessment.MaintainerAnalysis,
				node.Assessment.CodeSecurityAnalysis,
			)
		} else {
			rowData = append(rowData, "Not assessed", "", "", "", "", "")
		}

		file.SetSheetRow(profileSheetName, fmt.Sprintf("A%d", row), &rowData)

		if node.Assessment == nil {
			continue
		}

		for _, finding := range node.Assessment.VulnerabilityAnalysis {
			cveIds := make([]string, 0, len(finding.Cves))
			for _, cve := range finding.Cves {
				cveIds = append(cveIds, cve.Id)
			}

			findingData := []interface{}{
				node.Name,
				finding.CweId,
				finding.CweTitle,
				finding.RiskSummary,
				strings.Join(cveIds, ", "),
			}

			file.SetSheetRow(findingSheetName, fmt.Sprintf("A%d", findingRow), &findingData)
			findingRow++
		}
	}

	fileName := fmt.Sprintf("risk_profile_%s_%s.xlsx", repoName, time.Now().Format("2006-01-02T15-04-05"))
	fullPath := filepath.Join(saveFileTo, fileName)

	if err := file.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save excel to %s, %w", fullPath, err)
	}

	fmt.Printf("Your file has been saved to: %s", fullPath)

	return nil
}

func SelectExportToExcel() (string, error) {
	prompt := &survey.Select{
		Message: "Export Risk Profile",
		Options: exportexceloptions.ExcelOptions,
	}

	var choice string
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", fmt.Errorf("survey error: %w", err)
	}

	return choice, nil
}

func riskScore(node *dependencytree.DependencyNode) int {
	if node.Assessment == nil {
		return 0
	}

	return risklevels.Score(node.Assessment.RiskLevel)
}
