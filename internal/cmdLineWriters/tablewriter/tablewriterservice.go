package tablewriterservice

import (
	"fmt"
	"os"
	"strings"

	risklevels "github.com/RobsonDevCode/firmscan/internal/constants/riskLevels"
	tableheaders "github.com/RobsonDevCode/firmscan/internal/constants/tableHeaders"
	dependencytree "github.com/RobsonDevCode/firmscan/internal/dependencyTree"
	"github.com/RobsonDevCode/firmscan/internal/extensions"
	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// DisplayDependencyTable renders the visible part of the tree, children of
// collapsed nodes are skipped.
func DisplayDependencyTable(root *dependencytree.DependencyNode) {
	if root == nil || len(root.Children) == 0 {
		fmt.Print(color.GreenString("\n No third party dependencies discovered!\n"))
		return
	}

	table := newTable()
	table.Header(tableheaders.DependencyTableHeaders)

	appendVisible(table, root)

	fmt.Print("\n")
	table.Render()
}

func appendVisible(table *tablewriter.Table, node *dependencytree.DependencyNode) {
	if !node.IsExpanded {
		return
	}

	for _, child := range node.Children {
		risk := "-"
		if child.Assessment != nil {
			risk = child.Assessment.RiskLevel
		}
		if child.IsLoading {
			risk = "loading..."
		}

		table.Append([]string{
			strings.Repeat("  ", child.Level-1) + child.Name,
			extensions.TruncateString(child.Url, 50),
			child.DiscoverySource,
			colorRiskLevel(risk),
		})

		appendVisible(table, child)
	}
}

func DisplayAssessmentTable(name string, assessment scannermodels.RiskAssessment) {
	fmt.Printf("\n Risk assessment for %s - %s\n", color.New(color.Bold).Sprint(name),
		colorRiskLevel(assessment.RiskLevel))
	fmt.Printf("\n %s\n", assessment.RiskSummary)

	fmt.Printf("\n Maintainers: %s\n", extensions.TruncateString(assessment.MaintainerAnalysis, 300))
	fmt.Printf("\n Code security: %s\n", extensions.TruncateString(assessment.CodeSecurityAnalysis, 300))
	fmt.Printf("\n License: %s - %s\n", assessment.LicenseAnalysis.SpdxId,
		extensions.TruncateString(assessment.LicenseAnalysis.ComplianceSummary, 200))

	if len(assessment.VulnerabilityAnalysis) == 0 {
		fmt.Print(color.GreenString("\n No weakness categories reported\n"))
		return
	}

	table := newTable()
	table.Header(tableheaders.FindingTableHeaders)

	for _, finding := range assessment.VulnerabilityAnalysis {
		cveIds := make([]string, 0, len(finding.Cves))
		for _, cve := range finding.Cves {
			cveIds = append(cveIds, cve.Id)
		}

		cves := strings.Join(cveIds, ", ")
		if cves == "" {
			cves = "none disclosed"
		}

		table.Append([]string{
			finding.CweId,
			finding.CweTitle,
			extensions.TruncateString(finding.RiskSummary, 80),
			cves,
		})
	}

	fmt.Print("\n")
	table.Render()
}

func newTable() *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{AutoWrap: tw.WrapNormal},
				Alignment:    tw.CellAlignment{Global: tw.AlignLeft},
				ColMaxWidths: tw.CellWidth{Global: 40},
			},
		}),
	)
}

func colorRiskLevel(level string) string {
	switch level {
	case risklevels.Critical, risklevels.High:
		return color.RedString(level)
	case risklevels.Medium:
		return color.YellowString(level)
	case risklevels.Low:
		return color.GreenString(level)
	}

	return level
}
