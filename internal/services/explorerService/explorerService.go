package explorerservice

import (
	"fmt"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	tablewriterservice "github.com/RobsonDevCode/firmscan/internal/cmdLineWriters/tablewriter"
	exploreractions "github.com/RobsonDevCode/firmscan/internal/constants/explorerActions"
	exportexceloptions "github.com/RobsonDevCode/firmscan/internal/constants/exportExcelOptions"
	dependencytree "github.com/RobsonDevCode/firmscan/internal/dependencyTree"
	scannerService "github.com/RobsonDevCode/firmscan/internal/scanner"
	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
	analysisservice "github.com/RobsonDevCode/firmscan/internal/services/analysisService"
	excelexportservice "github.com/RobsonDevCode/firmscan/internal/services/excelExportService"
	"github.com/fatih/color"
	"golang.org/x/net/context"
)

type ExplorerService interface {
	Explore(repo scannermodels.RepoRef, result scannermodels.DiscoveryResult, compilationDate string, ctx context.Context) error
}

// Explorer owns the dependency tree for a session. All tree changes go
// through updateTree so concurrent callbacks swap complete snapshots in and
// out, a snapshot handed to the renderer is never mutated under it.
type Explorer struct {
	scanner         scannerService.RepositoryScannerService
	analyzer        analysisservice.AnalysisService
	compilationDate string

	mu   sync.Mutex
	root *dependencytree.DependencyNode
}

func NewExplorer(scanner scannerService.RepositoryScannerService,
	analyzer analysisservice.AnalysisService) *Explorer {
	return &Explorer{
		scanner:  scanner,
		analyzer: analyzer,
	}
}

func (e *Explorer) Explore(repo scannermodels.RepoRef, result scannermodels.DiscoveryResult,
	compilationDate string, ctx context.Context) error {
	e.compilationDate = compilationDate

	root := dependencytree.NewRoot(repo.String(), "https://github.com/"+repo.String())
	e.setRoot(dependencytree.UpdateAt(root, root.Path, func(node dependencytree.DependencyNode) dependencytree.DependencyNode {
		return dependencytree.WithChildren(node, result.Dependencies)
	}))

	for {
		snapshot := e.snapshot()
		tablewriterservice.DisplayDependencyTable(snapshot)

		path, ok, err := e.selectNode(snapshot)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		action, err := e.selectAction()
		if err != nil {
			return err
		}

		switch action {
		case exploreractions.Analyze:
			e.AnalyzeNode(path, ctx)

		case exploreractions.Expand:
			e.DiscoverChildren(path, ctx)

		case exploreractions.Toggle:
			e.ToggleExpand(path)

		case exploreractions.Export:
			if err := e.exportProfile(repo); err != nil {
				fmt.Print(color.RedString("\n %s\n", err.Error()))
			}

		case exploreractions.Quit:
			return nil
		}
	}
}

// AnalyzeNode runs the deep assessment for the node at path and writes the
// result back into the tree. The assessment never fails outright, a broken
// extraction renders as a Critical flagged-for-review entry.
func (e *Explorer) AnalyzeNode(path string, ctx context.Context) {
	node, ok := dependencytree.FindByPath(e.snapshot(), path)
	if !ok {
		return
	}

	name, url := node.Name, node.Url
	e.setLoading(path, true)

	assessment := e.analyzer.Analyze(name, url, e.compilationDate, printStatus, ctx)

	e.updateTree(path, func(node dependencytree.DependencyNode) dependencytree.DependencyNode {
		node.Assessment = &assessment
		node.IsLoading = false
		return node
	})

	tablewriterservice.DisplayAssessmentTable(name, assessment)
}

// DiscoverChildren lazily materializes a nodes own dependency list by
// scanning its source repository, then hangs the results off the node.
func (e *Explorer) DiscoverChildren(path string, ctx context.Context) {
	node, ok := dependencytree.FindByPath(e.snapshot(), path)
	if !ok {
		return
	}

	if len(node.Children) > 0 {
		e.ToggleExpand(path)
		return
	}

	childRepo, err := scannermodels.ParseRepoRef(node.Url)
	if err != nil {
		fmt.Print(color.YellowString("\n %s has no usable source url, nothing to discover\n", node.Name))
		return
	}

	e.setLoading(path, true)

	result, err := e.scanner.Discover(childRepo, printStatus, ctx)
	if err != nil {
		// fatal or not, the node just stays unexpanded
		e.setLoading(path, false)
		fmt.Print(color.RedString("\n error discovering dependencies of %s: %s\n", node.Name, err.Error()))
		return
	}

	e.updateTree(path, func(node dependencytree.DependencyNode) dependencytree.DependencyNode {
		updated := dependencytree.WithChildren(node, result.Dependencies)
		updated.IsLoading = false
		updated.IsExpanded = true
		return updated
	})
}

func (e *Explorer) ToggleExpand(path string) {
	e.updateTree(path, func(node dependencytree.DependencyNode) dependencytree.DependencyNode {
		node.IsExpanded = !node.IsExpanded
		return node
	})
}

func (e *Explorer) setLoading(path string, loading bool) {
	e.updateTree(path, func(node dependencytree.DependencyNode) dependencytree.DependencyNode {
		node.IsLoading = loading
		return node
	})
}

func (e *Explorer) updateTree(path string, mutate func(dependencytree.DependencyNode) dependencytree.DependencyNode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.root = dependencytree.UpdateAt(e.root, path, mutate)
}

func (e *Explorer) snapshot() *dependencytree.DependencyNode {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.root
}

func (e *Explorer) setRoot(root *dependencytree.DependencyNode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.root = root
}

func (e *Explorer) selectNode(root *dependencytree.DependencyNode) (string, bool, error) {
	var options []string
	var paths []string

	dependencytree.Walk(root, func(node *dependencytree.DependencyNode) {
		if node.Level == 0 {
			return
		}

		label := node.Name
		for i := 0; i < node.Level-1; i++ {
			label = "  " + label
		}
		if node.Assessment != nil {
			label = fmt.Sprintf("%s [%s]", label, node.Assessment.RiskLevel)
		}

		options = append(options, label)
		paths = append(paths, node.Path)
	})

	if len(options) == 0 {
		fmt.Print(color.GreenString("\n No third party dependencies discovered!\n"))
		return "", false, nil
	}

	options = append(options, exploreractions.Quit)

	prompt := &survey.Select{
		Message:  "Select a dependency:",
		Options:  options,
		PageSize: 15,
	}

	var selectedIndex int
	if err := survey.AskOne(prompt, &selectedIndex); err != nil {
		return "", false, fmt.Errorf("survey error: %w", err)
	}

	if selectedIndex == len(options)-1 {
		return "", false, nil
	}

	return paths[selectedIndex], true, nil
}

func (e *Explorer) selectAction() (string, error) {
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: exploreractions.Actions,
	}

	var action string
	if err := survey.AskOne(prompt, &action); err != nil {
		return "", fmt.Errorf("survey error: %w", err)
	}

	return action, nil
}

func (e *Explorer) exportProfile(repo scannermodels.RepoRef) error {
	choice, err := excelexportservice.SelectExportToExcel()
	if err != nil {
		return err
	}

	if choice != exportexceloptions.Yes {
		return nil
	}

	var assessed []*dependencytree.DependencyNode
	dependencytree.Walk(e.snapshot(), func(node *dependencytree.DependencyNode) {
		if node.Level > 0 {
			assessed = append(assessed, node)
		}
	})

	return excelexportservice.ExportRiskProfile(repo.Repo, assessed)
}

func printStatus(status string) {
	fmt.Printf("\n %s", color.CyanString(status))
}
