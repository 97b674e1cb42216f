package scannerService

import (
	"fmt"
	"strings"

	githubcontentclient "github.com/RobsonDevCode/firmscan/internal/clients/githubContentClient"
	"github.com/RobsonDevCode/firmscan/internal/clients/models"
	discoverysources "github.com/RobsonDevCode/firmscan/internal/constants/discoverySources"
	"github.com/RobsonDevCode/firmscan/internal/extensions"
	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
	extractionservice "github.com/RobsonDevCode/firmscan/internal/services/extractionService"
	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

// batchSize bounds how many source files go into a single extraction call.
const batchSize = 15

// maxContentRunes bounds each file before it goes into a prompt.
const maxContentRunes = 5000

var sourceExtensions = []string{".h", ".hpp", ".c", ".cpp", ".ino"}

var manifestFileNames = map[string]struct{}{
	"platformio.ini": {},
	"library.json":   {},
	"makefile":       {},
	"cmakelists.txt": {},
}

type RepositoryScannerService interface {
	Discover(repo scannermodels.RepoRef, onStatus scannermodels.StatusSink, ctx context.Context) (scannermodels.DiscoveryResult, error)
}

type Scanner struct {
	client    githubcontentclient.GithubContentService
	extractor extractionservice.ExtractionService
}

func NewScanner(client githubcontentclient.GithubContentService,
	extractor extractionservice.ExtractionService) *Scanner {
	return &Scanner{
		client:    client,
		extractor: extractor,
	}
}

// Discover runs the four phase scan. A failure while listing the file tree
// is fatal, nothing can be discovered without it. Later phases degrade to
// empty results instead, unless the failure is the fetcher telling us the
// whole run cant make progress (rate limited, repo gone).
func (s *Scanner) Discover(repo scannermodels.RepoRef, onStatus scannermodels.StatusSink, ctx context.Context) (scannermodels.DiscoveryResult, error) {
	result := scannermodels.DiscoveryResult{
		ToolchainInfo: scannermodels.ToolchainNotDetermined,
	}
	registry := NewDependencyRegistry()

	onStatus(fmt.Sprintf("Listing files in %s...", repo))
	branch, err := s.client.GetDefaultBranch(repo.Owner, repo.Repo, ctx)
	if err != nil {
		return scannermodels.DiscoveryResult{}, err
	}

	tree, err := s.client.GetTree(repo.Owner, repo.Repo, branch, ctx)
	if err != nil {
		return scannermodels.DiscoveryResult{}, err
	}

	if tree.Truncated {
		onStatus("File tree is truncated, results may be incomplete")
	}

	sourceFiles, manifestFiles, licenseFile := partitionTree(tree)
	onStatus(fmt.Sprintf("Found %d source files and %d build manifests", len(sourceFiles), len(manifestFiles)))

	if len(manifestFiles) > 0 {
		onStatus("Reading build manifests...")
		if err := s.scanManifests(repo, manifestFiles, registry, &result, ctx); err != nil {
			if models.IsFatalFetchError(err) {
				return scannermodels.DiscoveryResult{}, err
			}
			onStatus("Could not extract from build manifests, continuing without them")
		}
	}

	if len(sourceFiles) > 0 {
		if err := s.scanSourceFiles(repo, sourceFiles, registry, onStatus, ctx); err != nil {
			return scannermodels.DiscoveryResult{}, err
		}
	}

	if licenseFile != "" {
		onStatus("Reading repository license...")
		if err := s.scanLicense(repo, licenseFile, &result, ctx); err != nil {
			if models.IsFatalFetchError(err) {
				return scannermodels.DiscoveryResult{}, err
			}
			onStatus("Could not determine the repository license")
		}
	}

	result.Dependencies = registry.Snapshot()
	onStatus(fmt.Sprintf("Discovery complete, %d dependencies found", len(result.Dependencies)))

	return result, nil
}

func (s *Scanner) scanManifests(repo scannermodels.RepoRef, manifestFiles []string,
	registry *DependencyRegistry, result *scannermodels.DiscoveryResult, ctx context.Context) error {
	files, err := s.fetchFiles(repo, manifestFiles, ctx)
	if err != nil {
		return err
	}

	extraction, err := s.extractor.ExtractManifestDependencies(concatFiles(files), ctx)
	if err != nil {
		return err
	}

	if extraction.ToolchainInfo != "" {
		result.ToolchainInfo = extraction.ToolchainInfo
	}
	registry.Add(toRecords(extraction.Dependencies, discoverysources.BuildManifest)...)

	return nil
}

// scanSourceFiles processes batches strictly in order, one extraction call
// per batch. A failed batch counts as zero dependencies found and must not
// abort the ones after it.
func (s *Scanner) scanSourceFiles(repo scannermodels.RepoRef, sourceFiles []string,
	registry *DependencyRegistry, onStatus scannermodels.StatusSink, ctx context.Context) error {
	totalBatches := (len(sourceFiles) + batchSize - 1) / batchSize

	for start := 0; start < len(sourceFiles); start += batchSize {
		end := start + batchSize
		if end > len(sourceFiles) {
			end = len(sourceFiles)
		}

		onStatus(fmt.Sprintf("Scanning source files, batch %d of %d...", start/batchSize+1, totalBatches))

		if err := s.scanSourceBatch(repo, sourceFiles[start:end], registry, ctx); err != nil {
			if models.IsFatalFetchError(err) {
				return err
			}
			onStatus("Batch failed, moving on to the next one")
		}
	}

	return nil
}

func (s *Scanner) scanSourceBatch(repo scannermodels.RepoRef, batch []string,
	registry *DependencyRegistry, ctx context.Context) error {
	files, err := s.fetchFiles(repo, batch, ctx)
	if err != nil {
		return err
	}

	extraction, err := s.extractor.ExtractSourceDependencies(concatFiles(files), registry.Names(), ctx)
	if err != nil {
		return err
	}

	registry.Add(toRecords(extraction.Dependencies, discoverysources.SourceScan)...)

	return nil
}

func (s *Scanner) scanLicense(repo scannermodels.RepoRef, licenseFile string,
	result *scannermodels.DiscoveryResult, ctx context.Context) error {
	content, err := s.client.GetFileContent(repo.Owner, repo.Repo, licenseFile, ctx)
	if err != nil {
		return err
	}

	licenseInfo, err := s.extractor.ExtractLicense(extensions.TruncateRunes(content, maxContentRunes), ctx)
	if err != nil {
		return err
	}

	result.RootLicenseInfo = &licenseInfo

	return nil
}

// fetchFiles pulls every file in the batch concurrently, the client spaces
// the actual requests so the fan out only overlaps wait time. Results keep
// the callers ordering.
func (s *Scanner) fetchFiles(repo scannermodels.RepoRef, paths []string, ctx context.Context) ([]models.FetchedFile, error) {
	files := make([]models.FetchedFile, len(paths))
	group, gCtx := errgroup.WithContext(ctx)

	for i, path := range paths {
		group.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()

			default:
				content, err := s.client.GetFileContent(repo.Owner, repo.Repo, path, gCtx)
				if err != nil {
					return err
				}

				files[i] = models.FetchedFile{
					Path:    path,
					Content: extensions.TruncateRunes(content, maxContentRunes),
				}

				return nil
			}
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

func partitionTree(tree models.GithubTreeResponse) (sourceFiles []string, manifestFiles []string, licenseFile string) {
	for _, entry := range tree.Tree {
		if entry.Type != "blob" {
			continue
		}

		lowerPath := strings.ToLower(entry.Path)

		if isSourceFile(lowerPath) {
			sourceFiles = append(sourceFiles, entry.Path)
			continue
		}

		if _, ok := manifestFileNames[baseName(lowerPath)]; ok {
			manifestFiles = append(manifestFiles, entry.Path)
			continue
		}

		// only the root license counts, first match wins
		if licenseFile == "" && strings.HasPrefix(lowerPath, "license") {
			licenseFile = entry.Path
		}
	}

	return sourceFiles, manifestFiles, licenseFile
}

func isSourceFile(lowerPath string) bool {
	for _, extension := range sourceExtensions {
		if strings.HasSuffix(lowerPath, extension) {
			return true
		}
	}

	return false
}

func baseName(path string) string {
	if slash := strings.LastIndex(path, "/"); slash >= 0 {
		return path[slash+1:]
	}

	return path
}

func concatFiles(files []models.FetchedFile) string {
	var builder strings.Builder
	for _, file := range files {
		builder.WriteString(fmt.Sprintf("// File: %s\n", file.Path))
		builder.WriteString(file.Content)
		builder.WriteString("\n\n")
	}

	return builder.String()
}

func toRecords(hits []scannermodels.DependencyHit, source string) []scannermodels.DependencyRecord {
	records := make([]scannermodels.DependencyRecord, 0, len(hits))
	for _, hit := range hits {
		records = append(records, scannermodels.DependencyRecord{
			Name:            hit.Name,
			SourceUrl:       hit.Url,
			DiscoverySource: source,
		})
	}

	return records
}
