package dependencytree

import (
	"fmt"
	"strconv"
	"strings"

	discoverysources "github.com/RobsonDevCode/firmscan/internal/constants/discoverySources"
	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
)

// DependencyNode is one entry in the dependency tree. Path and Level are
// positional identity assigned at construction and never change, the path
// is the only handle callers use to address a node later. The tree is never
// mutated in place, UpdateAt returns a new root and anyone still holding an
// old one keeps a consistent snapshot.
type DependencyNode struct {
	Name            string
	Url             string
	DiscoverySource string
	Path            string
	Level           int
	IsLoading       bool
	IsExpanded      bool
	Children        []*DependencyNode
	Assessment      *scannermodels.RiskAssessment
}

// NewRoot creates the tree root for a scanned repository, path "0".
func NewRoot(name string, url string) *DependencyNode {
	return &DependencyNode{
		Name:            name,
		Url:             url,
		DiscoverySource: discoverysources.RootRepository,
		Path:            "0",
		Level:           0,
		IsExpanded:      true,
	}
}

// WithChildren returns the node with children built from the given records,
// appended after any existing ones. Child paths extend the parents path
// with the sibling index, so the roots first children sit at 0-0, 0-1, ...
func WithChildren(node DependencyNode, records []scannermodels.DependencyRecord) DependencyNode {
	children := make([]*DependencyNode, len(node.Children), len(node.Children)+len(records))
	copy(children, node.Children)

	for _, record := range records {
		children = append(children, &DependencyNode{
			Name:            record.Name,
			Url:             record.SourceUrl,
			DiscoverySource: record.DiscoverySource,
			Path:            fmt.Sprintf("%s-%d", node.Path, len(children)),
			Level:           node.Level + 1,
		})
	}

	node.Children = children
	return node
}

// UpdateAt walks the path from the root, shallow copying only the nodes it
// descends into, and replaces the terminal node with mutate(old). Siblings
// off the path stay referentially shared with the previous tree. A path
// that no longer resolves is a no-op, stale paths from old snapshots are
// expected and must not blow up.
func UpdateAt(root *DependencyNode, path string, mutate func(DependencyNode) DependencyNode) *DependencyNode {
	if root == nil {
		return nil
	}

	indices := ParsePath(path)
	if len(indices) == 0 || indices[0] != 0 {
		return root
	}

	return updateNode(root, indices[1:], mutate)
}

func updateNode(node *DependencyNode, rest []int, mutate func(DependencyNode) DependencyNode) *DependencyNode {
	if len(rest) == 0 {
		updated := mutate(*node)
		// positional identity survives any mutation
		updated.Path = node.Path
		updated.Level = node.Level
		return &updated
	}

	index := rest[0]
	if index < 0 || index >= len(node.Children) {
		return node
	}

	clone := *node
	clone.Children = make([]*DependencyNode, len(node.Children))
	copy(clone.Children, node.Children)
	clone.Children[index] = updateNode(node.Children[index], rest[1:], mutate)

	return &clone
}

// FindByPath resolves a path against the given snapshot.
func FindByPath(root *DependencyNode, path string) (*DependencyNode, bool) {
	if root == nil {
		return nil, false
	}

	indices := ParsePath(path)
	if len(indices) == 0 || indices[0] != 0 {
		return nil, false
	}

	node := root
	for _, index := range indices[1:] {
		if index < 0 || index >= len(node.Children) {
			return nil, false
		}
		node = node.Children[index]
	}

	return node, true
}

// Walk visits the tree depth first in sibling order.
func Walk(root *DependencyNode, visit func(node *DependencyNode)) {
	if root == nil {
		return
	}

	visit(root)
	for _, child := range root.Children {
		Walk(child, visit)
	}
}

// ParsePath turns "0-1-2" into [0 1 2], nil when any segment is not a
// number.
func ParsePath(path string) []int {
	if path == "" {
		return nil
	}

	segments := strings.Split(path, "-")
	indices := make([]int, 0, len(segments))
	for _, segment := range segments {
		index, err := strconv.Atoi(segment)
		if err != nil {
			return nil
		}
		indices = append(indices, index)
	}

	return indices
}
