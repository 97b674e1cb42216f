package scannerService

import (
	"testing"

	discoverysources "github.com/RobsonDevCode/firmscan/internal/constants/discoverySources"
	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_FirstDiscoveryWins(t *testing.T) {
	registry := NewDependencyRegistry()

	registry.Add(scannermodels.DependencyRecord{Name: "Foo", DiscoverySource: discoverysources.SourceScan})
	registry.Add(scannermodels.DependencyRecord{Name: "foo", SourceUrl: "https://github.com/foo/foo", DiscoverySource: discoverysources.BuildManifest})

	snapshot := registry.Snapshot()
	assert.Len(t, snapshot, 1)
	assert.Equal(t, "Foo", snapshot[0].Name)
	assert.Equal(t, discoverysources.SourceScan, snapshot[0].DiscoverySource)
}

func TestRegistry_TrimsAndLowercasesKey(t *testing.T) {
	registry := NewDependencyRegistry()

	registry.Add(scannermodels.DependencyRecord{Name: "ArduinoJson", DiscoverySource: discoverysources.BuildManifest})
	registry.Add(scannermodels.DependencyRecord{Name: "  arduinojson  ", DiscoverySource: discoverysources.SourceScan})

	assert.Len(t, registry.Snapshot(), 1)
	assert.True(t, registry.Contains("ARDUINOJSON"))
}

func TestRegistry_PreservesInsertionOrder(t *testing.T) {
	registry := NewDependencyRegistry()

	names := []string{"LibC", "LibA", "LibB"}
	for _, name := range names {
		registry.Add(scannermodels.DependencyRecord{Name: name, DiscoverySource: discoverysources.SourceScan})
	}

	assert.Equal(t, names, registry.Names())
}

func TestRegistry_SkipsEmptyNames(t *testing.T) {
	registry := NewDependencyRegistry()

	registry.Add(
		scannermodels.DependencyRecord{Name: "   "},
		scannermodels.DependencyRecord{Name: ""},
		scannermodels.DependencyRecord{Name: "LibA", DiscoverySource: discoverysources.SourceScan},
	)

	assert.Len(t, registry.Snapshot(), 1)
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	registry := NewDependencyRegistry()
	registry.Add(scannermodels.DependencyRecord{Name: "LibA", DiscoverySource: discoverysources.SourceScan})

	snapshot := registry.Snapshot()
	snapshot[0].Name = "changed"

	assert.Equal(t, "LibA", registry.Snapshot()[0].Name)
}
