package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/basebuilder/pkg/types"
	"github.com/go-gl/mathgl/mgl32"
)

const validCatalog = `
parts:
  - id: room
    displayName: Room
    icon: assets/icons/room_small.png
    partType: Room
    size: [4, 3, 4]
    prefab:
      renderer:
        color: "#C8B48C"
      colliders:
        - center: [0, 1.5, 0]
          size: [4, 3, 4]
  - id: hall
    partType: corridor
    gridSnapSize: 2
    size: [2, 3, 4]
  - id: crate
    displayName: Crate
    partType: Decoration
    size: [1, 1, 1]
    prefab:
      renderer:
        size: [0.8, 0.8, 0.8]
        color: "#A0643C"
`

func TestLoadCatalog(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(validCatalog), 0644); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	if len(catalog.Parts) != 3 {
		t.Fatalf("Expected 3 parts, got %d", len(catalog.Parts))
	}

	// 保持文件中的顺序
	if catalog.Parts[0].ID != "room" || catalog.Parts[2].ID != "crate" {
		t.Errorf("unexpected order: %s, %s", catalog.Parts[0].ID, catalog.Parts[2].ID)
	}

	room, ok := catalog.Get("room")
	if !ok {
		t.Fatal("room not found")
	}
	if room.Size != (mgl32.Vec3{4, 3, 4}) {
		t.Errorf("room size: expected [4 3 4], got %v", room.Size)
	}
	if room.DefaultMaterial() == nil || room.DefaultMaterial().Color.R != 0xC8 {
		t.Errorf("room default material not resolved: %v", room.DefaultMaterial())
	}
	if len(room.Prefab.Colliders) != 1 {
		t.Errorf("room colliders: expected 1, got %d", len(room.Prefab.Colliders))
	}

	hall := catalog.GetBuildingData("hall")
	if hall == nil {
		t.Fatal("hall not found")
	}
	if hall.DisplayName != "hall" {
		t.Errorf("display name should default to id, got %q", hall.DisplayName)
	}
	if hall.PartType != types.PartCorridor {
		t.Errorf("hall part type: expected Corridor, got %v", hall.PartType)
	}
	if hall.DefaultMaterial() != nil {
		t.Error("prefab without renderer should have no default material")
	}

	crate, _ := catalog.Get("crate")
	if crate.RendererSize() != (mgl32.Vec3{0.8, 0.8, 0.8}) {
		t.Errorf("crate renderer size: got %v", crate.RendererSize())
	}
	if room.RendererSize() != room.Size {
		t.Errorf("renderer size should default to part size, got %v", room.RendererSize())
	}

	if catalog.GetBuildingData("missing") != nil {
		t.Error("unknown id should resolve to nil")
	}
}

func TestCatalogFilter(t *testing.T) {
	catalog, err := ParseCatalog([]byte(validCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	tests := []struct {
		partType types.PartType
		want     []string
	}{
		{types.PartRoom, []string{"room"}},
		{types.PartCorridor, []string{"hall"}},
		{types.PartDecoration, []string{"crate"}},
	}
	for _, tt := range tests {
		t.Run(tt.partType.String(), func(t *testing.T) {
			got := catalog.Filter(tt.partType)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%v) returned %d parts, want %d", tt.partType, len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("Filter(%v)[%d] = %s, want %s", tt.partType, i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestParseCatalogInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"空目录", "parts: []", "at least one part"},
		{"缺少ID", "parts:\n  - size: [1, 1, 1]", "id is required"},
		{"重复ID", "parts:\n  - id: a\n    size: [1, 1, 1]\n  - id: a\n    size: [1, 1, 1]", "duplicate id"},
		{"尺寸为零", "parts:\n  - id: a\n    size: [1, 0, 1]", "size must be positive"},
		{"负吸附尺寸", "parts:\n  - id: a\n    size: [1, 1, 1]\n    gridSnapSize: -1", "gridSnapSize"},
		{"未知类型", "parts:\n  - id: a\n    size: [1, 1, 1]\n    partType: Tower", "unknown part type"},
		{"颜色非法", "parts:\n  - id: a\n    size: [1, 1, 1]\n    prefab:\n      renderer:\n        color: red", "invalid color"},
		{"碰撞体尺寸非法", "parts:\n  - id: a\n    size: [1, 1, 1]\n    prefab:\n      colliders:\n        - size: [0, 1, 1]", "collider 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q should contain %q", err, tt.errPart)
			}
		})
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBundledCatalog(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join("..", "..", DefaultCatalogPath))
	if err != nil {
		t.Fatalf("bundled catalog should load: %v", err)
	}
	for _, pt := range types.AllPartTypes() {
		if len(catalog.Filter(pt)) == 0 {
			t.Errorf("bundled catalog has no %v parts", pt)
		}
	}
}
