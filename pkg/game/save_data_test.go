package game

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSaveDataIdentity(t *testing.T) {
	entries := testEntries()
	d := NewSaveData()

	a := NewBuildingSaveData("Room - (0,0,0)", entries["room"], mgl32.Vec3{}, mgl32.QuatIdent())
	// 字段完全相同但指针不同的记录不视为重复
	b := NewBuildingSaveData("Room - (0,0,0)", entries["room"], mgl32.Vec3{}, mgl32.QuatIdent())

	if !d.AddBuilding(a) {
		t.Fatal("first add should succeed")
	}
	if d.AddBuilding(a) {
		t.Error("adding the same record twice should be ignored")
	}
	if !d.AddBuilding(b) {
		t.Error("an equal but distinct record should be added")
	}
	if len(d.Buildings) != 2 {
		t.Fatalf("expected 2 records, got %d", len(d.Buildings))
	}

	if !d.RemoveBuilding(a) {
		t.Fatal("remove should succeed")
	}
	if d.Contains(a) || !d.Contains(b) {
		t.Error("only the removed record should be gone")
	}
	if d.RemoveBuilding(a) {
		t.Error("removing a missing record should report false")
	}
	if d.AddBuilding(nil) {
		t.Error("nil record should be ignored")
	}
}

func TestEncodeDecodeSaveData(t *testing.T) {
	entries := testEntries()
	rot := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})

	d := NewSaveData()
	d.AddBuilding(NewBuildingSaveData("Room - (5,0,8)", entries["room"], mgl32.Vec3{5, 0, 8}, rot))
	d.AddBuilding(NewBuildingSaveData("Corridor - (1,0,2)", entries["corridor"], mgl32.Vec3{1, 0, 2}, mgl32.QuatIdent()))

	payload, err := EncodeSaveData(d)
	if err != nil {
		t.Fatalf("EncodeSaveData failed: %v", err)
	}

	// 字段名与存档格式一致
	var raw map[string][]map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	first := raw["buildingSaveData"][0]
	for _, key := range []string{"buildingName", "assignedData", "position", "rotation"} {
		if _, ok := first[key]; !ok {
			t.Errorf("record missing key %q", key)
		}
	}
	if string(first["assignedData"]) != `"room"` {
		t.Errorf("assignedData should be the entry id, got %s", first["assignedData"])
	}

	decoded, err := DecodeSaveData(payload, entries, nil)
	if err != nil {
		t.Fatalf("DecodeSaveData failed: %v", err)
	}
	if len(decoded.Buildings) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded.Buildings))
	}
	got := decoded.Buildings[0]
	if got.Name != "Room - (5,0,8)" || got.AssignedData != entries["room"] {
		t.Errorf("unexpected record %+v", got)
	}
	if got.Position != (mgl32.Vec3{5, 0, 8}) {
		t.Errorf("position = %v", got.Position)
	}
	if !got.Rotation.ApproxEqualThreshold(rot, 1e-5) {
		t.Errorf("rotation = %v, want %v", got.Rotation, rot)
	}
}

func TestDecodeSaveDataSkipsUnknownEntries(t *testing.T) {
	payload := `{"buildingSaveData":[
		{"buildingName":"A","assignedData":"room","position":{"x":1,"y":0,"z":1},"rotation":{"x":0,"y":0,"z":0,"w":1}},
		{"buildingName":"B","assignedData":"tower","position":{"x":2,"y":0,"z":2},"rotation":{"x":0,"y":0,"z":0,"w":1}},
		{"buildingName":"C","assignedData":"corridor","position":{"x":3,"y":0,"z":3},"rotation":{"x":0,"y":0,"z":0,"w":0}}
	]}`

	decoded, err := DecodeSaveData([]byte(payload), testEntries(), nil)
	if err != nil {
		t.Fatalf("DecodeSaveData failed: %v", err)
	}
	if len(decoded.Buildings) != 2 {
		t.Fatalf("expected unknown entry to be skipped, got %d records", len(decoded.Buildings))
	}
	if decoded.Buildings[1].Name != "C" {
		t.Errorf("unexpected order: %s", decoded.Buildings[1].Name)
	}
	// 全零四元数按单位旋转处理
	if !decoded.Buildings[1].Rotation.ApproxEqual(mgl32.QuatIdent()) {
		t.Errorf("zero rotation should become identity, got %v", decoded.Buildings[1].Rotation)
	}
}

func TestDecodeSaveDataInvalidJSON(t *testing.T) {
	_, err := DecodeSaveData([]byte("{"), testEntries(), nil)
	if err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("expected unmarshal error, got %v", err)
	}
}

func TestEncodeEmptySaveData(t *testing.T) {
	payload, err := EncodeSaveData(NewSaveData())
	if err != nil {
		t.Fatalf("EncodeSaveData failed: %v", err)
	}
	decoded, err := DecodeSaveData(payload, testEntries(), nil)
	if err != nil {
		t.Fatalf("DecodeSaveData failed: %v", err)
	}
	if len(decoded.Buildings) != 0 {
		t.Errorf("expected empty snapshot, got %d", len(decoded.Buildings))
	}
}
