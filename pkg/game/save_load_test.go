package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建用于测试的 gdata Manager
func createTestGdataManager(t *testing.T, testName string) *gdata.Manager {
	appName := fmt.Sprintf("basebuilder_test_%s_%d", testName, time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	// 注册清理函数，测试结束后删除测试目录
	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			testDir := filepath.Join(homeDir, ".local", "share", appName)
			os.RemoveAll(testDir)
		}
	})

	return manager
}

func TestSaveLoadMissingFile(t *testing.T) {
	sl := NewSaveLoad(&memoryStore{}, testEntries(), nil)
	called := false
	sl.OnLoadGame(func(*SaveData) { called = true })

	if err := sl.Load(); err != nil {
		t.Fatalf("missing save should not be an error: %v", err)
	}
	if called {
		t.Error("load handlers must not fire when the save file is missing")
	}
}

func TestSaveLoadNotifiesInOrder(t *testing.T) {
	store := &memoryStore{}
	sl := NewSaveLoad(store, testEntries(), nil)

	var order []string
	sl.OnSaveGame(func() { order = append(order, "save") })
	sl.OnLoadGame(func(*SaveData) { order = append(order, "first") })
	unsubscribe := sl.OnLoadGame(func(*SaveData) { order = append(order, "second") })
	sl.OnLoadGame(func(*SaveData) { order = append(order, "third") })

	if err := sl.Save(NewSaveData()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	unsubscribe()
	if err := sl.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"save", "first", "third"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestSaveGameManagerRoundTrip(t *testing.T) {
	entries := testEntries()
	store := &memoryStore{}
	manager := NewSaveGameManager(NewSaveLoad(store, entries, nil), nil)
	defer manager.Close()

	if len(manager.Data().Buildings) != 0 {
		t.Fatal("snapshot should start empty")
	}

	manager.Data().AddBuilding(NewBuildingSaveData("Room - (5,0,8)", entries["room"], mgl32.Vec3{5, 0, 8}, mgl32.QuatIdent()))
	if err := manager.SaveData(); err != nil {
		t.Fatalf("SaveData failed: %v", err)
	}
	if store.writes != 1 {
		t.Errorf("expected 1 write, got %d", store.writes)
	}

	before := manager.Data()
	if err := manager.TryLoadData(); err != nil {
		t.Fatalf("TryLoadData failed: %v", err)
	}
	if manager.Data() == before {
		t.Error("load should replace the snapshot wholesale")
	}
	if len(manager.Data().Buildings) != 1 {
		t.Errorf("expected 1 record after reload, got %d", len(manager.Data().Buildings))
	}

	// 再次保存不会产生重复记录
	if err := manager.SaveData(); err != nil {
		t.Fatalf("SaveData failed: %v", err)
	}
	if err := manager.TryLoadData(); err != nil {
		t.Fatalf("TryLoadData failed: %v", err)
	}
	if len(manager.Data().Buildings) != 1 {
		t.Errorf("expected 1 record after second reload, got %d", len(manager.Data().Buildings))
	}
}

func TestSaveGameManagerCloseStopsUpdates(t *testing.T) {
	store := &memoryStore{}
	sl := NewSaveLoad(store, testEntries(), nil)
	manager := NewSaveGameManager(sl, nil)
	if err := sl.Save(NewSaveData()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	before := manager.Data()
	manager.Close()
	if err := sl.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if manager.Data() != before {
		t.Error("closed manager should not receive load events")
	}
}

func TestGdataSaveStore(t *testing.T) {
	manager := createTestGdataManager(t, "store")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	store := NewGdataSaveStore(manager, "SaveGame.sav", nil)
	if _, err := store.ReadSave(); !errors.Is(err, ErrNoSaveFile) {
		t.Fatalf("expected ErrNoSaveFile, got %v", err)
	}
	if err := store.WriteSave([]byte(`{"buildingSaveData":[]}`)); err != nil {
		t.Fatalf("WriteSave failed: %v", err)
	}
	if err := store.WriteSave([]byte(`{"buildingSaveData":null}`)); err != nil {
		t.Fatalf("WriteSave failed: %v", err)
	}
	data, err := store.ReadSave()
	if err != nil {
		t.Fatalf("ReadSave failed: %v", err)
	}
	if string(data) != `{"buildingSaveData":null}` {
		t.Errorf("save should be overwritten, got %s", data)
	}
}

func TestGdataSaveStoreDegraded(t *testing.T) {
	store := NewGdataSaveStore(nil, "SaveGame.sav", nil)
	if !store.Degraded() {
		t.Fatal("nil manager should be degraded")
	}
	if err := store.WriteSave([]byte("x")); err != nil {
		t.Errorf("degraded write should not fail: %v", err)
	}
	if _, err := store.ReadSave(); !errors.Is(err, ErrNoSaveFile) {
		t.Errorf("degraded read should report missing save, got %v", err)
	}
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		slot string
		want string
	}{
		{"SaveGame.sav", "SaveGame_sav"},
		{"slot-1", "slot-1"},
		{"", "save"},
	}
	for _, tt := range tests {
		if got := propertyName(tt.slot); got != tt.want {
			t.Errorf("propertyName(%q) = %q, want %q", tt.slot, got, tt.want)
		}
	}
}

func TestSQLiteSaveStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "basebuilder.db")
	store, err := NewSQLiteSaveStore(path, "SaveGame.sav")
	if err != nil {
		t.Fatalf("NewSQLiteSaveStore failed: %v", err)
	}
	defer store.Close()

	if _, err := store.ReadSave(); !errors.Is(err, ErrNoSaveFile) {
		t.Fatalf("expected ErrNoSaveFile, got %v", err)
	}
	if err := store.WriteSave([]byte("first")); err != nil {
		t.Fatalf("WriteSave failed: %v", err)
	}
	if err := store.WriteSave([]byte("second")); err != nil {
		t.Fatalf("WriteSave failed: %v", err)
	}
	data, err := store.ReadSave()
	if err != nil {
		t.Fatalf("ReadSave failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("save should be overwritten, got %s", data)
	}

	// 重新打开后数据仍在
	store.Close()
	reopened, err := NewSQLiteSaveStore(path, "SaveGame.sav")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if data, err := reopened.ReadSave(); err != nil || string(data) != "second" {
		t.Errorf("reopened store returned %q, %v", data, err)
	}
}

func TestSaveLoadWithSQLite(t *testing.T) {
	entries := testEntries()
	store, err := NewSQLiteSaveStore(filepath.Join(t.TempDir(), "game.db"), "SaveGame.sav")
	if err != nil {
		t.Fatalf("NewSQLiteSaveStore failed: %v", err)
	}
	defer store.Close()

	manager := NewSaveGameManager(NewSaveLoad(store, entries, nil), nil)
	manager.Data().AddBuilding(NewBuildingSaveData("Corridor - (1,0,2)", entries["corridor"], mgl32.Vec3{1, 0, 2}, mgl32.QuatIdent()))
	if err := manager.SaveData(); err != nil {
		t.Fatalf("SaveData failed: %v", err)
	}

	other := NewSaveGameManager(NewSaveLoad(store, entries, nil), nil)
	if err := other.TryLoadData(); err != nil {
		t.Fatalf("TryLoadData failed: %v", err)
	}
	if len(other.Data().Buildings) != 1 || other.Data().Buildings[0].AssignedData != entries["corridor"] {
		t.Errorf("unexpected snapshot after reload: %+v", other.Data().Buildings)
	}
}
