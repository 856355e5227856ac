package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testPositionComponent struct {
	X, Y, Z float32
}

type testNameComponent struct {
	Name string
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}
}

func TestGenericComponentAccess(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 5, Y: 0, Z: 8})

	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("Component should be found")
	}
	if pos.X != 5 || pos.Z != 8 {
		t.Errorf("Component data mismatch, got (%f, %f, %f)", pos.X, pos.Y, pos.Z)
	}

	// 泛型与反射接口使用同一个类型键
	if !em.HasComponent(id, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("Reflection lookup should see the generic component")
	}

	RemoveComponent[*testPositionComponent](em, id)
	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Component should be removed")
	}
}

func TestGetEntitiesWith2(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	AddComponent(em, id1, &testPositionComponent{})
	AddComponent(em, id1, &testNameComponent{})

	id2 := em.CreateEntity()
	AddComponent(em, id2, &testPositionComponent{})

	both := GetEntitiesWith2[*testPositionComponent, *testNameComponent](em)
	if len(both) != 1 || both[0] != id1 {
		t.Errorf("Expected only id1, got %v", both)
	}

	withPos := GetEntitiesWith1[*testPositionComponent](em)
	if len(withPos) != 2 || withPos[0] != id1 || withPos[1] != id2 {
		t.Errorf("Expected sorted [id1 id2], got %v", withPos)
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{})

	// 标记删除
	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !em.Exists(id) || !em.IsPendingDestroy(id) {
		t.Error("Entity should still exist before cleanup")
	}

	// 清理后实体消失
	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after cleanup")
	}
}

// TestDestroyCascadesToChildren 销毁父实体时子实体一并销毁
func TestDestroyCascadesToChildren(t *testing.T) {
	em := NewEntityManager()
	root := em.CreateEntity()
	child := em.CreateEntity()
	grandChild := em.CreateEntity()
	other := em.CreateEntity()

	em.SetParent(child, root)
	em.SetParent(grandChild, child)

	em.DestroyEntity(root)
	em.RemoveMarkedEntities()

	for _, id := range []EntityID{root, child, grandChild} {
		if em.Exists(id) {
			t.Errorf("Entity %d should be destroyed", id)
		}
	}
	if !em.Exists(other) {
		t.Error("Unrelated entity should survive")
	}
	if len(em.GetChildren(root)) != 0 {
		t.Error("Children index should be cleared")
	}
}

// TestDestroyListenerSeesComponents 监听器在组件被移除之前调用
func TestDestroyListenerSeesComponents(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testNameComponent{Name: "Room"})

	var seen []string
	em.AddDestroyListener(func(destroyed EntityID) {
		if name, ok := GetComponent[*testNameComponent](em, destroyed); ok {
			seen = append(seen, name.Name)
		}
	})

	em.DestroyEntity(id)
	em.DestroyEntity(id) // 重复标记不应导致重复回调
	em.RemoveMarkedEntities()

	if len(seen) != 1 || seen[0] != "Room" {
		t.Errorf("Expected listener to see [Room] once, got %v", seen)
	}
}

// TestFindAncestorWith 沿父链查找拥有指定组件的祖先
func TestFindAncestorWith(t *testing.T) {
	em := NewEntityManager()
	root := em.CreateEntity()
	AddComponent(em, root, &testNameComponent{Name: "building"})
	visual := em.CreateEntity()
	collider := em.CreateEntity()
	em.SetParent(visual, root)
	em.SetParent(collider, visual)

	if got := FindAncestorWith[*testNameComponent](em, collider); got != root {
		t.Errorf("Expected root %d, got %d", root, got)
	}
	if got := FindAncestorWith[*testNameComponent](em, root); got != root {
		t.Errorf("Expected entity itself %d, got %d", root, got)
	}

	orphan := em.CreateEntity()
	if got := FindAncestorWith[*testNameComponent](em, orphan); got != 0 {
		t.Errorf("Expected 0 for orphan, got %d", got)
	}
}

// TestSetParentReparent 重新设置父实体时更新两侧索引
func TestSetParentReparent(t *testing.T) {
	em := NewEntityManager()
	a := em.CreateEntity()
	b := em.CreateEntity()
	child := em.CreateEntity()

	em.SetParent(child, a)
	em.SetParent(child, b)

	if em.GetParent(child) != b {
		t.Errorf("Expected parent %d, got %d", b, em.GetParent(child))
	}
	if len(em.GetChildren(a)) != 0 {
		t.Error("Old parent should no longer list the child")
	}
	if kids := em.GetChildren(b); len(kids) != 1 || kids[0] != child {
		t.Errorf("New parent children mismatch: %v", kids)
	}
}
