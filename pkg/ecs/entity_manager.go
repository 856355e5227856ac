package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符
// 0 保留为无效ID，表示"没有实体"
type EntityID uint64

// DestroyListener 实体销毁监听器
// 在 RemoveMarkedEntities 真正移除组件之前调用，此时组件仍可读取
type DestroyListener func(id EntityID)

// EntityManager 管理所有实体、组件以及实体之间的父子关系
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]interface{}
	// 父子关系: child -> parent
	parents map[EntityID]EntityID
	// 父子关系: parent -> children（保持创建顺序）
	children map[EntityID][]EntityID
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
	// 标记集合，避免同一实体重复入队
	pendingDestroy map[EntityID]bool
	// 销毁监听器
	destroyListeners []DestroyListener
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]interface{}),
		parents:           make(map[EntityID]EntityID),
		children:          make(map[EntityID][]EntityID),
		entitiesToDestroy: make([]EntityID, 0),
		pendingDestroy:    make(map[EntityID]bool),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]interface{})
	return id
}

// Exists 检查实体是否存在（已标记删除但尚未清理的实体仍视为存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// IsPendingDestroy 检查实体是否已被标记删除
func (em *EntityManager) IsPendingDestroy(id EntityID) bool {
	return em.pendingDestroy[id]
}

// SetParent 设置实体的父实体
// parent 为 0 时解除父子关系
func (em *EntityManager) SetParent(child, parent EntityID) {
	if old, ok := em.parents[child]; ok {
		em.children[old] = removeID(em.children[old], child)
		if len(em.children[old]) == 0 {
			delete(em.children, old)
		}
		delete(em.parents, child)
	}
	if parent == 0 || parent == child {
		return
	}
	em.parents[child] = parent
	em.children[parent] = append(em.children[parent], child)
}

// GetParent 返回实体的父实体，没有父实体时返回 0
func (em *EntityManager) GetParent(id EntityID) EntityID {
	return em.parents[id]
}

// GetChildren 返回实体的直接子实体（副本）
func (em *EntityManager) GetChildren(id EntityID) []EntityID {
	kids := em.children[id]
	out := make([]EntityID, len(kids))
	copy(out, kids)
	return out
}

// DestroyEntity 标记实体待删除(不立即删除)
// 子实体会一并标记删除
func (em *EntityManager) DestroyEntity(id EntityID) {
	if !em.Exists(id) || em.pendingDestroy[id] {
		return
	}
	em.pendingDestroy[id] = true
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
	for _, child := range em.children[id] {
		em.DestroyEntity(child)
	}
}

// AddDestroyListener 注册实体销毁监听器
func (em *EntityManager) AddDestroyListener(listener DestroyListener) {
	em.destroyListeners = append(em.destroyListeners, listener)
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// RemoveMarkedEntities 清理所有标记删除的实体
// 先通知销毁监听器，再移除组件和父子关系
func (em *EntityManager) RemoveMarkedEntities() {
	if len(em.entitiesToDestroy) == 0 {
		return
	}

	// 监听器中可能再次调用 DestroyEntity，这里先取出当前批次
	batch := em.entitiesToDestroy
	em.entitiesToDestroy = make([]EntityID, 0)

	for _, id := range batch {
		for _, listener := range em.destroyListeners {
			listener(id)
		}
	}

	for _, id := range batch {
		em.SetParent(id, 0)
		delete(em.children, id)
		delete(em.components, id)
		delete(em.pendingDestroy, id)
	}
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（按ID升序，保证遍历顺序稳定）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func removeID(ids []EntityID, target EntityID) []EntityID {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
