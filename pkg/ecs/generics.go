package ecs

import "reflect"

// typeOf 返回泛型参数 T 对应的组件类型键
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// GetComponent 以类型安全的方式获取组件
//
// 用法：
//
//	tr, ok := ecs.GetComponent[*components.TransformComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, typeOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// AddComponent 以类型安全的方式添加组件
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.AddComponent(id, component)
}

// RemoveComponent 以类型安全的方式移除组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeOf[T]())
}

// HasComponent 以类型安全的方式检查组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeOf[T]())
}

// GetEntitiesWith1 查询拥有组件 T1 的实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[T1]())
}

// GetEntitiesWith2 查询同时拥有组件 T1、T2 的实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[T1](), typeOf[T2]())
}

// FindAncestorWith 从 id 开始沿父链向上查找第一个拥有组件 T 的实体（包含自身）
// 找不到时返回 0
func FindAncestorWith[T any](em *EntityManager, id EntityID) EntityID {
	for curr := id; curr != 0; curr = em.GetParent(curr) {
		if HasComponent[T](em, curr) {
			return curr
		}
	}
	return 0
}
