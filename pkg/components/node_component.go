package components

// NodeComponent 场景节点的名称和标签
type NodeComponent struct {
	Name string
	Tag  string
}
