package dag

import "container/heap"

// TopologicalSort orders the nodes with Kahn's algorithm. Among nodes that
// are ready at the same time the lowest ID goes first.
//
// If the graph contains a cycle, order holds every node that could be
// placed and remaining lists, in ascending order, the nodes that could not.
// remaining is empty for an acyclic graph.
func (g *Graph) TopologicalSort() (order []int, remaining []int) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	inDegree := make(map[int]int, len(g.nodes))
	ready := &minHeap{}
	for id, n := range g.nodes {
		inDegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			*ready = append(*ready, id)
		}
	}
	heap.Init(ready)

	order = make([]int, 0, len(g.nodes))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(int)
		order = append(order, id)
		for depID := range g.nodes[id].dependents {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				heap.Push(ready, depID)
			}
		}
	}

	if len(order) == len(g.nodes) {
		return order, nil
	}
	for _, id := range sortedKeys(inDegree) {
		if inDegree[id] > 0 {
			remaining = append(remaining, id)
		}
	}
	return order, remaining
}

// minHeap implements heap.Interface over node IDs.
type minHeap []int

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(int)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
