package shortestpaths

import "container/heap"

// item is one entry in priorityQueue: a state with the distance it was
// pushed at. Stale entries (superseded by a later, smaller push for the
// same state) are left in place and skipped on pop — the same
// lazy-decrease-key idiom dijkstra.nodePQ uses for its binary heap.
type item struct {
	dist  Cost
	state int
}

// priorityQueue is a min-heap of *item ordered by dist ascending.
type priorityQueue []*item

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(*item)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return it
}

// bucketQueue wraps priorityQueue behind push/pop/empty/clear, matching
// the original implementation's AdaptiveQueue interface.
type bucketQueue struct {
	pq priorityQueue
}

func (q *bucketQueue) push(dist Cost, state int) {
	heap.Push(&q.pq, &item{dist: dist, state: state})
}

func (q *bucketQueue) pop() (Cost, int) {
	it := heap.Pop(&q.pq).(*item)
	return it.dist, it.state
}

func (q *bucketQueue) empty() bool { return q.pq.Len() == 0 }

func (q *bucketQueue) clear() { q.pq = q.pq[:0] }
