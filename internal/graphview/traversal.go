package graphview

import (
	"errors"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
)

// ErrNoPath is returned by ShortestPath when no active-edge path
// connects the two nodes.
var ErrNoPath = errors.New("graphview: no path exists")

// DefaultMaxDepth bounds AllPaths enumeration (spec §4.5).
const DefaultMaxDepth = 8

// PathElement is either a node or an edge; a Path alternates Node, Edge,
// Node, ..., beginning and ending with a node.
type PathElement struct {
	Node *entity.Node
	Edge *entity.Edge
}

// Path is an ordered sequence of elements from one node to another.
type Path []PathElement

// PathExists reports whether any active-edge path connects a to b.
func (s *Snapshot) PathExists(a, b ids.Id) bool {
	if a == b {
		return true
	}
	visited := map[ids.Id]bool{a: true}
	queue := []ids.Id{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range s.Neighbors(cur) {
			if next == b {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// ShortestPath returns the shortest active-edge path from a to b, or
// ErrNoPath if none exists.
func (s *Snapshot) ShortestPath(a, b ids.Id) (Path, error) {
	if _, ok := s.Nodes[a]; !ok {
		return nil, ErrNoPath
	}
	if _, ok := s.Nodes[b]; !ok {
		return nil, ErrNoPath
	}
	if a == b {
		n := s.Nodes[a]
		return Path{{Node: &n}}, nil
	}

	type step struct {
		via   ids.Id // edge id used to arrive
		from  ids.Id
		found bool
	}
	came := map[ids.Id]step{a: {found: true}}
	visited := map[ids.Id]bool{a: true}
	queue := []ids.Id{a}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, eid := range s.outgoing[cur] {
			next := s.Edges[eid].Target.ID
			if !visited[next] {
				visited[next] = true
				came[next] = step{via: eid, from: cur, found: true}
				if next == b {
					queue = nil
					break
				}
				queue = append(queue, next)
			}
		}
		for _, eid := range s.incoming[cur] {
			next := s.Edges[eid].Source.ID
			if !visited[next] {
				visited[next] = true
				came[next] = step{via: eid, from: cur, found: true}
				if next == b {
					queue = nil
					break
				}
				queue = append(queue, next)
			}
		}
	}

	if !came[b].found {
		return nil, ErrNoPath
	}

	var nodeChain []ids.Id
	var edgeChain []ids.Id
	cur := b
	for cur != a {
		st := came[cur]
		nodeChain = append([]ids.Id{cur}, nodeChain...)
		edgeChain = append([]ids.Id{st.via}, edgeChain...)
		cur = st.from
	}
	nodeChain = append([]ids.Id{a}, nodeChain...)

	path := make(Path, 0, len(nodeChain)+len(edgeChain))
	for i, nid := range nodeChain {
		n := s.Nodes[nid]
		path = append(path, PathElement{Node: &n})
		if i < len(edgeChain) {
			e := s.Edges[edgeChain[i]]
			path = append(path, PathElement{Edge: &e})
		}
	}
	return path, nil
}

// AllPaths enumerates every simple path from a to b, bounded by
// maxDepth edges (0 or negative uses DefaultMaxDepth).
func (s *Snapshot) AllPaths(a, b ids.Id, maxDepth int) []Path {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if _, ok := s.Nodes[a]; !ok {
		return nil
	}
	if _, ok := s.Nodes[b]; !ok {
		return nil
	}

	var results []Path
	visited := map[ids.Id]bool{a: true}
	var nodeChain []ids.Id = []ids.Id{a}
	var edgeChain []ids.Id

	var walk func(cur ids.Id, depth int)
	walk = func(cur ids.Id, depth int) {
		if cur == b {
			results = append(results, s.materialize(nodeChain, edgeChain))
			return
		}
		if depth >= maxDepth {
			return
		}
		for _, eid := range s.outgoing[cur] {
			next := s.Edges[eid].Target.ID
			if visited[next] {
				continue
			}
			visited[next] = true
			nodeChain = append(nodeChain, next)
			edgeChain = append(edgeChain, eid)
			walk(next, depth+1)
			edgeChain = edgeChain[:len(edgeChain)-1]
			nodeChain = nodeChain[:len(nodeChain)-1]
			visited[next] = false
		}
	}
	walk(a, 0)
	return results
}

func (s *Snapshot) materialize(nodeChain, edgeChain []ids.Id) Path {
	path := make(Path, 0, len(nodeChain)+len(edgeChain))
	for i, nid := range nodeChain {
		n := s.Nodes[nid]
		path = append(path, PathElement{Node: &n})
		if i < len(edgeChain) {
			e := s.Edges[edgeChain[i]]
			path = append(path, PathElement{Edge: &e})
		}
	}
	return path
}

// AllConnectedPaths returns, for every unordered pair of active nodes
// that has a path between them, that pair's shortest path.
func (s *Snapshot) AllConnectedPaths() map[[2]ids.Id]Path {
	out := map[[2]ids.Id]Path{}
	ordered := make([]ids.Id, 0, len(s.Nodes))
	for id := range s.Nodes {
		ordered = append(ordered, id)
	}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a, b := ordered[i], ordered[j]
			path, err := s.ShortestPath(a, b)
			if err == nil {
				out[[2]ids.Id{a, b}] = path
			}
		}
	}
	return out
}
