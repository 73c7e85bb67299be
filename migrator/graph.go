// Copyright (c) 2023 IndyKite
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package migrator

import (
	"sort"
	"strconv"
)

// Graph is a directed graph of schema version transitions: vertices are
// versions appearing in any install or transition directory (plus the zero
// sentinel), edges are the directories themselves.
type Graph struct {
	// out holds the edges leaving each vertex, keyed by the vertex's
	// numeric value via its canonical string so Zero always collapses to
	// a single key regardless of "0" vs "0.00" textual form.
	out      map[string][]Edge
	vertices map[string]Version
}

// BuildGraph constructs the transition graph from a Layout's edges (§4.4).
func BuildGraph(edges []Edge) *Graph {
	g := &Graph{
		out:      make(map[string][]Edge),
		vertices: make(map[string]Version),
	}
	g.addVertex(Zero)
	for _, e := range edges {
		g.addVertex(e.From)
		g.addVertex(e.To)
		key := g.key(e.From)
		g.out[key] = append(g.out[key], e)
	}
	for key := range g.out {
		edges := g.out[key]
		sort.Slice(edges, func(i, j int) bool { return edges[i].DirName < edges[j].DirName })
		g.out[key] = edges
	}
	return g
}

// key disambiguates vertices by numeric value alone, so "0" and "0.00"
// always collapse onto the same vertex, per the Version equality invariant.
func (g *Graph) key(v Version) string {
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

func (g *Graph) addVertex(v Version) {
	key := g.key(v)
	if _, ok := g.vertices[key]; !ok {
		g.vertices[key] = v
	}
}

// HasVertex reports whether v appears anywhere in the graph.
func (g *Graph) HasVertex(v Version) bool {
	_, ok := g.vertices[g.key(v)]
	return ok
}

// HighestReachable returns the highest version V such that a path from
// current to V exists (current itself counts as reachable with zero edges).
// ok is false only if current is not a recognized vertex.
func (g *Graph) HighestReachable(current Version) (best Version, ok bool) {
	if !g.HasVertex(current) {
		return Version{}, false
	}
	best = current
	visited := map[string]bool{g.key(current): true}
	queue := []Version{current}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range g.out[g.key(v)] {
			key := g.key(e.To)
			if visited[key] {
				continue
			}
			visited[key] = true
			if best.Less(e.To) {
				best = e.To
			}
			queue = append(queue, e.To)
		}
	}
	return best, true
}

// ShortestPath computes the minimal-edge-count path of edges from "from" to
// "to" (§4.4). Ties are broken deterministically: when walking upward
// (to > from) the edge whose target sorts lower is preferred; when walking
// downward the edge whose target sorts higher is preferred; remaining ties
// break on lexicographic directory name. If from equals to, the plan is the
// empty sequence (a no-op). If no path exists, returns NoMigrationPathError.
func (g *Graph) ShortestPath(from, to Version) ([]Edge, error) {
	if from.Equal(to) {
		return nil, nil
	}
	upward := from.Less(to)

	visited := map[string]pathNode{g.key(from): {version: from}}
	queue := []Version{from}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		candidates := append([]Edge(nil), g.out[g.key(v)]...)
		sort.SliceStable(candidates, func(i, j int) bool {
			ci, cj := candidates[i], candidates[j]
			if upward {
				if !ci.To.Equal(cj.To) {
					return ci.To.Less(cj.To)
				}
			} else {
				if !ci.To.Equal(cj.To) {
					return cj.To.Less(ci.To)
				}
			}
			return ci.DirName < cj.DirName
		})

		for _, e := range candidates {
			key := g.key(e.To)
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = pathNode{version: e.To, parent: g.key(v), edge: e, hasEdge: true}
			if e.To.Equal(to) {
				return reconstructPath(visited, key), nil
			}
			queue = append(queue, e.To)
		}
	}

	return nil, &NoMigrationPathError{From: from, To: to}
}

// pathNode tracks one vertex's discovery during ShortestPath's breadth-first
// search: which edge reached it first, and from which predecessor.
type pathNode struct {
	version Version
	parent  string
	edge    Edge
	hasEdge bool
}

func reconstructPath(visited map[string]pathNode, target string) []Edge {
	var reversed []Edge
	key := target
	for {
		n := visited[key]
		if !n.hasEdge {
			break
		}
		reversed = append(reversed, n.edge)
		key = n.parent
	}
	edges := make([]Edge, len(reversed))
	for i, e := range reversed {
		edges[len(reversed)-1-i] = e
	}
	return edges
}
