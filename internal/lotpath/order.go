// Package lotpath linearizes a lot trace into the chronological sequence of
// nodes the lot passed through.
package lotpath

import (
	"slices"
	"strings"

	"github.com/vanshika/lottrace/internal/domain"
)

// Order walks links in timestamp order and returns the visited nodes.
//
// The path starts at the source of the earliest link and then follows every
// link target. Links pointing at unknown nodes are skipped, and a node is not
// repeated back to back, although it may reappear later in the path. When
// there are no links the path is the first supplied node. If the earliest
// source is unknown the path starts at the first resolvable target.
//
// Order never fails and does not modify its inputs.
func Order(nodes []domain.Node, links []domain.Link) []domain.Node {
	byID := make(map[domain.NodeID]domain.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	if len(links) == 0 {
		if len(nodes) == 0 {
			return nil
		}
		return []domain.Node{nodes[0]}
	}

	sorted := slices.Clone(links)
	slices.SortStableFunc(sorted, func(a, b domain.Link) int {
		return strings.Compare(a.Timestamp, b.Timestamp)
	})

	path := make([]domain.Node, 0, len(sorted)+1)
	if start, ok := byID[sorted[0].Source]; ok {
		path = append(path, start)
	}
	for _, link := range sorted {
		target, ok := byID[link.Target]
		if !ok {
			continue
		}
		if len(path) > 0 && path[len(path)-1].ID == target.ID {
			continue
		}
		path = append(path, target)
	}
	return path
}
