// Package ids defines the committee's node and vote identifiers and their
// mapping onto secp256k1 scalar evaluation points.
package ids

import (
	"fmt"
	"sort"

	"threshold.network/promise/curve"
)

// NodeID identifies a committee member. Always > 0; 0 is not a valid node.
type NodeID uint16

// VoteID identifies a single evaluation point on the secret polynomial.
// VoteIDs are unique across the whole committee. VoteID 0 is reserved for
// the secret's own evaluation point and is never assigned to a holder.
type VoteID uint64

// Identifier is a VoteID or NodeID embedded into the scalar field as an
// evaluation point.
type Identifier = curve.Scalar

// NumToIdentifier embeds an integer identifier (a NodeID or VoteID) as a
// scalar-field evaluation point: num_to_identifier(k) = Scalar(k).
func NumToIdentifier(k uint64) Identifier {
	return curve.ScalarFromUint64(k)
}

// SecretIdentifier is the reserved evaluation point (x=0) denoting the
// secret itself, never assigned to any share-holder.
func SecretIdentifier() Identifier {
	return curve.ScalarZero()
}

// VoteGroup is the immutable, ordered mapping from NodeID to the VoteIDs it
// holds. Σ|votes(node)| = TOTAL_VOTES across the committee, and VoteID sets
// across nodes are disjoint.
type VoteGroup struct {
	nodes    []NodeID
	byNode   map[NodeID][]VoteID
	holderOf map[VoteID]NodeID
}

// NewVoteGroup builds a VoteGroup from a NodeID -> VoteIDs mapping. Vote ID
// lists are copied and sorted ascending; nodes are iterated in ascending
// NodeID order by every VoteGroup method. Returns an error if any VoteID is
// 0 (reserved) or assigned to more than one node.
func NewVoteGroup(votesByNode map[NodeID][]VoteID) (*VoteGroup, error) {
	nodes := make([]NodeID, 0, len(votesByNode))
	byNode := make(map[NodeID][]VoteID, len(votesByNode))
	holderOf := make(map[VoteID]NodeID)

	for node, votes := range votesByNode {
		if node == 0 {
			return nil, fmt.Errorf("ids: node id 0 is not valid")
		}
		sorted := append([]VoteID(nil), votes...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		for _, v := range sorted {
			if v == 0 {
				return nil, fmt.Errorf("ids: vote id 0 is reserved for the secret")
			}
			if owner, exists := holderOf[v]; exists {
				return nil, fmt.Errorf("ids: vote %d assigned to both node %d and node %d", v, owner, node)
			}
			holderOf[v] = node
		}
		nodes = append(nodes, node)
		byNode[node] = sorted
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	return &VoteGroup{nodes: nodes, byNode: byNode, holderOf: holderOf}, nil
}

// Nodes returns the committee's NodeIDs in ascending order.
func (g *VoteGroup) Nodes() []NodeID {
	out := make([]NodeID, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Votes returns the ascending VoteIDs held by node, or an empty slice if
// node is not a member of the group.
func (g *VoteGroup) Votes(node NodeID) []VoteID {
	votes := g.byNode[node]
	out := make([]VoteID, len(votes))
	copy(out, votes)
	return out
}

// HolderOf returns the node holding vote, and whether it was found.
func (g *VoteGroup) HolderOf(vote VoteID) (NodeID, bool) {
	n, ok := g.holderOf[vote]
	return n, ok
}

// TotalVotes returns the sum of every node's vote count.
func (g *VoteGroup) TotalVotes() int {
	return len(g.holderOf)
}

// AllVotes returns every VoteID in the group, in ascending order.
func (g *VoteGroup) AllVotes() []VoteID {
	out := make([]VoteID, 0, len(g.holderOf))
	for _, node := range g.nodes {
		out = append(out, g.byNode[node]...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Committee-wide vote-weight constants (spec §6).
const (
	TotalVotes        = 300
	FrostSignVotes    = 126
	ProactiveColVotes = 126
	ProactiveRowVotes = 126
)

// ByzantineThreshold returns ceil(n/3)+1, the BFT liveness threshold in
// votes for a committee of n total votes.
func ByzantineThreshold(totalVotes int) int {
	return (totalVotes+2)/3 + 1
}
