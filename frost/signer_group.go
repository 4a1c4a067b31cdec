package frost

import (
	"sort"

	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// SignerGroup is the mutable per-epoch set of currently-valid nodes plus
// the Lagrange-collapsed "aggregated verifying shares" that let signing
// cost scale with the number of valid nodes instead of TOTAL_VOTES.
type SignerGroup struct {
	ctx        *Context
	validNodes []ids.NodeID
	validSet   map[ids.NodeID]bool

	aggregatedVerifyingShares map[ids.NodeID]curve.Element
	lagrangeCoefficients      map[ids.NodeID][]curve.Scalar
	pickedIdentifiers         map[ids.NodeID][]Identifier
	cachedDeficit             bool
}

// NewSignerGroup starts a signer group with initialNodes valid. Aggregated
// shares are not computed until EnsureAggregated (normally triggered by
// SignManager.StartRound) is called.
func NewSignerGroup(ctx *Context, initialNodes []ids.NodeID) *SignerGroup {
	sorted := append([]ids.NodeID(nil), initialNodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	set := make(map[ids.NodeID]bool, len(sorted))
	for _, n := range sorted {
		set[n] = true
	}
	return &SignerGroup{ctx: ctx, validNodes: sorted, validSet: set}
}

// ValidNodes returns the currently-valid nodes in ascending order.
func (g *SignerGroup) ValidNodes() []ids.NodeID {
	out := make([]ids.NodeID, len(g.validNodes))
	copy(out, g.validNodes)
	return out
}

// IsValid reports whether node is currently a member of the signer group.
func (g *SignerGroup) IsValid(node ids.NodeID) bool { return g.validSet[node] }

// InsertNode adds node to the group. Pre-epoch only in practice (the
// EpochState enforces that); aggregated shares are not recomputed
// here — they update lazily on the next EnsureAggregated call.
func (g *SignerGroup) InsertNode(node ids.NodeID) {
	if g.validSet[node] {
		return
	}
	g.validSet[node] = true
	g.validNodes = append(g.validNodes, node)
	sort.Slice(g.validNodes, func(i, j int) bool { return g.validNodes[i] < g.validNodes[j] })
}

// RemoveNodes drops nodes from the valid set and, if anything actually
// changed, synchronously recomputes the aggregated verifying shares (spec
// §9 open question (c)).
func (g *SignerGroup) RemoveNodes(nodes []ids.NodeID) error {
	changed := false
	for _, n := range nodes {
		if g.validSet[n] {
			delete(g.validSet, n)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	filtered := make([]ids.NodeID, 0, len(g.validNodes))
	for _, n := range g.validNodes {
		if g.validSet[n] {
			filtered = append(filtered, n)
		}
	}
	g.validNodes = filtered
	return g.updateAggregatedVerifyingShares()
}

// EnsureAggregated computes aggregated verifying shares if they have never
// been computed yet. Called by SignManager.StartRound (on EpochState's
// first StartRound) and by NewSignTask.
func (g *SignerGroup) EnsureAggregated() error {
	if g.aggregatedVerifyingShares != nil {
		return nil
	}
	return g.updateAggregatedVerifyingShares()
}

// AggregatedVerifyingShare returns node's collapsed verifying share.
func (g *SignerGroup) AggregatedVerifyingShare(node ids.NodeID) (curve.Element, bool) {
	e, ok := g.aggregatedVerifyingShares[node]
	return e, ok
}

// Lambdas returns the cached per-identifier Lagrange coefficients used to
// build node's aggregated signing share, in the same order as
// PickedIdentifiers(node).
func (g *SignerGroup) Lambdas(node ids.NodeID) []curve.Scalar {
	return g.lagrangeCoefficients[node]
}

// LambdasSnapshot returns a shallow copy of every valid node's lambda
// vector, for embedding into a freshly-constructed SignTask.
func (g *SignerGroup) LambdasSnapshot() map[ids.NodeID][]curve.Scalar {
	out := make(map[ids.NodeID][]curve.Scalar, len(g.lagrangeCoefficients))
	for k, v := range g.lagrangeCoefficients {
		out[k] = append([]curve.Scalar(nil), v...)
	}
	return out
}

// PickedIdentifiers returns the VoteID identifiers selected for node by the
// last aggregation pass, in the order its raw signing shares must be
// supplied to SignTask.Sign.
func (g *SignerGroup) PickedIdentifiers(node ids.NodeID) []Identifier {
	return g.pickedIdentifiers[node]
}

// HasDeficit reports whether the last aggregation attempt failed with
// ErrNotEnoughSigningShares, letting repeated sign requests fail fast
// without recomputing.
func (g *SignerGroup) HasDeficit() bool { return g.cachedDeficit }

// updateAggregatedVerifyingShares implements the signer-group collapsing
// algorithm: pick exactly NumSigningShares identifiers across the valid
// nodes (in ascending NodeID order, filling each node's votes
// contiguously), then replace each node's several per-vote verifying
// shares with one aggregated share such that the Schnorr verification
// equation holds with a single per-node Lagrange coefficient of 1.
func (g *SignerGroup) updateAggregatedVerifyingShares() error {
	picked, err := g.getExactSizeIdentifierGroups(g.ctx.NumSigningShares)
	if err != nil {
		g.cachedDeficit = true
		return err
	}
	g.cachedDeficit = false

	allOrigin := make([]Identifier, 0, g.ctx.NumSigningShares)
	for _, node := range g.validNodes {
		allOrigin = append(allOrigin, picked[node]...)
	}

	aggregated := make(map[ids.NodeID]curve.Element, len(picked))
	lambdas := make(map[ids.NodeID][]curve.Scalar, len(picked))
	for _, node := range g.validNodes {
		nodeIdentifiers := picked[node]
		if len(nodeIdentifiers) == 0 {
			continue
		}
		nodeLambdas := make([]curve.Scalar, len(nodeIdentifiers))
		acc := curve.Identity()
		for i, id := range nodeIdentifiers {
			lambda, err := curve.LagrangeCoefficientFor(allOrigin, id)
			if err != nil {
				return err
			}
			nodeLambdas[i] = lambda
			acc = acc.Add(g.ctx.VerifyingShares[id].ScalarMul(lambda))
		}
		aggregated[node] = acc
		lambdas[node] = nodeLambdas
	}

	g.aggregatedVerifyingShares = aggregated
	g.lagrangeCoefficients = lambdas
	g.pickedIdentifiers = picked
	return nil
}

// getExactSizeIdentifierGroups walks the valid nodes in ascending order,
// taking min(remaining, |votes(node)|) identifiers from each until n have
// been collected. Fails with ErrNotEnoughSigningShares if the valid nodes'
// combined identifiers are exhausted first.
func (g *SignerGroup) getExactSizeIdentifierGroups(n int) (map[ids.NodeID][]Identifier, error) {
	out := make(map[ids.NodeID][]Identifier)
	remaining := n
	for _, node := range g.validNodes {
		if remaining <= 0 {
			break
		}
		available := g.ctx.IdentifierGroups[node]
		take := remaining
		if take > len(available) {
			take = len(available)
		}
		out[node] = append([]Identifier(nil), available[:take]...)
		remaining -= take
	}
	if remaining > 0 {
		return nil, ErrNotEnoughSigningShares
	}
	return out, nil
}
