package dpss

import (
	"sort"

	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// HandoffManager recovers the column share of every target VoteID from raw
// row shares handed off by other vote-holders, used when a node needs an
// auxiliary matrix column it was not dealt directly (e.g. rebuilding a
// signing share after a missed reshare round).
type HandoffManager struct {
	targets        []ids.VoteID
	targetSet      map[ids.VoteID]bool
	receivedShares map[ids.VoteID][]curve.Scalar // keyed by sender
	senderOrder    []ids.VoteID
	rowVotesThreshold int
}

// NewHandoffManager returns a manager recovering targets's column shares,
// completing once rowVotesThreshold distinct senders have contributed.
func NewHandoffManager(targets []ids.VoteID, rowVotesThreshold int) *HandoffManager {
	sorted := append([]ids.VoteID(nil), targets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	set := make(map[ids.VoteID]bool, len(sorted))
	for _, v := range sorted {
		set[v] = true
	}
	return &HandoffManager{
		targets:           sorted,
		targetSet:         set,
		receivedShares:    make(map[ids.VoteID][]curve.Scalar),
		rowVotesThreshold: rowVotesThreshold,
	}
}

// ReceiveShare validates sender's row of shares (one per target, in target
// order) against lastMatrix's corresponding entries, then records it.
// Returns true once enough distinct senders have contributed to recover
// every target's column share.
func (h *HandoffManager) ReceiveShare(lastMatrix *curve.ElementMatrix, sender ids.VoteID, shares []curve.Scalar) (bool, error) {
	if _, already := h.receivedShares[sender]; already {
		return false, ErrDuplicatedHandoffShare
	}
	if len(shares) != len(h.targets) {
		return false, ErrIncorrectHandoffLength
	}
	if h.targetSet[sender] {
		return false, ErrIncorrectHandoffSender
	}

	for i, target := range h.targets {
		expected, err := lastMatrix.Get(int(sender), int(target))
		if err != nil {
			return false, err
		}
		actual := curve.ScalarBaseMul(shares[i])
		if !expected.Equal(actual) {
			return false, ErrIncorrectHandoffShare
		}
	}

	h.receivedShares[sender] = append([]curve.Scalar(nil), shares...)
	h.senderOrder = append(h.senderOrder, sender)
	return len(h.receivedShares) >= h.rowVotesThreshold, nil
}

// ConstructColShare interpolates each target's column share from the
// collected sender rows, returning the reconstructed scalar per target.
func (h *HandoffManager) ConstructColShare() (map[ids.VoteID]curve.Scalar, error) {
	senders := append([]ids.VoteID(nil), h.senderOrder...)
	sort.Slice(senders, func(i, j int) bool { return senders[i] < senders[j] })

	xs := make([]curve.Scalar, len(senders))
	for i, s := range senders {
		xs[i] = ids.NumToIdentifier(uint64(s))
	}

	out := make(map[ids.VoteID]curve.Scalar, len(h.targets))
	for ti, target := range h.targets {
		ys := make([]curve.Scalar, len(senders))
		for si, s := range senders {
			ys[si] = h.receivedShares[s][ti]
		}
		value, err := curve.InterpolateAndEvaluate(xs, ys, nil, curve.ScalarZero())
		if err != nil {
			return nil, err
		}
		out[target] = value
	}
	return out, nil
}
