package frost

import "threshold.network/promise/ids"

// NonceCommitmentPool ("EpochNonceCommitments") is the per-epoch queue of
// (hiding, binding) nonce commitment pairs each node pre-commits, consumed
// in lockstep order across the whole signer group.
type NonceCommitmentPool struct {
	streams         map[ids.NodeID][]SigningCommitments
	registered      map[ids.NodeID]bool
	nextUnusedIndex int
	started         bool
}

// NewNonceCommitmentPool returns an empty pool, open for registration.
func NewNonceCommitmentPool() *NonceCommitmentPool {
	return &NonceCommitmentPool{
		streams:    make(map[ids.NodeID][]SigningCommitments),
		registered: make(map[ids.NodeID]bool),
	}
}

// Start closes registration: from now on, Insert only accepts top-ups for
// already-registered nodes.
func (p *NonceCommitmentPool) Start() { p.started = true }

// Insert appends commitments to node's stream. Before the epoch starts, any
// node may register this way; afterward, only nodes that registered before
// start may top up their stream, and only if group still considers them
// valid — a node ejected mid-epoch (e.g. for an invalid signature share)
// cannot keep feeding its nonce stream.
func (p *NonceCommitmentPool) Insert(node ids.NodeID, group *SignerGroup, commitments []SigningCommitments) error {
	for _, c := range commitments {
		if c.Hiding.IsIdentity() || c.Binding.IsIdentity() {
			return ErrIdentityNonceCommitment
		}
	}
	if p.started {
		if !p.registered[node] {
			return ErrTooLatePreCommit
		}
		if !group.IsValid(node) {
			return ErrEjectedNode
		}
	}
	p.registered[node] = true
	p.streams[node] = append(p.streams[node], commitments...)
	return nil
}

// PullNextCommitments extracts one commitment per currently-valid node at
// the pool's next-unused index. Nodes whose stream is exhausted at that
// index are removed from group (which may itself fail with
// ErrNotEnoughSigningShares if that drops the group below threshold); the
// pull fails with ErrNotEnoughUnusedPreCommit if fewer than two commitments
// remain after removal.
func (p *NonceCommitmentPool) PullNextCommitments(group *SignerGroup) (int, map[ids.NodeID]SigningCommitments, error) {
	idx := p.nextUnusedIndex
	result := make(map[ids.NodeID]SigningCommitments)
	var exhausted []ids.NodeID

	for _, node := range group.ValidNodes() {
		stream := p.streams[node]
		if idx < len(stream) {
			result[node] = stream[idx]
		} else {
			exhausted = append(exhausted, node)
		}
	}

	if len(exhausted) > 0 {
		if err := group.RemoveNodes(exhausted); err != nil {
			return 0, nil, err
		}
		for _, n := range exhausted {
			delete(result, n)
		}
	}

	if len(result) < 2 {
		return 0, nil, ErrNotEnoughUnusedPreCommit
	}

	p.nextUnusedIndex++
	return idx, result, nil
}
