package frost

import (
	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// EpochState is the signing-side state machine for one FROST epoch: it
// wraps a SignManager and enforces the ordering spec §4.K requires — new
// nodes register nonce pre-commitments only before StartRound (registered,
// still-valid nodes may top up afterwards), sign tasks only after.
type EpochState struct {
	manager *SignManager
	started bool
	round   uint64
}

// NewEpochState builds the signing state machine for ctx with the epoch's
// initial signer-group membership. A sign task times out after ttlRounds
// RoundTicks without completing.
func NewEpochState(ctx *Context, initialNodes []ids.NodeID, ttlRounds uint64) *EpochState {
	return &EpochState{manager: NewSignManager(ctx, initialNodes, ttlRounds)}
}

// ReceiveNonceCommitments accepts node's pre-committed nonce batch. Before
// StartRound, any node may register this way and is admitted into the
// signer group; afterward, only nodes that registered before the round
// started may top up their stream, and only while still a valid group
// member.
func (s *EpochState) ReceiveNonceCommitments(node ids.NodeID, commitments []SigningCommitments) error {
	acceptNewNode := !s.started
	if err := s.manager.MakeNonceCommitments(node, commitments); err != nil {
		return err
	}
	if acceptNewNode {
		s.manager.Group().InsertNode(node)
	}
	return nil
}

// StartRound's first call triggers the signer group's aggregated verifying
// share computation; subsequent calls just advance the current round.
func (s *EpochState) StartRound(round uint64) error {
	if !s.started {
		if err := s.manager.StartRound(round); err != nil {
			return err
		}
		s.started = true
		return nil
	}
	s.manager.currentRound = round
	return nil
}

// ReceiveSignTask begins signing message, returning the new task's id so
// the caller can route ReceiveSignatureShare calls against it. Fails with
// ErrEpochNotStart if StartRound has not yet run.
func (s *EpochState) ReceiveSignTask(message []byte) (SignTaskID, *SignTask, error) {
	if !s.started {
		return SignTaskID{}, nil, ErrEpochNotStart
	}
	return s.manager.Sign(message)
}

// ReceiveSignatureShare routes a node's aggregated signature share to its
// sign task. See SignOutcome for the three possible results.
func (s *EpochState) ReceiveSignatureShare(taskID SignTaskID, node ids.NodeID, share curve.Scalar) (SignOutcome, error) {
	return s.manager.SubmitSignatureShare(taskID, node, share)
}

// RecycleTimeoutSignTasks drains expired sign tasks for the current round
// and opens fresh tasks (with new nonce sets) for each.
func (s *EpochState) RecycleTimeoutSignTasks() ([]SignTaskID, error) {
	return s.manager.RecycleTimeoutSignTasks()
}

// RemoveNodes ejects nodes from the live signer group (e.g. on detected
// fault), recomputing aggregated verifying shares synchronously.
func (s *EpochState) RemoveNodes(nodes []ids.NodeID) error {
	return s.manager.Group().RemoveNodes(nodes)
}
