// Package epoch ties the key-material setup state machine (dpss.EpochState)
// to the signing state machine (frost.EpochState): a committee advances
// through DKG/reshare on a Coordinator, and once that completes, the
// Coordinator mints the next FROST signing epoch from the resulting
// element matrix instead of leaving that handoff to caller discipline.
package epoch

import (
	"errors"

	"threshold.network/promise/curve"
	"threshold.network/promise/dpss"
	"threshold.network/promise/frost"
	"threshold.network/promise/ids"
)

// ErrSigningNotReady is returned when a signing operation is attempted
// before the key-material epoch has completed and handed off.
var ErrSigningNotReady = errors.New("epoch: signing epoch not ready, key material setup incomplete")

// ErrAlreadyHandedOff is returned by HandOff if it is called more than once
// for a given Coordinator.
var ErrAlreadyHandedOff = errors.New("epoch: epoch already handed off to signing")

// Coordinator owns one epoch's key-material state machine and, once it
// completes, the resulting signing state machine. It enforces that a
// Coordinator is used for exactly one linearizable handoff: key setup then
// signing, never both concurrently.
type Coordinator struct {
	epoch uint64
	keys  *dpss.EpochState
	sign  *frost.EpochState

	numSigningShares int
	ttlRounds        uint64
}

// NewCoordinator starts a fresh key-material epoch. lastMatrix is the prior
// epoch's completed element matrix (column 0 seeds the reshare targets once
// DKG finishes); pass an empty matrix shaped for the committee to bootstrap
// a brand-new committee via plain DKG.
func NewCoordinator(epoch uint64, voteGroup *ids.VoteGroup, lastMatrix *curve.ElementMatrix, dkgVotesThreshold, reshareVotesThreshold, numSigningShares int, ttlRounds uint64) *Coordinator {
	return &Coordinator{
		epoch:            epoch,
		keys:             dpss.NewEpochState(epoch, voteGroup, lastMatrix, dkgVotesThreshold, reshareVotesThreshold, numSigningShares),
		numSigningShares: numSigningShares,
		ttlRounds:        ttlRounds,
	}
}

// KeyState exposes the underlying key-material state machine so callers can
// drive ReceiveDkgParticipate/TryFinishDkgStage/ReceiveReshareMessage.
func (c *Coordinator) KeyState() *dpss.EpochState { return c.keys }

// IsSigningReady reports whether HandOff has produced a live signing epoch.
func (c *Coordinator) IsSigningReady() bool { return c.sign != nil }

// HandOff mints the FROST signing epoch from the completed key-material
// matrix, seeding the signer group with initialNodes. It fails with
// dpss.ErrLastEpochNotComplete if the key-material epoch has not reached
// StageComplete, and with ErrAlreadyHandedOff if called twice.
func (c *Coordinator) HandOff(initialNodes []ids.NodeID) error {
	if c.sign != nil {
		return ErrAlreadyHandedOff
	}

	ctx, err := c.keys.MakeFrostContext()
	if err != nil {
		return err
	}

	c.sign = frost.NewEpochState(ctx, initialNodes, c.ttlRounds)
	return nil
}

// SignState exposes the signing state machine after a successful HandOff.
// Returns ErrSigningNotReady beforehand.
func (c *Coordinator) SignState() (*frost.EpochState, error) {
	if c.sign == nil {
		return nil, ErrSigningNotReady
	}
	return c.sign, nil
}

// NextCoordinator builds the Coordinator for the following epoch, reusing
// this epoch's completed matrix as the new epoch's resharing seed. Fails if
// this epoch's key material has not completed.
func (c *Coordinator) NextCoordinator(voteGroup *ids.VoteGroup, dkgVotesThreshold, reshareVotesThreshold int) (*Coordinator, error) {
	stage := c.keys.CurrentStage()
	if stage.Kind != dpss.StageComplete {
		return nil, dpss.ErrLastEpochNotComplete
	}
	return NewCoordinator(c.epoch+1, voteGroup, stage.Matrix, dkgVotesThreshold, reshareVotesThreshold, c.numSigningShares, c.ttlRounds), nil
}
