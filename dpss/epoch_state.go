package dpss

import (
	"threshold.network/promise/curve"
	"threshold.network/promise/dkg"
	"threshold.network/promise/frost"
	"threshold.network/promise/ids"
	"threshold.network/promise/vss"
)

// StageKind distinguishes the three states an epoch can be in.
type StageKind int

const (
	// StageDkg means the epoch is still accumulating dealer commitments.
	StageDkg StageKind = iota
	// StageReshare means DKG reached threshold and the epoch is
	// accumulating fresh per-vote reshare commitments.
	StageReshare
	// StageComplete means the epoch's element matrix is final.
	StageComplete
)

// Stage holds exactly the fields relevant to its StageKind; callers must
// check Kind before reading the corresponding field.
type Stage struct {
	Kind StageKind

	DkgState    *dkg.State
	DkgCanFinish bool

	ReshareState *ReshareState

	Matrix *curve.ElementMatrix
}

// EpochState is the DKG→reshare→complete state machine for one epoch's key
// material setup, mirroring spec §4.F.
type EpochState struct {
	epoch uint64
	stage Stage

	lastMatrix *curve.ElementMatrix
	voteGroup  *ids.VoteGroup

	dkgVotesThreshold     int
	reshareVotesThreshold int
	numSigningShares      int
}

// NewEpochState starts a fresh DKG stage for epoch, against the previous
// epoch's completed element matrix (its column 0 seeds the next reshare
// round's targets once DKG finishes).
func NewEpochState(epoch uint64, voteGroup *ids.VoteGroup, lastMatrix *curve.ElementMatrix, dkgVotesThreshold, reshareVotesThreshold, numSigningShares int) *EpochState {
	return &EpochState{
		epoch:                 epoch,
		stage:                 Stage{Kind: StageDkg, DkgState: dkg.NewState()},
		lastMatrix:            lastMatrix,
		voteGroup:             voteGroup,
		dkgVotesThreshold:     dkgVotesThreshold,
		reshareVotesThreshold: reshareVotesThreshold,
		numSigningShares:      numSigningShares,
	}
}

// ReceiveDkgParticipate forwards a dealer commitment into the DKG
// accumulator. Valid only in the DKG stage.
func (e *EpochState) ReceiveDkgParticipate(node ids.NodeID, pc vss.PolynomialCommitment) error {
	if e.stage.Kind != StageDkg {
		return ErrDkgStageHasFinished
	}
	votes := e.voteGroup.Votes(node)
	e.stage.DkgState.ReceiveNewCommitment(len(votes), pc)
	return nil
}

// TryFinishDkgStage transitions to the reshare stage if the DKG threshold
// is already met; otherwise marks the stage so the next reshare message
// (spec's "can_finish") re-attempts the transition once threshold becomes
// satisfied.
func (e *EpochState) TryFinishDkgStage() (bool, error) {
	if e.stage.Kind != StageDkg {
		return false, ErrDkgStageHasFinished
	}
	if e.stage.DkgState.HasEnoughVotes(e.dkgVotesThreshold) {
		return true, e.transitionToReshare()
	}
	e.stage.DkgCanFinish = true
	return false, nil
}

func (e *EpochState) transitionToReshare() error {
	reshare, err := NewReshareStateFromDkgStage(e.stage.DkgState, e.lastMatrix, e.reshareVotesThreshold)
	if err != nil {
		return err
	}
	e.stage = Stage{Kind: StageReshare, ReshareState: reshare}
	return nil
}

// ReceiveReshareMessage may trigger the DKG→reshare transition (failing
// with ErrDkgStageNotComplete if DKG threshold is unmet), then records the
// submission. Completion transitions the epoch to StageComplete with the
// freshly-built element matrix.
func (e *EpochState) ReceiveReshareMessage(vote ids.VoteID, pc vss.PolynomialCommitment) error {
	switch e.stage.Kind {
	case StageDkg:
		// A reshare message only probes the vote threshold once
		// TryFinishDkgStage has been attempted at least once.
		if !e.stage.DkgCanFinish {
			return ErrDkgStageNotComplete
		}
		if !e.stage.DkgState.HasEnoughVotes(e.dkgVotesThreshold) {
			return ErrDkgStageNotComplete
		}
		if err := e.transitionToReshare(); err != nil {
			return err
		}
	case StageComplete:
		return ErrEnoughReshareSubmit
	}

	complete, err := e.stage.ReshareState.ReceiveReshareMessage(vote, pc)
	if err != nil {
		return err
	}
	if complete {
		newMatrix := curve.NewElementMatrix(e.lastMatrix.Rows(), e.lastMatrix.Cols())
		if err := e.stage.ReshareState.MakeNewMatrix(newMatrix); err != nil {
			return err
		}
		e.stage = Stage{Kind: StageComplete, Matrix: newMatrix}
	}
	return nil
}

// CurrentStage returns the current stage, for callers inspecting progress.
func (e *EpochState) CurrentStage() Stage { return e.stage }

// IsComplete reports whether the epoch's element matrix is final.
func (e *EpochState) IsComplete() bool { return e.stage.Kind == StageComplete }

// MakeFrostContext derives the next epoch's public FROST context from the
// completed element matrix's column 0. Fails with ErrLastEpochNotComplete
// if the epoch has not reached StageComplete.
func (e *EpochState) MakeFrostContext() (*frost.Context, error) {
	if e.stage.Kind != StageComplete {
		return nil, ErrLastEpochNotComplete
	}
	return frost.NewContextFromMatrix(e.epoch, e.voteGroup, e.stage.Matrix, e.numSigningShares)
}
