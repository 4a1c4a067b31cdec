package epoch

import (
	"testing"

	"threshold.network/promise/curve"
	"threshold.network/promise/dpss"
	"threshold.network/promise/ids"
	"threshold.network/promise/vss"
)

func buildVoteGroup(t *testing.T) *ids.VoteGroup {
	t.Helper()
	group, err := ids.NewVoteGroup(map[ids.NodeID][]ids.VoteID{
		1: {1, 2},
		2: {3, 4},
	})
	if err != nil {
		t.Fatalf("build vote group: %v", err)
	}
	return group
}

func TestCoordinatorRejectsEarlyHandOff(t *testing.T) {
	group := buildVoteGroup(t)
	lastMatrix := curve.NewElementMatrix(5, 5)
	c := NewCoordinator(1, group, lastMatrix, 2, 2, 2, 10)

	if err := c.HandOff([]ids.NodeID{1, 2}); err != dpss.ErrLastEpochNotComplete {
		t.Fatalf("expected ErrLastEpochNotComplete, got %v", err)
	}
	if c.IsSigningReady() {
		t.Fatalf("signing should not be ready before handoff")
	}
	if _, err := c.SignState(); err != ErrSigningNotReady {
		t.Fatalf("expected ErrSigningNotReady, got %v", err)
	}
}

func TestCoordinatorHandsOffAfterKeyMaterialCompletes(t *testing.T) {
	group := buildVoteGroup(t)
	lastMatrix := curve.NewElementMatrix(5, 5)
	c := NewCoordinator(1, group, lastMatrix, 2, 2, 2, 10)

	dealer1, err := vss.NewDealer(1, group, nil)
	if err != nil {
		t.Fatalf("new dealer 1: %v", err)
	}
	dealer2, err := vss.NewDealer(1, group, nil)
	if err != nil {
		t.Fatalf("new dealer 2: %v", err)
	}

	keys := c.KeyState()
	if err := keys.ReceiveDkgParticipate(1, dealer1.Commitment()); err != nil {
		t.Fatalf("dkg participate node 1: %v", err)
	}
	if err := keys.ReceiveDkgParticipate(2, dealer2.Commitment()); err != nil {
		t.Fatalf("dkg participate node 2: %v", err)
	}

	finished, err := keys.TryFinishDkgStage()
	if err != nil {
		t.Fatalf("try finish dkg stage: %v", err)
	}
	if !finished {
		t.Fatalf("expected dkg stage to reach threshold")
	}
	if keys.CurrentStage().Kind != dpss.StageReshare {
		t.Fatalf("expected StageReshare, got %v", keys.CurrentStage().Kind)
	}

	// lastMatrix is fresh (all identity), so the reshare round's expected
	// per-row target is just the combined DKG commitment evaluated at that
	// row's identifier.
	combined := dealer1.Commitment().Add(dealer2.Commitment())
	commitment1 := vss.PolynomialCommitment{Points: []curve.Element{combined.Evaluate(curve.RowIdentifier(1))}}
	commitment2 := vss.PolynomialCommitment{Points: []curve.Element{combined.Evaluate(curve.RowIdentifier(2))}}

	if err := keys.ReceiveReshareMessage(1, commitment1); err != nil {
		t.Fatalf("reshare message 1: %v", err)
	}
	if keys.IsComplete() {
		t.Fatalf("should not complete after one submission")
	}
	if err := keys.ReceiveReshareMessage(2, commitment2); err != nil {
		t.Fatalf("reshare message 2: %v", err)
	}
	if !keys.IsComplete() {
		t.Fatalf("expected key material epoch to be complete")
	}

	if err := c.HandOff([]ids.NodeID{1, 2}); err != nil {
		t.Fatalf("hand off: %v", err)
	}
	if !c.IsSigningReady() {
		t.Fatalf("expected signing to be ready after handoff")
	}
	if err := c.HandOff([]ids.NodeID{1, 2}); err != ErrAlreadyHandedOff {
		t.Fatalf("expected ErrAlreadyHandedOff on second call, got %v", err)
	}

	signState, err := c.SignState()
	if err != nil {
		t.Fatalf("sign state: %v", err)
	}
	if signState == nil {
		t.Fatalf("expected non-nil signing state")
	}

	next, err := c.NextCoordinator(group, 2, 2)
	if err != nil {
		t.Fatalf("next coordinator: %v", err)
	}
	if next.epoch != 2 {
		t.Fatalf("expected next epoch to be 2, got %d", next.epoch)
	}
}

func TestCoordinatorIsComplete(t *testing.T) {
	group := buildVoteGroup(t)
	lastMatrix := curve.NewElementMatrix(5, 5)
	c := NewCoordinator(1, group, lastMatrix, 2, 2, 2, 10)
	if c.KeyState().IsComplete() {
		t.Fatalf("fresh coordinator should not be complete")
	}
}
