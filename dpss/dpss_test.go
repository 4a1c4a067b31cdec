package dpss

import (
	"testing"

	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
	"threshold.network/promise/vss"
)

func sampleDealerCommitment(t *testing.T, degree int, group *ids.VoteGroup, fixedSecret *curve.Scalar) (*vss.Dealer, vss.PolynomialCommitment) {
	t.Helper()
	dealer, err := vss.NewDealer(degree, group, fixedSecret)
	if err != nil {
		t.Fatalf("new dealer: %v", err)
	}
	return dealer, dealer.Commitment()
}

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

func TestEpochStateDkgToReshare(t *testing.T) {
	group := buildVoteGroup(t)
	lastMatrix := curve.NewElementMatrix(5, 5) // rows 0..4 (row0=secret), 5 cols arbitrary

	epoch := NewEpochState(1, group, lastMatrix, 2, 2, 2)

	dealer1, pc1 := sampleDealerCommitment(t, 1, group, nil)
	_ = dealer1
	dealer2, pc2 := sampleDealerCommitment(t, 1, group, nil)
	_ = dealer2

	if err := epoch.ReceiveDkgParticipate(1, pc1); err != nil {
		t.Fatalf("dkg participate node 1: %v", err)
	}
	if err := epoch.ReceiveDkgParticipate(2, pc2); err != nil {
		t.Fatalf("dkg participate node 2: %v", err)
	}

	finished, err := epoch.TryFinishDkgStage()
	if err != nil {
		t.Fatalf("try finish dkg stage: %v", err)
	}
	if !finished {
		t.Fatalf("expected dkg stage to finish with 2+2=4 votes >= threshold 2")
	}
	if epoch.CurrentStage().Kind != StageReshare {
		t.Fatalf("expected StageReshare, got %v", epoch.CurrentStage().Kind)
	}
}

func TestHandoffManagerRejectsWrongLength(t *testing.T) {
	hm := NewHandoffManager([]ids.VoteID{1, 2}, 2)
	lastMatrix := curve.NewElementMatrix(5, 5)
	_, err := hm.ReceiveShare(lastMatrix, 3, []curve.Scalar{curve.ScalarOne()})
	if err != ErrIncorrectHandoffLength {
		t.Fatalf("expected ErrIncorrectHandoffLength, got %v", err)
	}
}

func TestHandoffManagerRejectsSenderAsTarget(t *testing.T) {
	hm := NewHandoffManager([]ids.VoteID{1, 2}, 2)
	lastMatrix := curve.NewElementMatrix(5, 5)
	_, err := hm.ReceiveShare(lastMatrix, 1, []curve.Scalar{curve.ScalarOne(), curve.ScalarOne()})
	if err != ErrIncorrectHandoffSender {
		t.Fatalf("expected ErrIncorrectHandoffSender, got %v", err)
	}
}

func TestHandoffManagerRejectsDuplicateSender(t *testing.T) {
	hm := NewHandoffManager([]ids.VoteID{1, 2}, 5)
	lastMatrix := curve.NewElementMatrix(5, 5)
	// Row entries are identity (zero scalar), so shares of zero verify.
	shares := []curve.Scalar{curve.ScalarZero(), curve.ScalarZero()}
	if _, err := hm.ReceiveShare(lastMatrix, 3, shares); err != nil {
		t.Fatalf("first receive: %v", err)
	}
	if _, err := hm.ReceiveShare(lastMatrix, 3, shares); err != ErrDuplicatedHandoffShare {
		t.Fatalf("expected ErrDuplicatedHandoffShare, got %v", err)
	}
}

func TestReshareStateRejectsMismatchedCommitment(t *testing.T) {
	targets := []curve.Element{curve.Generator(), curve.Identity(), curve.Identity()}
	rs := NewReshareState(targets, nil, 1)

	// Row 1's target is the identity, so a generator constant term mismatches.
	wrongPC := vss.PolynomialCommitment{Points: []curve.Element{curve.Generator()}}
	_, err := rs.ReceiveReshareMessage(1, wrongPC)
	if err != ErrInvalidReshareCommitment {
		t.Fatalf("expected ErrInvalidReshareCommitment, got %v", err)
	}
}

func TestReshareStateCompletesAndBuildsMatrix(t *testing.T) {
	secret := curve.ScalarOne()
	targets := []curve.Element{
		curve.ScalarBaseMul(secret), // row 0: the secret's own point (not a real "vote" target, just filler)
		curve.ScalarBaseMul(curve.ScalarFromUint64(10)),
		curve.ScalarBaseMul(curve.ScalarFromUint64(20)),
	}
	rs := NewReshareState(targets, nil, 2)

	// Degree-0 (constant) commitments: Evaluate(x) returns Points[0] for
	// any x, which is enough to exercise ReceiveReshareMessage and
	// MakeNewMatrix without standing up a full dealer/group.
	commitment1 := vss.PolynomialCommitment{Points: []curve.Element{targets[1]}}
	commitment2 := vss.PolynomialCommitment{Points: []curve.Element{targets[2]}}

	complete1, err := rs.ReceiveReshareMessage(1, commitment1)
	if err != nil {
		t.Fatalf("receive reshare 1: %v", err)
	}
	if complete1 {
		t.Fatalf("should not be complete after one submission")
	}
	complete2, err := rs.ReceiveReshareMessage(2, commitment2)
	if err != nil {
		t.Fatalf("receive reshare 2: %v", err)
	}
	if !complete2 {
		t.Fatalf("expected completion after target_votes=2 submissions")
	}

	matrix := curve.NewElementMatrix(3, 1)
	if err := rs.MakeNewMatrix(matrix); err != nil {
		t.Fatalf("make new matrix: %v", err)
	}
	col0, err := matrix.GetCol(0)
	if err != nil {
		t.Fatalf("get col 0: %v", err)
	}
	if !col0[1].Equal(targets[1]) || !col0[2].Equal(targets[2]) {
		t.Fatalf("column 0 does not match expected targets")
	}
}
