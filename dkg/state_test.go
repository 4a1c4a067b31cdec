package dkg

import (
	"testing"

	"threshold.network/promise/curve"
	"threshold.network/promise/vss"
)

func commitmentOf(t *testing.T, constant uint64) vss.PolynomialCommitment {
	t.Helper()
	return vss.PolynomialCommitment{Points: []curve.Element{
		curve.ScalarBaseMul(curve.ScalarFromUint64(constant)),
		curve.ScalarBaseMul(curve.ScalarFromUint64(constant + 1)),
	}}
}

func TestStateAccumulatesAndDedups(t *testing.T) {
	s := NewState()
	pc1 := commitmentOf(t, 10)
	pc2 := commitmentOf(t, 20)

	s.ReceiveNewCommitment(2, pc1)
	s.ReceiveNewCommitment(3, pc2)
	s.ReceiveNewCommitment(2, pc1) // duplicate, should be a no-op

	if s.NumNodes() != 2 {
		t.Errorf("NumNodes() = %d, want 2", s.NumNodes())
	}
	if s.NumVotes() != 5 {
		t.Errorf("NumVotes() = %d, want 5", s.NumVotes())
	}

	want := curve.ScalarBaseMul(curve.ScalarFromUint64(30))
	if !s.CommitSecret().Equal(want) {
		t.Error("CommitSecret() does not equal sum of constant terms")
	}

	if !s.HasEnoughVotes(5) {
		t.Error("HasEnoughVotes(5) should be true")
	}
	if s.HasEnoughVotes(6) {
		t.Error("HasEnoughVotes(6) should be false")
	}
}
