package vss

import (
	"testing"

	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

func testGroup(t *testing.T) *ids.VoteGroup {
	t.Helper()
	g, err := ids.NewVoteGroup(map[ids.NodeID][]ids.VoteID{
		1: {1},
		2: {2},
		3: {3},
		4: {4},
	})
	if err != nil {
		t.Fatalf("NewVoteGroup: %v", err)
	}
	return g
}

func TestDealerSharesSatisfyVSSPredicate(t *testing.T) {
	group := testGroup(t)
	d, err := NewDealer(2, group, nil)
	if err != nil {
		t.Fatalf("NewDealer: %v", err)
	}

	messages := d.MessagesFor(group)
	for node, msg := range messages {
		for v, share := range msg.Shares {
			x := ids.NumToIdentifier(uint64(v))
			expected := msg.Commitment.Evaluate(x)
			actual := curve.ScalarBaseMul(share)
			if !expected.Equal(actual) {
				t.Errorf("node %d vote %d: VSS predicate failed", node, v)
			}
		}
	}
}

func TestDealerFixedConstantTerm(t *testing.T) {
	group := testGroup(t)
	constant, err := curve.RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDealer(1, group, &constant)
	if err != nil {
		t.Fatalf("NewDealer: %v", err)
	}
	if !d.Commitment().Points[0].Equal(curve.ScalarBaseMul(constant)) {
		t.Error("dealer did not honor the fixed constant term")
	}
}

func TestAggregatorHomomorphism(t *testing.T) {
	group := testGroup(t)
	votes := group.AllVotes()

	agg := NewAggregator(2, votes)

	dealers := make([]*Dealer, 4)
	for i := range dealers {
		d, err := NewDealer(2, group, nil)
		if err != nil {
			t.Fatalf("NewDealer: %v", err)
		}
		dealers[i] = d
	}

	for _, d := range dealers {
		shares := make([]curve.Scalar, len(votes))
		for i, v := range votes {
			shares[i] = d.MessagesFor(group)[mustHolder(t, group, v)].Shares[v]
		}
		hash, err := agg.ReceiveSecretShare(d.Commitment(), shares)
		if err != nil {
			t.Fatalf("ReceiveSecretShare: %v", err)
		}
		if err := agg.AcceptPolynomialCommitment(hash); err != nil {
			t.Fatalf("AcceptPolynomialCommitment: %v", err)
		}
		// Idempotent re-acceptance.
		if err := agg.AcceptPolynomialCommitment(hash); err != nil {
			t.Fatalf("re-accepting should be a no-op, got: %v", err)
		}
	}

	final := agg.Finalize()

	wantCommitment := PolynomialCommitment{}
	for _, d := range dealers {
		wantCommitment = wantCommitment.Add(d.Commitment())
	}
	for i := range wantCommitment.Points {
		if !wantCommitment.Points[i].Equal(final.Commitment.Points[i]) {
			t.Errorf("aggregated commitment coefficient %d mismatch", i)
		}
	}

	for _, v := range votes {
		want := curve.ScalarZero()
		for _, d := range dealers {
			want = want.Add(d.MessagesFor(group)[mustHolder(t, group, v)].Shares[v])
		}
		if !want.Equal(final.Shares[v]) {
			t.Errorf("aggregated share for vote %d mismatch", v)
		}
	}
}

func mustHolder(t *testing.T, g *ids.VoteGroup, v ids.VoteID) ids.NodeID {
	t.Helper()
	n, ok := g.HolderOf(v)
	if !ok {
		t.Fatalf("vote %d has no holder", v)
	}
	return n
}

func TestAggregatorRejectsWrongLength(t *testing.T) {
	group := testGroup(t)
	votes := group.AllVotes()
	agg := NewAggregator(2, votes)

	d, err := NewDealer(2, group, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = agg.ReceiveSecretShare(d.Commitment(), []curve.Scalar{curve.ScalarZero()})
	if err == nil {
		t.Fatal("expected ErrIncorrectLength")
	}
}

func TestAggregatorRejectsTooSmallDegree(t *testing.T) {
	group := testGroup(t)
	votes := group.AllVotes()
	agg := NewAggregator(3, votes)

	d, err := NewDealer(1, group, nil)
	if err != nil {
		t.Fatal(err)
	}
	shares := make([]curve.Scalar, len(votes))
	for i, v := range votes {
		shares[i] = d.MessagesFor(group)[mustHolder(t, group, v)].Shares[v]
	}
	_, err = agg.ReceiveSecretShare(d.Commitment(), shares)
	if err != ErrTooSmallDegree {
		t.Fatalf("got %v, want ErrTooSmallDegree", err)
	}
}

func TestAggregatorUnknownCommitment(t *testing.T) {
	agg := NewAggregator(1, []ids.VoteID{1})
	if err := agg.AcceptPolynomialCommitment([32]byte{1}); err != ErrUnknownCommitment {
		t.Fatalf("got %v, want ErrUnknownCommitment", err)
	}
}
