package ids

import "testing"

func TestNewVoteGroupDisjointAndOrdered(t *testing.T) {
	g, err := NewVoteGroup(map[NodeID][]VoteID{
		2: {20, 21},
		1: {10},
		3: {30, 31, 32},
	})
	if err != nil {
		t.Fatalf("NewVoteGroup: %v", err)
	}

	nodes := g.Nodes()
	want := []NodeID{1, 2, 3}
	for i, n := range want {
		if nodes[i] != n {
			t.Fatalf("Nodes()[%d] = %d, want %d", i, nodes[i], n)
		}
	}

	if g.TotalVotes() != 6 {
		t.Errorf("TotalVotes() = %d, want 6", g.TotalVotes())
	}

	holder, ok := g.HolderOf(21)
	if !ok || holder != 2 {
		t.Errorf("HolderOf(21) = (%d,%v), want (2,true)", holder, ok)
	}

	votes := g.Votes(3)
	wantVotes := []VoteID{30, 31, 32}
	for i, v := range wantVotes {
		if votes[i] != v {
			t.Errorf("Votes(3)[%d] = %d, want %d", i, votes[i], v)
		}
	}
}

func TestNewVoteGroupRejectsOverlap(t *testing.T) {
	_, err := NewVoteGroup(map[NodeID][]VoteID{
		1: {10},
		2: {10},
	})
	if err == nil {
		t.Fatal("expected error for overlapping vote ids")
	}
}

func TestNewVoteGroupRejectsReservedVote(t *testing.T) {
	_, err := NewVoteGroup(map[NodeID][]VoteID{1: {0}})
	if err == nil {
		t.Fatal("expected error for vote id 0")
	}
}

func TestNumToIdentifierDistinctNonZero(t *testing.T) {
	a := NumToIdentifier(5)
	b := NumToIdentifier(6)
	if a.Equal(b) {
		t.Error("distinct inputs produced equal identifiers")
	}
	if !NumToIdentifier(0).Equal(SecretIdentifier()) {
		t.Error("NumToIdentifier(0) should equal the reserved secret identifier")
	}
}

func TestByzantineThreshold(t *testing.T) {
	if got := ByzantineThreshold(300); got != 126 {
		t.Errorf("ByzantineThreshold(300) = %d, want 126", got)
	}
}
