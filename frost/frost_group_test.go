package frost

import (
	"testing"

	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// buildTestContext creates a toy 2-node, 4-vote FROST context by sampling a
// degree-3 secret polynomial directly (bypassing DKG/DPSS, which are tested
// in their own packages) and deriving verifying shares and a signer group
// from it, returning per-node raw signing shares for use by tests.
func buildTestContext(t *testing.T) (*Context, *ids.VoteGroup, map[ids.NodeID][]curve.Scalar) {
	t.Helper()

	secret, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("sample secret: %v", err)
	}
	coeff1, _ := curve.RandomScalar()
	coeff2, _ := curve.RandomScalar()
	coeff3, _ := curve.RandomScalar()
	poly := []curve.Scalar{secret, coeff1, coeff2, coeff3}

	eval := func(x curve.Scalar) curve.Scalar {
		result := curve.ScalarZero()
		power := curve.ScalarOne()
		for _, c := range poly {
			result = result.Add(c.Mul(power))
			power = power.Mul(x)
		}
		return result
	}

	group, err := ids.NewVoteGroup(map[ids.NodeID][]ids.VoteID{
		1: {1, 2},
		2: {3, 4},
	})
	if err != nil {
		t.Fatalf("build vote group: %v", err)
	}

	verifyingShares := make(map[Identifier]curve.Element)
	rawShares := make(map[ids.NodeID][]curve.Scalar)
	for _, node := range group.Nodes() {
		for _, v := range group.Votes(node) {
			id := ids.NumToIdentifier(uint64(v))
			share := eval(id)
			verifyingShares[id] = curve.ScalarBaseMul(share)
			rawShares[node] = append(rawShares[node], share)
		}
	}

	identifierGroups := make(map[ids.NodeID][]Identifier)
	for _, node := range group.Nodes() {
		for _, v := range group.Votes(node) {
			identifierGroups[node] = append(identifierGroups[node], ids.NumToIdentifier(uint64(v)))
		}
	}

	ctx := &Context{
		Epoch:            1,
		VerifyingKey:     curve.ScalarBaseMul(secret),
		VerifyingShares:  verifyingShares,
		IdentifierGroups: identifierGroups,
		NumSigningShares: 4,
	}
	return ctx, group, rawShares
}

func TestSignerGroupAggregation(t *testing.T) {
	ctx, _, _ := buildTestContext(t)
	sg := NewSignerGroup(ctx, []ids.NodeID{1, 2})
	if err := sg.EnsureAggregated(); err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	for _, node := range []ids.NodeID{1, 2} {
		if _, ok := sg.AggregatedVerifyingShare(node); !ok {
			t.Fatalf("node %d missing aggregated share", node)
		}
		if len(sg.Lambdas(node)) != len(sg.PickedIdentifiers(node)) {
			t.Fatalf("node %d lambda/identifier count mismatch", node)
		}
	}
}

func TestSignerGroupDeficit(t *testing.T) {
	ctx, _, _ := buildTestContext(t)
	ctx.NumSigningShares = 100 // more than the 4 votes this toy context has
	sg := NewSignerGroup(ctx, []ids.NodeID{1, 2})
	if err := sg.EnsureAggregated(); err == nil {
		t.Fatalf("expected deficit error")
	}
	if !sg.HasDeficit() {
		t.Fatalf("expected HasDeficit true")
	}
}

func nonceWithSecret(t *testing.T) (curve.Scalar, curve.Scalar, SigningCommitments) {
	t.Helper()
	hiding, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("sample hiding: %v", err)
	}
	binding, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("sample binding: %v", err)
	}
	return hiding, binding, SigningCommitments{
		Hiding:  curve.ScalarBaseMul(hiding),
		Binding: curve.ScalarBaseMul(binding),
	}
}

func TestFullSignRoundTrip(t *testing.T) {
	ctx, _, rawShares := buildTestContext(t)
	mgr := NewSignManager(ctx, []ids.NodeID{1, 2}, 10)

	signers := make(map[ids.NodeID]*NodeSigner)
	for _, node := range []ids.NodeID{1, 2} {
		signer := NewNodeSigner(node, rawShares[node])
		signers[node] = signer

		commitments, err := signer.MakeNonceCommitments(1)
		if err != nil {
			t.Fatalf("make nonce commitments for node %d: %v", node, err)
		}
		if err := mgr.MakeNonceCommitments(node, commitments); err != nil {
			t.Fatalf("register nonce for node %d: %v", node, err)
		}
	}

	if err := mgr.StartRound(1); err != nil {
		t.Fatalf("start round: %v", err)
	}

	message := []byte("hello threshold world")
	taskID, task, err := mgr.Sign(message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	var finalSig *Signature
	for _, node := range []ids.NodeID{1, 2} {
		z, err := signers[node].Sign(task)
		if err != nil {
			t.Fatalf("node %d sign: %v", node, err)
		}

		outcome, err := mgr.SubmitSignatureShare(taskID, node, z)
		if err != nil {
			t.Fatalf("submit share for node %d: %v", node, err)
		}
		if outcome.Kind == SignDone {
			finalSig = outcome.Signature
		}
	}

	if finalSig == nil {
		t.Fatalf("expected aggregate signature after both nodes responded")
	}
	if !finalSig.Verify(ctx.VerifyingKey, message) {
		t.Fatalf("aggregate signature failed verification")
	}
}

func TestNonceCommitmentPoolRejectsLateRegistration(t *testing.T) {
	ctx, _, _ := buildTestContext(t)
	group := NewSignerGroup(ctx, []ids.NodeID{1, 2})
	pool := NewNonceCommitmentPool()
	pool.Start()
	_, _, commitment := nonceWithSecret(t)
	err := pool.Insert(1, group, []SigningCommitments{commitment})
	if err != ErrTooLatePreCommit {
		t.Fatalf("expected ErrTooLatePreCommit, got %v", err)
	}
}

func TestNonceCommitmentPoolRejectsEjectedNode(t *testing.T) {
	ctx, _, _ := buildTestContext(t)
	ctx.NumSigningShares = 2 // so node 2 alone still satisfies the group after node 1 is removed
	group := NewSignerGroup(ctx, []ids.NodeID{1, 2})
	pool := NewNonceCommitmentPool()
	_, _, commitment := nonceWithSecret(t)
	if err := pool.Insert(1, group, []SigningCommitments{commitment}); err != nil {
		t.Fatalf("pre-round register: %v", err)
	}
	pool.Start()
	if err := group.RemoveNodes([]ids.NodeID{1}); err != nil {
		t.Fatalf("remove node: %v", err)
	}
	_, _, topUp := nonceWithSecret(t)
	if err := pool.Insert(1, group, []SigningCommitments{topUp}); err != ErrEjectedNode {
		t.Fatalf("expected ErrEjectedNode, got %v", err)
	}
}

func TestNonceCommitmentPoolRejectsIdentity(t *testing.T) {
	pool := NewNonceCommitmentPool()
	err := pool.Insert(1, nil, []SigningCommitments{{Hiding: curve.Identity(), Binding: curve.Identity()}})
	if err != ErrIdentityNonceCommitment {
		t.Fatalf("expected ErrIdentityNonceCommitment, got %v", err)
	}
}

func TestSignatureVerifyRejectsTamperedMessage(t *testing.T) {
	secret, _ := curve.RandomScalar()
	verifyingKey := curve.ScalarBaseMul(secret)
	hidingNonce, _ := curve.RandomScalar()
	message := []byte("original message")

	challenge := computeChallenge(curve.ScalarBaseMul(hidingNonce), verifyingKey, message)
	z := hidingNonce.Add(challenge.Mul(secret))
	sig := Signature{R: curve.ScalarBaseMul(hidingNonce), Z: z}

	if !sig.Verify(verifyingKey, message) {
		t.Fatalf("expected valid signature to verify")
	}
	if sig.Verify(verifyingKey, []byte("tampered message")) {
		t.Fatalf("expected tampered message to fail verification")
	}
}
