package frost

import (
	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// SignatureShare is one node's aggregated response for a SignTask, computed
// over the node's collapsed (already Lagrange-weighted) signing share.
type SignatureShare struct {
	Node  ids.NodeID
	Share curve.Scalar
}

// SignTask drives one message's FROST signing round to completion: it is
// constructed once the group commitment and challenge are fixed, then
// accumulates per-node signature shares until a valid aggregate signature
// can be produced.
type SignTask struct {
	ctx     *Context
	message []byte

	nonceIndex int
	commitments map[Identifier]SigningCommitments

	order          []Identifier
	bindingFactors map[Identifier]curve.Scalar
	groupCommitment curve.Element
	challenge       curve.Scalar

	nodeLambdas   map[ids.NodeID][]curve.Scalar
	nodeIdentifiers map[ids.NodeID][]Identifier

	responded map[ids.NodeID]curve.Scalar
	result    *Signature
}

// NewSignTask builds a sign task from a freshly-pulled nonce commitment
// round. nodeCommitments maps each participating node to its own per-vote
// SigningCommitments, which this constructor fans out to the per-identifier
// commitment map the ciphersuite functions operate on.
func NewSignTask(
	ctx *Context,
	group *SignerGroup,
	nonceIndex int,
	nodeCommitments map[ids.NodeID]SigningCommitments,
	message []byte,
) (*SignTask, error) {
	if err := group.EnsureAggregated(); err != nil {
		return nil, err
	}

	identifierCommitments := make(map[Identifier]SigningCommitments, len(nodeCommitments))
	nodeIdentifiers := make(map[ids.NodeID][]Identifier, len(nodeCommitments))
	for node, c := range nodeCommitments {
		picked := group.PickedIdentifiers(node)
		if len(picked) == 0 {
			return nil, ErrUnknownNodeID
		}
		// The node's single aggregated commitment is attributed to its
		// first picked identifier; the remaining identifiers carry no
		// independent nonce since the node signs once per task.
		identifierCommitments[picked[0]] = c
		nodeIdentifiers[node] = picked
	}

	order, bindingFactors := computeBindingFactors(message, ctx.VerifyingKey, identifierCommitments)
	groupCommitment := computeGroupCommitment(order, identifierCommitments, bindingFactors)
	challenge := computeChallenge(groupCommitment, ctx.VerifyingKey, message)

	return &SignTask{
		ctx:             ctx,
		message:         message,
		nonceIndex:      nonceIndex,
		commitments:     identifierCommitments,
		order:           order,
		bindingFactors:  bindingFactors,
		groupCommitment: groupCommitment,
		challenge:       challenge,
		nodeLambdas:     group.LambdasSnapshot(),
		nodeIdentifiers: nodeIdentifiers,
		responded:       make(map[ids.NodeID]curve.Scalar),
	}, nil
}

// Message returns the task's message.
func (t *SignTask) Message() []byte { return t.message }

// NonceIndex returns the pre-commitment index this task consumed.
func (t *SignTask) NonceIndex() int { return t.nonceIndex }

// Nodes returns the nodes expected to respond to this task.
func (t *SignTask) Nodes() []ids.NodeID {
	out := make([]ids.NodeID, 0, len(t.nodeIdentifiers))
	for n := range t.nodeIdentifiers {
		out = append(out, n)
	}
	return out
}

// RespondedNodes returns the nodes that have already submitted a valid
// signature share.
func (t *SignTask) RespondedNodes() []ids.NodeID {
	out := make([]ids.NodeID, 0, len(t.responded))
	for n := range t.responded {
		out = append(out, n)
	}
	return out
}

// GroupCommitment returns R, the aggregated nonce commitment.
func (t *SignTask) GroupCommitment() curve.Element { return t.groupCommitment }

// Challenge returns c = H(R || Y || m).
func (t *SignTask) Challenge() curve.Scalar { return t.challenge }

// InsertSignatureShare validates and stores node's share. A node's raw
// per-vote signing shares z_v (one per its picked identifiers) must already
// be combined by the caller into a single aggregated value using this
// task's lambdas (LambdasFor), matching how the signer group collapsed the
// node's verifying shares.
func (t *SignTask) InsertSignatureShare(node ids.NodeID, share curve.Scalar) error {
	identifiers, ok := t.nodeIdentifiers[node]
	if !ok {
		return ErrUnknownNodeID
	}
	if _, already := t.responded[node]; already {
		return ErrDuplicatedSignatureShare
	}

	nodeCommitment, ok := t.commitments[identifiers[0]]
	if !ok {
		return ErrInconsistentNonceCommitment
	}

	// Verify z_i·G == (hiding_i + rho_i·binding_i) + c·lambda_i·Y_i, where
	// Y_i here is the node's pre-aggregated verifying share (signer_group.go
	// already folded every per-vote lambda into it), so the outer
	// coefficient is exactly 1. Fall back to the single-identifier
	// verifying share if the node's lambda snapshot is missing for some
	// reason (e.g. it was taken before this node had picked identifiers).
	expectedCommitment := nodeCommitment.Hiding.Add(
		nodeCommitment.Binding.ScalarMul(t.bindingFactors[identifiers[0]]),
	)
	aggregatedVerifyingShare, ok := t.aggregatedShareFor(node)
	if !ok {
		aggregatedVerifyingShare = t.ctx.VerifyingShares[identifiers[0]]
	}
	rhs := expectedCommitment.Add(aggregatedVerifyingShare.ScalarMul(t.challenge))
	lhs := curve.ScalarBaseMul(share)
	if !lhs.Equal(rhs) {
		return ErrInvalidSignatureShare
	}

	t.responded[node] = share
	return nil
}

// Sign computes node's aggregated Schnorr response z = d + e·ρ + c·s, where
// s is node's raw per-vote signing shares collapsed under this task's
// Lagrange coefficients (LambdasFor), so the outer coefficient lambda_i the
// verification equation applies is exactly 1. signingShares must be given
// in the same order as node's picked identifiers (LambdasFor(node)), and
// hidingNonce/bindingNonce are the node's own (d, e) pair at this task's
// NonceIndex. This is the only place a raw signing share is ever combined
// with a nonce; callers must hold both privately.
func (t *SignTask) Sign(node ids.NodeID, signingShares []curve.Scalar, hidingNonce, bindingNonce curve.Scalar) (curve.Scalar, error) {
	lambdas, ok := t.nodeLambdas[node]
	if !ok || len(lambdas) == 0 {
		return curve.Scalar{}, ErrUnknownNodeID
	}
	if len(lambdas) != len(signingShares) {
		return curve.Scalar{}, ErrInconsistentNonceCommitment
	}

	signingShare := curve.ScalarZero()
	for i, lambda := range lambdas {
		signingShare = signingShare.Add(signingShares[i].Mul(lambda))
	}

	identifiers, ok := t.nodeIdentifiers[node]
	if !ok {
		return curve.Scalar{}, ErrUnknownNodeID
	}
	rho, ok := t.bindingFactors[identifiers[0]]
	if !ok {
		return curve.Scalar{}, ErrUnknownSigner
	}

	z := hidingNonce.Add(bindingNonce.Mul(rho)).Add(t.challenge.Mul(signingShare))
	return z, nil
}

// aggregatedShareFor looks up the node's collapsed verifying share directly
// from the context's per-identifier map, summing the node's picked
// identifiers' verifying shares scaled by lambdas — kept in sync with
// SignerGroup.updateAggregatedVerifyingShares.
func (t *SignTask) aggregatedShareFor(node ids.NodeID) (curve.Element, bool) {
	identifiers, ok := t.nodeIdentifiers[node]
	if !ok {
		return curve.Element{}, false
	}
	lambdas, ok := t.nodeLambdas[node]
	if !ok || len(lambdas) != len(identifiers) {
		return curve.Element{}, false
	}
	acc := curve.Identity()
	for i, id := range identifiers {
		share, ok := t.ctx.VerifyingShares[id]
		if !ok {
			return curve.Element{}, false
		}
		acc = acc.Add(share.ScalarMul(lambdas[i]))
	}
	return acc, true
}

// LambdasFor returns the Lagrange coefficients node must apply to its own
// per-vote raw signing shares before submitting an aggregated share via
// InsertSignatureShare.
func (t *SignTask) LambdasFor(node ids.NodeID) []curve.Scalar {
	return t.nodeLambdas[node]
}

// TryAggregateSignatureShare combines every responded node's share into a
// final Signature once all expected nodes have responded, verifying the
// aggregate against the verifying key before returning it.
func (t *SignTask) TryAggregateSignatureShare() (*Signature, error) {
	if t.result != nil {
		return t.result, nil
	}
	for node := range t.nodeIdentifiers {
		if _, ok := t.responded[node]; !ok {
			return nil, nil
		}
	}

	z := curve.ScalarZero()
	for _, share := range t.responded {
		z = z.Add(share)
	}

	sig := &Signature{R: t.groupCommitment, Z: z}
	if !sig.Verify(t.ctx.VerifyingKey, t.message) {
		return nil, ErrInvalidSignatureShare
	}
	t.result = sig
	return sig, nil
}
