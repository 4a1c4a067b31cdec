package vss

import "errors"

// Error taxonomy for the vss package (spec §7).
var (
	// ErrIncorrectLength: a dealing's share vector doesn't match the
	// aggregator's configured vote-id set.
	ErrIncorrectLength = errors.New("vss: share vector length does not match vote id set")
	// ErrInconsistentSecretShare: a share fails the VSS predicate
	// VSS(identifier(v), commitment) == share*G.
	ErrInconsistentSecretShare = errors.New("vss: share is inconsistent with its commitment")
	// ErrUnknownCommitment: AcceptPolynomialCommitment referenced a hash
	// never passed to ReceiveSecretShare.
	ErrUnknownCommitment = errors.New("vss: unknown commitment hash")
	// ErrTooSmallDegree: the commitment has fewer than degree+1
	// coefficients for the aggregator's configured threshold.
	ErrTooSmallDegree = errors.New("vss: commitment degree below configured threshold")
	// ErrProofNotImplemented: GenerateProof has no implementation yet
	// (spec §9 open question (a)).
	ErrProofNotImplemented = errors.New("vss: proof generation not implemented")
)
