package dpss

import (
	"threshold.network/promise/curve"
	"threshold.network/promise/dkg"
	"threshold.network/promise/ids"
	"threshold.network/promise/vss"
)

// ReshareState drives one epoch's proactive resharing round to completion:
// every current share-holder deals a fresh degree-d polynomial whose
// constant term equals its current share, guaranteeing the new shares
// interpolate to the same secret once enough of them are collected.
type ReshareState struct {
	// commitmentPoints holds the expected constant-term target for each
	// row (VoteID): the new verifying share that row's fresh commitment
	// must commit to.
	commitmentPoints   []curve.Element
	acceptedCommitments map[[32]byte]bool
	validSubmissions   map[ids.VoteID]vss.PolynomialCommitment
	targetVotes         int
}

// NewReshareState builds a reshare round directly from its constituent
// parts.
func NewReshareState(commitmentPoints []curve.Element, acceptedCommitments map[[32]byte]bool, targetVotes int) *ReshareState {
	accepted := make(map[[32]byte]bool, len(acceptedCommitments))
	for h := range acceptedCommitments {
		accepted[h] = true
	}
	return &ReshareState{
		commitmentPoints:    append([]curve.Element(nil), commitmentPoints...),
		acceptedCommitments: accepted,
		validSubmissions:    make(map[ids.VoteID]vss.PolynomialCommitment),
		targetVotes:         targetVotes,
	}
}

// NewReshareStateFromDkgStage derives a reshare round from a completed DKG
// stage and the previous epoch's element matrix: the new per-row targets
// are the previous epoch's column 0, shifted by the DKG's additional
// commitment.
func NewReshareStateFromDkgStage(state *dkg.State, lastMatrix *curve.ElementMatrix, targetVotes int) (*ReshareState, error) {
	commitment := state.Commitment()
	elementList, err := lastMatrix.GetColAdd(0, commitment.Evaluate)
	if err != nil {
		return nil, err
	}
	return NewReshareState(elementList, state.CommitmentHashes(), targetVotes), nil
}

// ReceiveReshareMessage verifies that pc's constant term matches vote's
// expected target, and records it. Returns true once target_votes valid
// submissions have been collected.
func (r *ReshareState) ReceiveReshareMessage(vote ids.VoteID, pc vss.PolynomialCommitment) (bool, error) {
	row := int(vote)
	if row < 0 || row >= len(r.commitmentPoints) {
		return false, ErrInvalidReshareCommitment
	}
	if len(pc.Points) == 0 {
		return false, ErrInvalidReshareCommitment
	}
	expected := r.commitmentPoints[row]
	actual := pc.Points[0]
	if !expected.Equal(actual) {
		return false, ErrInvalidReshareCommitment
	}

	r.validSubmissions[vote] = pc
	return len(r.validSubmissions) == r.targetVotes, nil
}

// MakeNewMatrix fills empty's column 0 with the expected targets, evaluates
// a full row for every accepted submission, then interpolates every other
// column from those filled rows.
func (r *ReshareState) MakeNewMatrix(empty *curve.ElementMatrix) error {
	if err := empty.SetCol(0, r.commitmentPoints); err != nil {
		return err
	}

	filledRows := make([]int, 0, len(r.validSubmissions))
	for vote, pc := range r.validSubmissions {
		row := int(vote)
		if err := empty.EvaluateRow(row, pc.Evaluate); err != nil {
			return err
		}
		filledRows = append(filledRows, row)
	}

	for c := 1; c < empty.Cols(); c++ {
		if err := empty.InterpolateCol(c, filledRows); err != nil {
			return err
		}
	}
	return nil
}

// ValidSubmissionCount returns the number of accepted reshare submissions
// so far.
func (r *ReshareState) ValidSubmissionCount() int { return len(r.validSubmissions) }
