package brackets

import "errors"

var (
	// Validation
	ErrInvalidTeamCount      = errors.New("invalid number of teams")
	ErrUnsupportedGroupCount = errors.New("unsupported group count (allowed: 1, 2, 3, 4, 6, 8)")
	ErrEmptyTeamName         = errors.New("team name must not be empty")
	ErrTournamentNameEmpty   = errors.New("tournament name must not be empty")
	ErrKnockoutUnresolved    = errors.New("knockout match needs a winner: submit extra time and, if still level, penalties")
	ErrExtraTimeNotAllowed   = errors.New("extra time is only played after a level knockout score")
	ErrPenaltiesNotAllowed   = errors.New("penalties are only taken after a level knockout score")
	ErrMatchNotReady         = errors.New("both teams of the match are not known yet")

	// Not found
	ErrMatchNotFound = errors.New("match not found")
	ErrGroupNotFound = errors.New("group not found")

	// State
	ErrStageClosed         = errors.New("match does not belong to the active stage")
	ErrGroupsNotCompleted  = errors.New("group stage is not completed")
	ErrInvalidSnapshot     = errors.New("invalid tournament snapshot")
	ErrNotEnoughQualifiers = errors.New("not enough qualifiers for the bracket")
)
