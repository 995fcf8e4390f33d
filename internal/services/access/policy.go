package access

import "errors"

var ErrForbidden = errors.New("action is allowed for the moderator only")

// Policy knows the single moderator identity. A zero ModeratorID is the
// unset sentinel and matches nobody.
type Policy struct {
	ModeratorID int64
}

func NewPolicy(moderatorID int64) Policy {
	return Policy{ModeratorID: moderatorID}
}

func (p Policy) IsModerator(userID int64) bool {
	return p.ModeratorID != 0 && userID == p.ModeratorID
}

func (p Policy) RequireModerator(userID int64) error {
	if !p.IsModerator(userID) {
		return ErrForbidden
	}
	return nil
}
