package moderation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/enums"
)

var ErrInvalidDecision = errors.New("invalid decision payload")

const decisionSeparator = "_"

// EncodeDecision builds the callback payload "<action>_<reporterID>".
func EncodeDecision(action enums.DecisionAction, reporterID int64) string {
	return string(action) + decisionSeparator + strconv.FormatInt(reporterID, 10)
}

// ParseDecision reverses EncodeDecision. The id part must be plain decimal
// digits, so the separator can never occur inside it.
func ParseDecision(payload string) (enums.DecisionAction, int64, error) {
	rawAction, rawID, ok := strings.Cut(payload, decisionSeparator)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidDecision, payload)
	}

	action, ok := enums.ParseDecisionAction(rawAction)
	if !ok {
		return "", 0, fmt.Errorf("%w: unknown action %q", ErrInvalidDecision, rawAction)
	}

	if rawID == "" || strings.Trim(rawID, "0123456789") != "" {
		return "", 0, fmt.Errorf("%w: reporter id %q", ErrInvalidDecision, rawID)
	}
	reporterID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || reporterID <= 0 {
		return "", 0, fmt.Errorf("%w: reporter id %q", ErrInvalidDecision, rawID)
	}

	return action, reporterID, nil
}
