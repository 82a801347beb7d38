// Package workflow resolves pending candidates through the confirmation
// state machine: Detected -> PendingConfirmation -> Confirmed / Cancelled /
// Expired, and on confirmation through the assignment sub-flow. All user
// interaction arrives as opaque action tokens parsed and validated here, at
// the boundary; an invalid token is a ValidationError, never a silent no-op.
package workflow

import (
	"fmt"
	"strconv"
	"strings"
)

// Verb is the closed set of user actions.
type Verb string

const (
	VerbConfirm    Verb = "confirm"
	VerbCancel     Verb = "cancel"
	VerbSelfAssign Verb = "self"
	VerbAssign     Verb = "assign"
	VerbSkip       Verb = "skip"
)

// Action is a parsed, validated user action. Key is the candidate key (the
// triggering message id) for confirm/cancel; TaskID and UserID are set for
// the assignment verbs.
type Action struct {
	Verb   Verb
	Key    int64
	TaskID int64
	UserID int64
}

// ValidationError is a malformed action token. It is logged and reported as
// a soft notice, never propagated as a fatal error.
type ValidationError struct {
	Token  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid action token %q: %s", e.Token, e.Reason)
}

// ParseAction decodes an opaque token echoed back by the transport.
// Token shapes:
//
//	confirm:<key>  cancel:<key>  self:<taskID>  assign:<taskID>:<userID>  skip:<taskID>
func ParseAction(token string) (Action, error) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 {
		return Action{}, &ValidationError{Token: token, Reason: "missing verb or key"}
	}

	verb := Verb(parts[0])
	switch verb {
	case VerbConfirm, VerbCancel:
		if len(parts) != 2 {
			return Action{}, &ValidationError{Token: token, Reason: "expected verb:key"}
		}
		key, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Action{}, &ValidationError{Token: token, Reason: "key is not an integer"}
		}
		return Action{Verb: verb, Key: key}, nil

	case VerbSelfAssign, VerbSkip:
		if len(parts) != 2 {
			return Action{}, &ValidationError{Token: token, Reason: "expected verb:taskID"}
		}
		taskID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Action{}, &ValidationError{Token: token, Reason: "task id is not an integer"}
		}
		return Action{Verb: verb, TaskID: taskID}, nil

	case VerbAssign:
		if len(parts) != 3 {
			return Action{}, &ValidationError{Token: token, Reason: "expected assign:taskID:userID"}
		}
		taskID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Action{}, &ValidationError{Token: token, Reason: "task id is not an integer"}
		}
		userID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Action{}, &ValidationError{Token: token, Reason: "user id is not an integer"}
		}
		return Action{Verb: verb, TaskID: taskID, UserID: userID}, nil

	default:
		return Action{}, &ValidationError{Token: token, Reason: "unknown verb"}
	}
}

// Token encodes the action back into its opaque wire form.
func (a Action) Token() string {
	switch a.Verb {
	case VerbConfirm, VerbCancel:
		return fmt.Sprintf("%s:%d", a.Verb, a.Key)
	case VerbAssign:
		return fmt.Sprintf("%s:%d:%d", a.Verb, a.TaskID, a.UserID)
	default:
		return fmt.Sprintf("%s:%d", a.Verb, a.TaskID)
	}
}
