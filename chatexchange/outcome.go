package chatexchange

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// Appeasing the rate limiter gods is hard. When told to wait n seconds,
// wait n * backoffMultiplier + backoffAdder instead.
const (
	backoffMultiplier = 2
	backoffAdder      = 5 * time.Second

	// baseWait is the cooldown after an accepted send before the worker
	// pulls the next queued message.
	baseWait = 5 * time.Second
)

var throttleRe = regexp.MustCompile(`You can perform this action again in (\d+) seconds`)

// OutcomeKind classifies the service's response to one send attempt.
type OutcomeKind int

const (
	// OutcomeAccepted means the message was posted.
	OutcomeAccepted OutcomeKind = iota

	// OutcomeRateLimited means the service throttled the request and
	// told us how long to wait.
	OutcomeRateLimited

	// OutcomeDuplicate means the service collapsed the message as a
	// duplicate of a recent one. Signaled by a success payload whose id
	// is null.
	OutcomeDuplicate

	// OutcomeUnknown covers any response we cannot interpret.
	OutcomeUnknown
)

// String returns the string representation of an OutcomeKind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "unknown_failure"
	}
}

// SendOutcome is the interpreted result of one send attempt. Wait is
// populated for OutcomeRateLimited, Raw for OutcomeUnknown.
type SendOutcome struct {
	Kind OutcomeKind
	Wait int
	Raw  string
}

// parseOutcome interprets the raw body returned by a message POST. A
// structured payload with a non-null id is an accepted send; a null id
// is the service's duplicate-collapse marker. A plain-text body is
// either the throttle sentence or an opaque failure.
func parseOutcome(body string) SendOutcome {
	var payload struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		if payload.ID == nil {
			return SendOutcome{Kind: OutcomeDuplicate}
		}
		return SendOutcome{Kind: OutcomeAccepted}
	}

	if m := throttleRe.FindStringSubmatch(body); m != nil {
		wait, err := strconv.Atoi(m[1])
		if err == nil {
			return SendOutcome{Kind: OutcomeRateLimited, Wait: wait}
		}
	}
	return SendOutcome{Kind: OutcomeUnknown, Raw: body}
}

// nextAttempt decides how the retry loop proceeds after an attempt with
// the given outcome and attempted text. It returns the text for the
// following attempt, the wait before it, and whether the loop is done.
//
// Duplicate appends a trailing space because markdown renders it
// identically while defeating the service's duplicate suppression.
func nextAttempt(out SendOutcome, text string) (string, time.Duration, bool) {
	switch out.Kind {
	case OutcomeAccepted:
		return text, baseWait, true
	case OutcomeRateLimited:
		return text, time.Duration(out.Wait)*time.Second*backoffMultiplier + backoffAdder, false
	case OutcomeDuplicate:
		return text + " ", backoffAdder, false
	default:
		return text, backoffAdder, false
	}
}
