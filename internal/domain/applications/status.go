package applications

import (
	"fmt"
	"strings"
)

// Status is the closed set of lifecycle states an application can be in.
type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusHired     Status = "HIRED"
	StatusRejected  Status = "REJECTED"
)

var allStatuses = [...]Status{
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusHired,
	StatusRejected,
}

var statusLabels = map[Status]string{
	StatusApplied:   "Application Submitted",
	StatusInterview: "Interview Scheduled",
	StatusOffer:     "Offer Received",
	StatusHired:     "Hired",
	StatusRejected:  "Application Rejected",
}

// AllStatuses returns every status in pipeline order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses[:])
	return out
}

// StatusCount is the size of the enumeration.
const StatusCount = len(allStatuses)

// ParseStatus accepts the wire value in any letter case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown application status %q", raw)}
	}
	return s, nil
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	return s == StatusHired || s == StatusRejected
}

// Index is the position of s in pipeline order, or -1 for unknown values.
func (s Status) Index() int {
	for i, v := range allStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Status) String() string { return string(s) }
