package applications

// CanTransition reports whether current -> target is a legal status change.
// It is total over every pair, including unknown values (always false).
//
// Rules, first match wins:
//   - self transitions are rejected
//   - Hired and Rejected are terminal
//   - Rejected is reachable from any active status
//   - otherwise only forward edges: Applied -> {Interview, Offer},
//     Interview -> {Offer, Hired}, Offer -> {Hired}
func CanTransition(current, target Status) bool {
	if !current.Valid() || !target.Valid() {
		return false
	}
	if current == target {
		return false
	}
	if current == StatusHired || current == StatusRejected {
		return false
	}
	if target == StatusRejected {
		return true
	}
	switch current {
	case StatusApplied:
		return target == StatusInterview || target == StatusOffer
	case StatusInterview:
		return target == StatusOffer || target == StatusHired
	case StatusOffer:
		return target == StatusHired
	default:
		return false
	}
}

// AllowedTargets lists the statuses reachable from current, in pipeline order.
func AllowedTargets(current Status) []Status {
	out := make([]Status, 0, StatusCount)
	for _, target := range allStatuses {
		if CanTransition(current, target) {
			out = append(out, target)
		}
	}
	return out
}
