package domain

// StageIndex returns the position of daysUntilDeadline in the stage schedule
// and whether it is a member at all. Membership is exact integer equality;
// there is no tolerance window.
func StageIndex(offsets []int, daysUntilDeadline int) (int, bool) {
	for i, offset := range offsets {
		if offset == daysUntilDeadline {
			return i, true
		}
	}
	return 0, false
}

// StageSatisfied reports whether the stage at stageIndex has already been
// handled for a recipient, given how many successful sends they have on
// record. A recipient at stage index k is satisfied once they hold more than
// k "sent" rows, which makes delivery monotonic: re-running the job after a
// successful send sees the incremented count and skips.
func StageSatisfied(stageIndex, priorSentCount int) bool {
	return priorSentCount > stageIndex
}
