package usecase

// ShouldPropagate is the sender-side eligibility rule for a scroll update:
// scroll sync must be globally enabled and the sending pane must not be on
// a detail page. Evaluated once per event, independently of the transport.
func ShouldPropagate(syncEnabled, senderOnDetail bool) bool {
	return syncEnabled && !senderOnDetail
}

// EligibleReceivers returns the source indices a scroll update from sender
// fans out to: every other pane that is visible and not itself on a detail
// page (a user mid-read is never scrolled out from under).
func EligibleReceivers(sender int, visible []bool, onDetail []bool) []int {
	receivers := make([]int, 0, len(visible))
	for i := range visible {
		if i == sender || !visible[i] {
			continue
		}
		if i < len(onDetail) && onDetail[i] {
			continue
		}
		receivers = append(receivers, i)
	}
	return receivers
}
