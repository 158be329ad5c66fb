package types

// ContextUserKey is where the session guard stores the authenticated
// identity on the request context.
const ContextUserKey = "user"

// Shift statuses a schedule submission may carry.
const (
	ShiftScheduled   = "Scheduled"
	ShiftOnShift     = "On-Shift"
	ShiftLateClockIn = "Late Clock In"
	ShiftOnBreak     = "On Break"
	ShiftClockedOut  = "Clocked Out"
	ShiftNoShow      = "No Show"
	ShiftAbsent      = "Absent"
)

var ShiftStatuses = []string{
	ShiftScheduled,
	ShiftOnShift,
	ShiftLateClockIn,
	ShiftOnBreak,
	ShiftClockedOut,
	ShiftNoShow,
	ShiftAbsent,
}

func ValidShiftStatus(status string) bool {
	for _, s := range ShiftStatuses {
		if s == status {
			return true
		}
	}
	return false
}
