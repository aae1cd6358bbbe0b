package enums

// NotifProcessStatus tracks the lifecycle of one notification attempt.
type NotifProcessStatus string

const (
	NotifProcessPending NotifProcessStatus = "pending"
	NotifProcessSent    NotifProcessStatus = "sent"
	NotifProcessFailed  NotifProcessStatus = "failed"
)

func (s NotifProcessStatus) String() string {
	return string(s)
}

func (s NotifProcessStatus) Valid() bool {
	switch s {
	case NotifProcessPending, NotifProcessSent, NotifProcessFailed:
		return true
	}
	return false
}
