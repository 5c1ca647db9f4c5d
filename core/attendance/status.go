package attendance

import "strings"

// Status is the attendance status of a student on a date.
type Status string

// Statuses
const (
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
	StatusLate       Status = "late"
	StatusLeaveEarly Status = "leaveEarly"
)

// Statuses is the fixed click-to-advance cycle.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusLeaveEarly}

var (
	labels = map[Status]string{
		StatusPresent:    "出席",
		StatusAbsent:     "欠席",
		StatusLate:       "遅刻",
		StatusLeaveEarly: "早退",
	}
	shortLabels = map[Status]string{
		StatusPresent:    "", // nothing shown on the desk
		StatusAbsent:     "欠",
		StatusLate:       "遅",
		StatusLeaveEarly: "早",
	}
)

func ParseStatus(s string) (Status, error) {
	status := Status(strings.TrimSpace(s))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s Status) IsValid() bool {
	_, ok := labels[s]
	return ok
}

// Next returns the status following `s` in the cycle, wrapping around.
// Unknown statuses restart the cycle.
func (s Status) Next() Status {
	for i, status := range Statuses {
		if status == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return Statuses[0]
}

// Label returns the Japanese label, e.g. "欠席".
func (s Status) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// ShortLabel returns the one character desk label; empty for present.
func (s Status) ShortLabel() string {
	return shortLabels[s]
}

type StatusInfo struct {
	Value      Status `json:"value"`
	Label      string `json:"label"`
	ShortLabel string `json:"short_label"`
}

func StatusInfos() []StatusInfo {
	infos := make([]StatusInfo, 0, len(Statuses))
	for _, s := range Statuses {
		infos = append(infos, StatusInfo{Value: s, Label: s.Label(), ShortLabel: s.ShortLabel()})
	}
	return infos
}
