package charm

type Status string

const (
	StatusPending   Status = "pending"
	StatusRendered  Status = "rendered"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

var successor = map[Status]Status{
	StatusPending:  StatusRendered,
	StatusRendered: StatusReady,
	StatusReady:    StatusCompleted,
}

func (s Status) String() string { return string(s) }

// Terminal reports whether no further mutation is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRendered, StatusReady, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Predecessor returns the status a record must hold before moving to s.
func (s Status) Predecessor() (Status, bool) {
	for from, to := range successor {
		if to == s {
			return from, true
		}
	}
	return "", false
}

func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusError {
		return true
	}
	return successor[from] == to
}
