package zakat

// Status is the lifecycle state of a nisab year record.
type Status string

const (
	// StatusDraft is a system-created record awaiting user confirmation.
	StatusDraft Status = "DRAFT"
	// StatusActive is a confirmed record whose Hawl is in progress.
	StatusActive Status = "ACTIVE"
	// StatusInterrupted means wealth stayed below the threshold past the
	// grace period; the Hawl is void and a fresh cycle must start over.
	StatusInterrupted Status = "INTERRUPTED"
	// StatusFinalized is a completed, locked record.
	StatusFinalized Status = "FINALIZED"
	// StatusUnlocked is a finalized record temporarily opened for
	// correction under audit.
	StatusUnlocked Status = "UNLOCKED"
)

// IsValid returns true if the status is one of the defined values
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusInterrupted, StatusFinalized, StatusUnlocked:
		return true
	}
	return false
}

// IsTracking reports whether the record is still observing an open Hawl.
func (s Status) IsTracking() bool {
	return s == StatusDraft || s == StatusActive
}

// IsLocked reports whether the record's figures are immutable.
func (s Status) IsLocked() bool {
	return s == StatusFinalized
}
