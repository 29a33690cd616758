package domain

// LoadStatus enumerates load lifecycle states.
type LoadStatus string

const (
	LoadStatusPending   LoadStatus = "Pending"
	LoadStatusInTransit LoadStatus = "In Transit"
	LoadStatusDelivered LoadStatus = "Delivered"
	// LoadStatusUnassigned is derived from an empty assignment list and is never stored.
	LoadStatusUnassigned LoadStatus = "Unassigned"
)

// Load is a freight load. AssignedTo and Dispatcher hold display names, not ids;
// they are resolved at read time and are not rewritten when a driver or
// dispatcher is renamed.
type Load struct {
	ID          string     `json:"id,omitempty"`
	LoadID      Text       `json:"load_id"`
	City        Text       `json:"city"`
	Destination Text       `json:"destination"`
	TotalMiles  Text       `json:"totalMiles"`
	Rate        Text       `json:"rate"`
	RPM         Text       `json:"rpm"`
	AssignedTo  Strings    `json:"assigned_to"`
	Dispatcher  Text       `json:"dispatcher"`
	Date        Text       `json:"date"`
	Status      LoadStatus `json:"status"`
	// Deleted marks an upsert input as a delete request. It is never persisted.
	Deleted bool `json:"deleted,omitempty"`
}

// Unassigned reports whether no driver is assigned, regardless of Status.
func (l Load) Unassigned() bool {
	return len(l.AssignedTo) == 0
}

// Clone returns a copy that shares no slices with l.
func (l Load) Clone() Load {
	l.AssignedTo = l.AssignedTo.Clone()
	return l
}

// UnmarshalJSON reads the status leniently, like any other text field.
func (s *LoadStatus) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = LoadStatus(t)
	return nil
}
