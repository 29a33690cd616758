package domain

// Dispatcher coordinates loads for one or more teams.
type Dispatcher struct {
	ID       string  `json:"id,omitempty"`
	Name     Text    `json:"name"`
	Username Text    `json:"username,omitempty"`
	Telegram Text    `json:"telegram,omitempty"`
	Email    Text    `json:"email,omitempty"`
	Phone    Text    `json:"phone,omitempty"`
	OnDuty   Flag    `json:"onDuty"`
	Teams    Strings `json:"teams"`
	Loads    Strings `json:"loads"`
	Avatar   Text    `json:"avatar"`
	Deleted  bool    `json:"deleted,omitempty"`
}

// NewDispatcher applies creation defaults: off duty with no loads.
func NewDispatcher(d Dispatcher) Dispatcher {
	d.ID = ""
	d.Deleted = false
	d.OnDuty = false
	d.Loads = Strings{}
	if d.Teams == nil {
		d.Teams = Strings{}
	}
	d.Avatar = Text(Initials(string(d.Name)))
	return d
}

// InTeam reports team membership. Membership is non-exclusive.
func (d Dispatcher) InTeam(team string) bool {
	for _, t := range d.Teams {
		if t == team {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with d.
func (d Dispatcher) Clone() Dispatcher {
	d.Teams = d.Teams.Clone()
	d.Loads = d.Loads.Clone()
	return d
}
