package domain

import "strings"

// DriverStatus is an open set of driver availability states.
type DriverStatus string

const (
	DriverStatusReady   DriverStatus = "READY"
	DriverStatusBusy    DriverStatus = "BUSY"
	DriverStatusOffDuty DriverStatus = "OFF_DUTY"
)

// completedMarker identifies history entries that count as completed loads.
const completedMarker = "Completed"

// Driver is a truck driver record.
type Driver struct {
	ID                    string       `json:"id,omitempty"`
	Name                  Text         `json:"name"`
	Status                DriverStatus `json:"status"`
	History               Strings      `json:"history"`
	Loads                 Strings      `json:"loads"`
	TruckNumber           Text         `json:"truckNumber"`
	TotalGross            Number       `json:"totalGross"`
	Avatar                Text         `json:"avatar"`
	Email                 Text         `json:"email,omitempty"`
	TelegramUsername      Text         `json:"telegramUsername,omitempty"`
	PhoneNumber           Text         `json:"phoneNumber,omitempty"`
	Address               Text         `json:"address,omitempty"`
	LicenseNumber         Text         `json:"licenseNumber,omitempty"`
	LicenseExpirationDate Text         `json:"licenseExpirationDate,omitempty"`
	Deleted               bool         `json:"deleted,omitempty"`
}

// NewDriver applies creation defaults: ready, no history, no loads, zero gross.
func NewDriver(d Driver) Driver {
	d.ID = ""
	d.Deleted = false
	if d.Status == "" {
		d.Status = DriverStatusReady
	}
	if d.History == nil {
		d.History = Strings{}
	}
	if d.Loads == nil {
		d.Loads = Strings{}
	}
	d.Avatar = Text(Initials(string(d.Name)))
	return d
}

// ActiveLoads is the number of load references held by the driver.
func (d Driver) ActiveLoads() int {
	return len(d.Loads)
}

// CompletedLoads counts history entries mentioning a completed load.
func (d Driver) CompletedLoads() int {
	n := 0
	for _, h := range d.History {
		if strings.Contains(h, completedMarker) {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no slices with d.
func (d Driver) Clone() Driver {
	d.History = d.History.Clone()
	d.Loads = d.Loads.Clone()
	return d
}

// UnmarshalJSON reads the status leniently, like any other text field.
func (s *DriverStatus) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = DriverStatus(t)
	return nil
}
