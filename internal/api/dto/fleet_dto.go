package dto

import (
	"time"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
)

// DriverRequest payload for driver create and update.
type DriverRequest struct {
	Name                  string              `json:"name"`
	Status                domain.DriverStatus `json:"status"`
	TruckNumber           string              `json:"truckNumber"`
	TotalGross            *float64            `json:"totalGross"`
	History               []string            `json:"history"`
	Loads                 []string            `json:"loads"`
	Avatar                string              `json:"avatar"`
	Email                 string              `json:"email"`
	TelegramUsername      string              `json:"telegramUsername"`
	PhoneNumber           string              `json:"phoneNumber"`
	Address               string              `json:"address"`
	LicenseNumber         string              `json:"licenseNumber"`
	LicenseExpirationDate string              `json:"licenseExpirationDate"`
}

// ToDomain builds the driver record for the given id.
func (r DriverRequest) ToDomain(id string) domain.Driver {
	d := domain.Driver{
		ID:                    id,
		Name:                  domain.Text(r.Name),
		Status:                r.Status,
		TruckNumber:           domain.Text(r.TruckNumber),
		History:               stringsOrNil(r.History),
		Loads:                 stringsOrNil(r.Loads),
		Avatar:                domain.Text(r.Avatar),
		Email:                 domain.Text(r.Email),
		TelegramUsername:      domain.Text(r.TelegramUsername),
		PhoneNumber:           domain.Text(r.PhoneNumber),
		Address:               domain.Text(r.Address),
		LicenseNumber:         domain.Text(r.LicenseNumber),
		LicenseExpirationDate: domain.Text(r.LicenseExpirationDate),
	}
	if r.TotalGross != nil {
		d.TotalGross = domain.Number(*r.TotalGross)
	}
	return d
}

// DispatcherRequest payload for dispatcher create and update.
type DispatcherRequest struct {
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Telegram string   `json:"telegram"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	OnDuty   bool     `json:"onDuty"`
	Teams    []string `json:"teams"`
	Loads    []string `json:"loads"`
	Avatar   string   `json:"avatar"`
}

// ToDomain builds the dispatcher record for the given id.
func (r DispatcherRequest) ToDomain(id string) domain.Dispatcher {
	return domain.Dispatcher{
		ID:       id,
		Name:     domain.Text(r.Name),
		Username: domain.Text(r.Username),
		Telegram: domain.Text(r.Telegram),
		Email:    domain.Text(r.Email),
		Phone:    domain.Text(r.Phone),
		OnDuty:   domain.Flag(r.OnDuty),
		Teams:    stringsOrNil(r.Teams),
		Loads:    stringsOrNil(r.Loads),
		Avatar:   domain.Text(r.Avatar),
	}
}

// LoadRequest payload. POST /api/loads dispatches on its shape: deleted set
// removes, an id replaces, neither creates.
type LoadRequest struct {
	ID          string            `json:"id"`
	LoadID      string            `json:"load_id"`
	City        string            `json:"city"`
	Destination string            `json:"destination"`
	TotalMiles  domain.Text       `json:"totalMiles"`
	Rate        domain.Text       `json:"rate"`
	RPM         domain.Text       `json:"rpm"`
	AssignedTo  []string          `json:"assigned_to"`
	Dispatcher  string            `json:"dispatcher"`
	Date        string            `json:"date"`
	Status      domain.LoadStatus `json:"status"`
	Deleted     bool              `json:"deleted"`
}

// ToDomain builds the load record. A non-empty id overrides the body's id.
func (r LoadRequest) ToDomain(id string) domain.Load {
	if id == "" {
		id = r.ID
	}
	return domain.Load{
		ID:          id,
		LoadID:      domain.Text(r.LoadID),
		City:        domain.Text(r.City),
		Destination: domain.Text(r.Destination),
		TotalMiles:  r.TotalMiles,
		Rate:        r.Rate,
		RPM:         r.RPM,
		AssignedTo:  stringsOrNil(r.AssignedTo),
		Dispatcher:  domain.Text(r.Dispatcher),
		Date:        domain.Text(r.Date),
		Status:      r.Status,
		Deleted:     r.Deleted,
	}
}

// MutationResponse reports the outcome of a write. WriteError is set when the
// store rejected the write; Reconciled tells whether the local copy was
// refetched afterwards.
type MutationResponse[T any] struct {
	Action     string `json:"action"`
	Data       *T     `json:"data,omitempty"`
	WriteError string `json:"write_error,omitempty"`
	Reconciled bool   `json:"reconciled"`
}

// DispatcherDetailResponse is a dispatcher with the loads naming it.
type DispatcherDetailResponse struct {
	Dispatcher domain.Dispatcher `json:"dispatcher"`
	Loads      []domain.Load     `json:"loads"`
}

// StatusResponse reports the initial load outcome.
type StatusResponse struct {
	Loaded   bool       `json:"loaded"`
	Error    string     `json:"error,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

// PreferencesRequest payload. Absent toggles keep their value.
type PreferencesRequest struct {
	DarkMode    *bool `json:"darkMode"`
	SidebarOpen *bool `json:"sidebarOpen"`
}

func stringsOrNil(in []string) domain.Strings {
	if in == nil {
		return nil
	}
	return domain.Strings(append([]string{}, in...))
}
