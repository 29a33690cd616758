package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
)

func loadIDs(loads []domain.Load) []string {
	out := make([]string, len(loads))
	for i, l := range loads {
		out[i] = string(l.LoadID)
	}
	return out
}

func driverNames(drivers []domain.Driver) []string {
	out := make([]string, len(drivers))
	for i, d := range drivers {
		out[i] = string(d.Name)
	}
	return out
}

func sampleLoads() []domain.Load {
	return []domain.Load{
		{ID: "1", LoadID: "A1", City: "Reno", Destination: "Boise", Status: domain.LoadStatusPending, AssignedTo: domain.Strings{"Ann"}, Rate: "$900", TotalMiles: "120"},
		{ID: "2", LoadID: "B2", City: "Reno", Destination: "Fresno", Status: domain.LoadStatusDelivered, AssignedTo: domain.Strings{"Bob"}, Rate: "1500", TotalMiles: "95"},
		{ID: "3", LoadID: "C3", City: "Austin", Destination: "Dallas", Status: domain.LoadStatusDelivered, AssignedTo: domain.Strings{"Ann"}, Rate: "$80", TotalMiles: "1000"},
		{ID: "4", LoadID: "D4", City: "Denver", Destination: "Reno", Status: domain.LoadStatusPending, Rate: "n/a"},
	}
}

func TestSortIsStableInBothDirections(t *testing.T) {
	drivers := []domain.Driver{
		{Name: "Cid", Status: domain.DriverStatusReady},
		{Name: "Ann", Status: domain.DriverStatusBusy},
		{Name: "Bob", Status: domain.DriverStatusReady},
		{Name: "Dee", Status: domain.DriverStatusBusy},
	}

	asc, err := Sort(drivers, DriverFields, SortState{Field: "status", Direction: Ascending})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Dee", "Cid", "Bob"}, driverNames(asc))

	desc, err := Sort(drivers, DriverFields, SortState{Field: "status", Direction: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cid", "Bob", "Ann", "Dee"}, driverNames(desc))

	assert.Equal(t, []string{"Cid", "Ann", "Bob", "Dee"}, driverNames(drivers), "input is left untouched")
}

func TestSortNumericText(t *testing.T) {
	sorted, err := Sort(sampleLoads(), LoadFields, SortState{Field: "totalMiles", Direction: Ascending})
	require.NoError(t, err)
	assert.Equal(t, []string{"B2", "A1", "C3", "D4"}, loadIDs(sorted))

	sorted, err = Sort(sampleLoads(), LoadFields, SortState{Field: "rate", Direction: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"D4", "B2", "A1", "C3"}, loadIDs(sorted))
}

func TestSortRejectsUnknownField(t *testing.T) {
	_, err := Sort(sampleLoads(), LoadFields, SortState{Field: "weight"})
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = Sort(sampleLoads(), LoadFields, SortState{Field: "city", Direction: "sideways"})
	require.ErrorIs(t, err, ErrInvalidDirection)
}

func TestSortStateToggle(t *testing.T) {
	s := SortState{}.Toggle("name")
	assert.Equal(t, SortState{Field: "name", Direction: Ascending}, s)

	s = s.Toggle("name")
	assert.Equal(t, SortState{Field: "name", Direction: Descending}, s)

	s = s.Toggle("name")
	assert.Equal(t, Ascending, s.Direction)

	s = s.Toggle("name").Toggle("status")
	assert.Equal(t, SortState{Field: "status", Direction: Ascending}, s)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	d, err = ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)

	_, err = ParseDirection("up")
	require.ErrorIs(t, err, ErrInvalidDirection)
}

func TestLoadsSearchAndStatusCompose(t *testing.T) {
	got, err := Loads(sampleLoads(), LoadQuery{Search: "reno", Status: "Delivered"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, loadIDs(got))

	got, err = Loads(sampleLoads(), LoadQuery{Search: "RENO"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2", "D4"}, loadIDs(got), "destination matches too")

	got, err = Loads(sampleLoads(), LoadQuery{Status: StatusAllLoads, Sort: SortState{Field: "load_id", Direction: Descending}})
	require.NoError(t, err)
	assert.Equal(t, []string{"D4", "C3", "B2", "A1"}, loadIDs(got))
}

func TestLoadsUnassignedIgnoresStoredStatus(t *testing.T) {
	loads := sampleLoads()
	loads = append(loads, domain.Load{LoadID: "E5", Status: domain.LoadStatusInTransit, AssignedTo: domain.Strings{}})

	got, err := Loads(loads, LoadQuery{Status: StatusUnassigned})
	require.NoError(t, err)
	assert.Equal(t, []string{"D4", "E5"}, loadIDs(got))

	got, err = Loads(loads, LoadQuery{Status: "Pending"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "D4"}, loadIDs(got))
}

func TestDriversSearchAndStatus(t *testing.T) {
	drivers := []domain.Driver{
		{Name: "Ann Lee", Status: domain.DriverStatusReady},
		{Name: "Bob Ray", Status: domain.DriverStatusBusy},
		{Name: "Joanne Fox", Status: domain.DriverStatusReady},
	}

	got, err := Drivers(drivers, DriverQuery{Search: "ann"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann Lee", "Joanne Fox"}, driverNames(got))

	got, err = Drivers(drivers, DriverQuery{Status: "BUSY"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob Ray"}, driverNames(got))

	got, err = Drivers(drivers, DriverQuery{Status: StatusAll, Search: "   "})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestDispatchersTeamFilter(t *testing.T) {
	dispatchers := []domain.Dispatcher{
		{Name: "Kim", Teams: domain.Strings{"North", "West"}, OnDuty: true},
		{Name: "Lou", Teams: domain.Strings{"South"}},
		{Name: "Max", Teams: domain.Strings{"West"}},
	}

	got, err := Dispatchers(dispatchers, DispatcherQuery{Team: "West", Sort: SortState{Field: "name", Direction: Descending}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Text("Max"), got[0].Name)
	assert.Equal(t, domain.Text("Kim"), got[1].Name)

	got, err = Dispatchers(dispatchers, DispatcherQuery{Sort: SortState{Field: "onDuty", Direction: Descending}})
	require.NoError(t, err)
	assert.Equal(t, domain.Text("Kim"), got[0].Name)
}

func TestResolveByName(t *testing.T) {
	drivers := []domain.Driver{{ID: "d1", Name: "Ann"}, {ID: "d2", Name: "Bob"}}
	dispatchers := []domain.Dispatcher{{ID: "p1", Name: "Kim"}}

	load := domain.Load{AssignedTo: domain.Strings{"Bob", "Ghost", "Ann"}, Dispatcher: "Kim"}
	resolved := ResolveDrivers(load, drivers)
	require.Len(t, resolved, 2)
	assert.Equal(t, "d2", resolved[0].ID)
	assert.Equal(t, "d1", resolved[1].ID)

	d, ok := ResolveDispatcher(load, dispatchers)
	require.True(t, ok)
	assert.Equal(t, "p1", d.ID)

	_, ok = ResolveDispatcher(domain.Load{Dispatcher: "Nobody"}, dispatchers)
	assert.False(t, ok)
}
