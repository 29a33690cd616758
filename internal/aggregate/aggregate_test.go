package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
)

func TestTotalRevenueToleratesMalformedRates(t *testing.T) {
	loads := []domain.Load{{Rate: "$100"}, {Rate: "200"}, {Rate: "bad"}, {Rate: "$50.5"}}
	assert.InDelta(t, 350.5, TotalRevenue(loads), 1e-9)
}

func TestParseRate(t *testing.T) {
	cases := map[domain.Text]float64{
		"$100":   100,
		"€75.25": 75.25,
		" 42 ":   42,
		"":       0,
		"$":      0,
		"1,200":  0,
		"NaN":    0,
		"12abc":  0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, ParseRate(in), 1e-9, "rate %q", in)
	}
}

func TestPercentGuardsEmptyTotals(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 0, Percent(3, 0))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(4, 4))
}

func TestSummarize(t *testing.T) {
	drivers := []domain.Driver{
		{Name: "Ann", Status: domain.DriverStatusReady},
		{Name: "Bob", Status: domain.DriverStatusBusy},
		{Name: "Cid", Status: domain.DriverStatusReady},
	}
	dispatchers := []domain.Dispatcher{{Name: "Kim", OnDuty: true}, {Name: "Lou"}}
	loads := []domain.Load{
		{Status: domain.LoadStatusInTransit, Rate: "$100"},
		{Status: domain.LoadStatusDelivered, Rate: "300"},
		{Status: domain.LoadStatusPending},
	}

	s := Summarize(drivers, dispatchers, loads)
	assert.Equal(t, 2, s.ReadyDrivers)
	assert.Equal(t, 67, s.ReadyPercent)
	assert.Equal(t, 50, s.OnDutyPercent)
	assert.Equal(t, 1, s.InTransit)
	assert.Equal(t, 33, s.DeliveredPercent)
	assert.InDelta(t, 400, s.TotalRevenue, 1e-9)

	empty := Summarize(nil, nil, nil)
	assert.Zero(t, empty.ReadyPercent)
	assert.Zero(t, empty.OnDutyPercent)
	assert.Zero(t, empty.DeliveredPercent)
}

func TestStatusDistributionCountsUnassignedIndependently(t *testing.T) {
	loads := []domain.Load{
		{Status: domain.LoadStatusPending},
		{Status: domain.LoadStatusPending, AssignedTo: domain.Strings{"Ann"}},
		{Status: domain.LoadStatusInTransit, AssignedTo: domain.Strings{"Bob"}},
		{Status: domain.LoadStatusDelivered, AssignedTo: domain.Strings{}},
		{Status: "Cancelled", AssignedTo: domain.Strings{"Ann"}},
	}

	got := StatusDistribution(loads)
	assert.Equal(t, []StatusCount{
		{Status: domain.LoadStatusInTransit, Count: 1},
		{Status: domain.LoadStatusPending, Count: 2},
		{Status: domain.LoadStatusDelivered, Count: 1},
		{Status: domain.LoadStatusUnassigned, Count: 2},
	}, got)
}

func TestActivity(t *testing.T) {
	drivers := []domain.Driver{
		{Name: "Ann", Loads: domain.Strings{"L1", "L2"}, History: domain.Strings{"Completed L0", "Cancelled L9", "Completed L8"}},
		{Name: "Bob"},
	}
	assert.Equal(t, []DriverActivity{
		{Name: "Ann", Active: 2, Completed: 2},
		{Name: "Bob", Active: 0, Completed: 0},
	}, Activity(drivers))
}

func TestBuildResolvesRecentLoads(t *testing.T) {
	in := Input{
		Drivers:     []domain.Driver{{ID: "d1", Name: "Ann"}},
		Dispatchers: []domain.Dispatcher{{ID: "p1", Name: "Kim"}},
		Loads: []domain.Load{
			{LoadID: "A1", AssignedTo: domain.Strings{"Ann"}, Dispatcher: "Kim"},
			{LoadID: "B2", Dispatcher: "Gone"},
			{LoadID: "C3"},
			{LoadID: "D4"},
		},
		Unread: 5,
	}

	dash := Build(in)
	require.Len(t, dash.RecentLoads, DefaultRecentLoads)
	first := dash.RecentLoads[0]
	require.Len(t, first.Drivers, 1)
	assert.Equal(t, "d1", first.Drivers[0].ID)
	require.NotNil(t, first.Dispatcher)
	assert.Equal(t, "p1", first.Dispatcher.ID)
	assert.Nil(t, dash.RecentLoads[1].Dispatcher)
	assert.Empty(t, dash.RecentLoads[1].Drivers)
	assert.Equal(t, 5, dash.Notifications)
	assert.Len(t, dash.Distribution, 4)

	in.RecentLimit = 10
	assert.Len(t, Build(in).RecentLoads, 4)
}
