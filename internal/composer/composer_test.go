package composer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	friday  = time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)
	haircut = domain.ResolvedService{ServiceID: "service_haircut", Name: "Haircut", Price: decimal.NewFromInt(300), WorkloadUnits: 1}
	color   = domain.ResolvedService{ServiceID: "service_color", Name: "Hair Color", Price: decimal.NewFromInt(800), WorkloadUnits: 3}
)

func availability() []domain.StylistAvailability {
	return []domain.StylistAvailability{
		{StylistID: "S1", Name: "Ana", RemainingWorkload: 5, Services: []domain.ResolvedService{haircut, color}},
		{StylistID: "S2", Name: "Ben", RemainingWorkload: 4, Services: []domain.ResolvedService{color}},
	}
}

func TestScenarioE(t *testing.T) {
	c := New("B1", friday, availability())

	_, err := c.Toggle("Ana", haircut)
	require.NoError(t, err)
	_, err = c.Toggle("Ben", color)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1100).Equal(c.Total()))

	data, err := c.Compose(Input{AppointmentTime: "14:30", ClientID: "C1"})
	require.NoError(t, err)
	require.Len(t, data.ServiceStylistPairs, 2)
	assert.Equal(t, "B1", data.BranchID)
	assert.Equal(t, "2025-10-17", data.AppointmentDate)
	assert.Equal(t, "S1", data.ServiceStylistPairs[0].StylistID)
	assert.Equal(t, "S2", data.ServiceStylistPairs[1].StylistID)
	assert.Equal(t, 3, data.ServiceStylistPairs[1].WorkloadUnits)
}

func TestToggleIsReversible(t *testing.T) {
	c := New("B1", friday, availability())
	_, err := c.Toggle("Ana", color)
	require.NoError(t, err)
	before := c.Selections()
	totalBefore := c.Total()

	selected, err := c.Toggle("Ana", haircut)
	require.NoError(t, err)
	assert.True(t, selected)
	selected, err = c.Toggle("Ana", haircut)
	require.NoError(t, err)
	assert.False(t, selected)

	assert.Equal(t, before, c.Selections())
	assert.True(t, totalBefore.Equal(c.Total()))
}

func TestComposeKeepsSelectionOrder(t *testing.T) {
	c := New("B1", friday, availability())
	for _, step := range []struct {
		name    string
		service domain.ResolvedService
	}{
		{"Ben", color},
		{"Ana", haircut},
		{"Ana", color},
	} {
		_, err := c.Toggle(step.name, step.service)
		require.NoError(t, err)
	}
	// removing from the middle keeps the relative order of the rest
	_, err := c.Toggle("Ana", haircut)
	require.NoError(t, err)

	data, err := c.Compose(Input{AppointmentTime: "10:00", ClientID: "C1"})
	require.NoError(t, err)

	assert.Equal(t, []domain.ServiceStylistPair{
		{ServiceID: "service_color", StylistID: "S2", Price: decimal.NewNullDecimal(color.Price), WorkloadUnits: 3},
		{ServiceID: "service_color", StylistID: "S1", Price: decimal.NewNullDecimal(color.Price), WorkloadUnits: 3},
	}, data.ServiceStylistPairs)
}

func TestComposeWithoutSelections(t *testing.T) {
	c := New("B1", friday, availability())

	_, err := c.Compose(Input{AppointmentTime: "10:00"})

	assert.ErrorIs(t, err, domain.ErrIncompleteSelection)
}

func TestToggleUnknownStylist(t *testing.T) {
	c := New("B1", friday, availability())

	_, err := c.Toggle("Zed", haircut)

	assert.ErrorIs(t, err, ErrUnknownStylist)
	assert.Empty(t, c.Selections())
}

func TestToggleByID(t *testing.T) {
	c := New("B1", friday, availability())

	selected, err := c.ToggleByID("Ben", "service_color")
	require.NoError(t, err)
	assert.True(t, selected)
	assert.True(t, c.IsSelected("Ben", "service_color"))

	_, err = c.ToggleByID("Ben", "service_haircut")
	assert.ErrorIs(t, err, ErrUnknownService)

	assert.Equal(t, map[string]int{"S2": 3}, c.WorkloadByStylist())

	selected, err = c.ToggleByID("Ben", "service_color")
	require.NoError(t, err)
	assert.False(t, selected)
	assert.True(t, decimal.Zero.Equal(c.Total()))
}
