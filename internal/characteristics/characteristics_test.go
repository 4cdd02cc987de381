package characteristics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devicesim/internal/domain"
)

func TestLookup_DocumentedRelations(t *testing.T) {
	cableModem := Lookup(domain.DeviceCableModem)
	switchC := Lookup(domain.DeviceSwitch)
	cmts := Lookup(domain.DeviceCMTS)
	router := Lookup(domain.DeviceRouter)

	assert.Greater(t, switchC.TypicalInterfaces, cableModem.TypicalInterfaces)
	assert.Greater(t, cmts.TypicalInterfaces, cableModem.TypicalInterfaces)

	assert.GreaterOrEqual(t, cmts.ExpectedUptimeDays, switchC.ExpectedUptimeDays)
	assert.GreaterOrEqual(t, switchC.ExpectedUptimeDays, cableModem.ExpectedUptimeDays)

	assert.True(t, cableModem.SignalMonitoring)
	assert.True(t, Lookup(domain.DeviceCMTS).SignalMonitoring)
	assert.False(t, switchC.SignalMonitoring)
	assert.False(t, router.SignalMonitoring)
}

func TestLookup_UnknownTypeFallsBack(t *testing.T) {
	c := Lookup(domain.DeviceType("made_up"))
	assert.Equal(t, fallback, c)
}
