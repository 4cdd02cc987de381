package actor

import (
	"context"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicesim/internal/domain"
	"devicesim/internal/simulate"
)

type noopObserver struct {
	terminatedPort domain.Port
	terminatedErr  error
	done           chan struct{}
}

func newNoopObserver() *noopObserver {
	return &noopObserver{done: make(chan struct{})}
}

func (o *noopObserver) ActorTerminated(port domain.Port, err error) {
	o.terminatedPort = port
	o.terminatedErr = err
	close(o.done)
}

func staticProfile() domain.BehaviorProfile {
	return domain.BehaviorProfile{
		"1.3.6.1.2.1.1.3.0": {
			Datum:    domain.ProfileDatum{Type: domain.SnmpInteger, Value: 7},
			Behavior: domain.BehaviorDescriptor{Kind: domain.BehaviorStaticValue},
		},
	}
}

func TestSpawn_GetInfo(t *testing.T) {
	ctx := context.Background()
	d, err := Spawn(ctx, "cm-30050", 30050, domain.DeviceCableModem, staticProfile(), simulate.New(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Stop(time.Second) })

	info, err := d.GetInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Port(30050), info.Port)
	assert.Equal(t, domain.DeviceCableModem, info.DeviceType)
}

func TestTick_AdvancesUptime(t *testing.T) {
	ctx := context.Background()
	d, err := Spawn(ctx, "cm-30051", 30051, domain.DeviceCableModem, staticProfile(), simulate.New(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Stop(time.Second) })

	before, err := d.GetInfo(ctx)
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx))
	require.NoError(t, d.Tick(ctx))

	after, err := d.GetInfo(ctx)
	require.NoError(t, err)
	assert.Greater(t, after.Uptime, before.Uptime)
}

func TestHandleSNMPRequest_KnownAndUnknownOID(t *testing.T) {
	ctx := context.Background()
	d, err := Spawn(ctx, "cm-30052", 30052, domain.DeviceCableModem, staticProfile(), simulate.New(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Stop(time.Second) })

	pdu, err := d.HandleSNMPRequest(ctx, gosnmp.SnmpPDU{Name: "1.3.6.1.2.1.1.3.0"})
	require.NoError(t, err)
	assert.Equal(t, gosnmp.Integer, pdu.Type)
	assert.Equal(t, 7, pdu.Value)

	pdu, err = d.HandleSNMPRequest(ctx, gosnmp.SnmpPDU{Name: "9.9.9.9.9"})
	require.NoError(t, err)
	assert.Equal(t, gosnmp.NoSuchObject, pdu.Type)
}

func TestStop_NotifiesObserver(t *testing.T) {
	ctx := context.Background()
	obs := newNoopObserver()
	d, err := Spawn(ctx, "cm-30053", 30053, domain.DeviceCableModem, staticProfile(), simulate.New(), obs)
	require.NoError(t, err)

	d.Stop(time.Second)

	select {
	case <-obs.done:
	case <-time.After(time.Second):
		t.Fatal("observer was not notified of termination")
	}
	assert.Equal(t, domain.Port(30053), obs.terminatedPort)
	assert.NoError(t, obs.terminatedErr)
}

func TestCrash_ContextCancelNotifiesObserverWithError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	obs := newNoopObserver()
	d, err := Spawn(ctx, "cm-30054", 30054, domain.DeviceCableModem, staticProfile(), simulate.New(), obs)
	require.NoError(t, err)

	cancel()

	select {
	case <-obs.done:
	case <-time.After(time.Second):
		t.Fatal("observer was not notified of termination")
	}
	assert.Equal(t, domain.Port(30054), obs.terminatedPort)
	assert.Error(t, obs.terminatedErr)

	_, err = d.GetInfo(context.Background())
	assert.ErrorIs(t, err, domain.ErrActorCrashed)
}

func TestLastActivityNanos_UpdatesOnOperations(t *testing.T) {
	ctx := context.Background()
	d, err := Spawn(ctx, "cm-30055", 30055, domain.DeviceCableModem, staticProfile(), simulate.New(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Stop(time.Second) })

	first := d.LastActivityNanos()
	time.Sleep(5 * time.Millisecond)
	_, err = d.GetInfo(ctx)
	require.NoError(t, err)

	assert.Greater(t, d.LastActivityNanos(), first)
}
