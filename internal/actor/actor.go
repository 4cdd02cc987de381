// Package actor implements the Device Actor (C4): a long-lived entity per
// port that owns its state exclusively, answers queries, and advances
// time. Each actor is a single-consumer goroutine reading off a mailbox
// channel, mirroring the source's lightweight supervised processes — state
// is reachable only via the channel, never shared.
package actor

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/gosnmp/gosnmp"

	"devicesim/internal/domain"
	"devicesim/internal/simulate"
)

// Info is the read-only snapshot returned by GetInfo.
type Info struct {
	DeviceID   string
	Port       domain.Port
	DeviceType domain.DeviceType
	Uptime     time.Duration
}

type request struct {
	kind  requestKind
	pdu   gosnmp.SnmpPDU
	reply chan response
	done  chan struct{}
}

type requestKind int

const (
	reqGetInfo requestKind = iota
	reqHandleSNMP
	reqTick
	reqStop
)

type response struct {
	info Info
	pdu  gosnmp.SnmpPDU
	err  error
}

// TerminationObserver is notified exactly once when an actor's goroutine
// exits, whether by cooperative Stop or internal failure. The lazy pool
// (C5) implements this to remove the registry entry without the registry
// ever reaching into actor state directly (the registry is mutated only
// by the pool).
type TerminationObserver interface {
	ActorTerminated(port domain.Port, err error)
}

// Handle is the send-end the pool hands out to callers; the actor's state
// stays behind the channel.
type Handle struct {
	port    domain.Port
	mailbox chan request
	started int64 // unix nanos at spawn; uptime advances only through Tick
	done    chan struct{}
}

// Port returns the port this handle addresses.
func (h *Handle) Port() domain.Port { return h.port }

// Device wraps a Handle with the atomic activity timestamp the reaper
// polls, updated on every externally observable operation without the
// reaper ever reaching into the actor's goroutine.
type Device struct {
	*Handle
	lastActivityNS int64
}

// LastActivityNanos returns the wall-clock time, in Unix nanoseconds, of
// the most recent externally observable operation.
func (d *Device) LastActivityNanos() int64 {
	return atomic.LoadInt64(&d.lastActivityNS)
}

func (d *Device) touch() {
	atomic.StoreInt64(&d.lastActivityNS, time.Now().UnixNano())
}

// Spawn starts a new device actor goroutine and returns its handle. The
// actor starts from domain.NewDeviceState's fixed defaults, the same for
// every device type (the characteristics table is not consulted), and
// answers from the supplied profile; it then blocks on its mailbox until
// Stop or an internal failure.
func Spawn(ctx context.Context, deviceID string, port domain.Port, deviceType domain.DeviceType, profile domain.BehaviorProfile, sim *simulate.Simulator, observer TerminationObserver) (*Device, error) {
	if sim == nil {
		sim = simulate.New()
	}
	state := domain.NewDeviceState(deviceID, port, deviceType)

	mailbox := make(chan request, 16)
	done := make(chan struct{})
	d := &Device{
		Handle: &Handle{
			port:    port,
			mailbox: mailbox,
			started: time.Now().UnixNano(),
			done:    done,
		},
	}
	d.touch()

	go d.run(ctx, state, profile, sim, observer, mailbox, done)
	return d, nil
}

func (d *Device) run(ctx context.Context, state *domain.DeviceState, profile domain.BehaviorProfile, sim *simulate.Simulator, observer TerminationObserver, mailbox chan request, done chan struct{}) {
	var exitErr error
	defer func() {
		if r := recover(); r != nil {
			exitErr = fmt.Errorf("%w: %v", domain.ErrActorCrashed, r)
			log.Printf("[ERROR] actor port=%d panicked: %v", d.port, r)
		}
		if observer != nil {
			observer.ActorTerminated(d.port, exitErr)
		}
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			exitErr = ctx.Err()
			return
		case req := <-mailbox:
			d.touch()
			switch req.kind {
			case reqGetInfo:
				req.reply <- response{info: Info{
					DeviceID:   state.DeviceID,
					Port:       state.Port,
					DeviceType: state.DeviceType,
					Uptime:     time.Duration(state.UptimeSeconds) * time.Second,
				}}
			case reqHandleSNMP:
				pdu, err := handleSNMP(req.pdu, state, profile, sim)
				req.reply <- response{pdu: pdu, err: err}
			case reqTick:
				state.UptimeSeconds++
				req.reply <- response{}
			case reqStop:
				req.reply <- response{}
				return
			}
		}
	}
}

// GetInfo returns a point-in-time snapshot of the actor's identity and
// uptime.
func (d *Device) GetInfo(ctx context.Context) (Info, error) {
	reply := make(chan response, 1)
	select {
	case d.mailbox <- request{kind: reqGetInfo, reply: reply}:
	case <-d.done:
		return Info{}, domain.ErrActorCrashed
	case <-ctx.Done():
		return Info{}, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.info, r.err
	case <-d.done:
		return Info{}, domain.ErrActorCrashed
	case <-ctx.Done():
		return Info{}, ctx.Err()
	}
}

// HandleSNMPRequest delegates value generation for pdu's OID to the value
// simulator and returns a reply PDU. The PDU shape is opaque to the core;
// the actor only inspects its Name to find the matching profile binding.
func (d *Device) HandleSNMPRequest(ctx context.Context, pdu gosnmp.SnmpPDU) (gosnmp.SnmpPDU, error) {
	reply := make(chan response, 1)
	select {
	case d.mailbox <- request{kind: reqHandleSNMP, pdu: pdu, reply: reply}:
	case <-d.done:
		return gosnmp.SnmpPDU{}, domain.ErrActorCrashed
	case <-ctx.Done():
		return gosnmp.SnmpPDU{}, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.pdu, r.err
	case <-d.done:
		return gosnmp.SnmpPDU{}, domain.ErrActorCrashed
	case <-ctx.Done():
		return gosnmp.SnmpPDU{}, ctx.Err()
	}
}

// Tick advances uptime_seconds by one wall-clock second's worth of
// simulated time. Callers typically drive this from a single shared
// ticker rather than per-actor timers, to bound goroutine/timer count at
// scale.
func (d *Device) Tick(ctx context.Context) error {
	reply := make(chan response, 1)
	select {
	case d.mailbox <- request{kind: reqTick, reply: reply}:
	case <-d.done:
		return domain.ErrActorCrashed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-d.done:
		return domain.ErrActorCrashed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop requests cooperative shutdown and waits up to grace for the actor
// to exit before returning; it does not force-kill. An actor that has not
// answered within grace keeps running until it reaches the stop request or
// the context passed to Spawn is canceled. The pool passes every actor its
// own shared context, which only LazyDevicePool.Shutdown cancels; there is
// no per-actor context.
func (d *Device) Stop(grace time.Duration) {
	reply := make(chan response, 1)
	select {
	case d.mailbox <- request{kind: reqStop, reply: reply}:
		select {
		case <-reply:
		case <-d.done:
		case <-time.After(grace):
		}
	case <-d.done:
	case <-time.After(grace):
	}
}

// Done returns a channel closed when the actor's goroutine has exited.
func (d *Device) Done() <-chan struct{} { return d.done }

// handleSNMP is the pure translation from a PDU's OID to a simulated
// value, reusing the gosnmp typed constants as the wire vocabulary so a
// real listener can pass PDUs straight through.
func handleSNMP(pdu gosnmp.SnmpPDU, state *domain.DeviceState, profile domain.BehaviorProfile, sim *simulate.Simulator) (gosnmp.SnmpPDU, error) {
	binding, ok := profile[domain.OID(pdu.Name)]
	if !ok {
		return gosnmp.SnmpPDU{Name: pdu.Name, Type: gosnmp.NoSuchObject}, nil
	}

	typed := sim.SimulateValue(binding.Datum, binding.Behavior, state)
	out := gosnmp.SnmpPDU{Name: pdu.Name}
	switch typed.Kind {
	case domain.ValueCounter32:
		out.Type = gosnmp.Counter32
		out.Value = typed.Counter32
	case domain.ValueGauge32:
		out.Type = gosnmp.Gauge32
		out.Value = typed.Gauge32
	case domain.ValueTimeticks:
		out.Type = gosnmp.TimeTicks
		out.Value = typed.Timeticks
	case domain.ValueInteger:
		out.Type = gosnmp.Integer
		out.Value = typed.Integer
	case domain.ValueString:
		out.Type = gosnmp.OctetString
		out.Value = typed.String
	default:
		out.Type = gosnmp.OctetString
		out.Value = typed.Opaque
	}
	return out, nil
}
