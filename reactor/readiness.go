// File: reactor/readiness.go
// Author: momentics <momentics@gmail.com>
//
// Readiness helpers decide whether to (de)register an Event based on
// the bound driver's Capability flags and the Event's current state.
// Ported line-for-line in behavior from ngx_handle_read_event,
// ngx_handle_level_read_event, ngx_handle_write_event, and
// ngx_handle_level_write_event in
// original_source/src/event/ngx_event.h.
//
// Invariants enforced by every helper here:
//  1. Never call Add when ev.Active; never call Del when !ev.Active.
//  2. Under LEVEL, a descriptor whose consumer has observed readiness
//     but not yet drained is unregistered, to avoid a wake-up storm; it
//     is re-registered once the consumer reports "not ready".
//  3. Under CLEAR, register once and rely on edge delivery — never
//     de-register on ready.

package reactor

import "github.com/momentics/evreactor/api"

// HandleRead applies the read-direction registration policy for ev
// against the capabilities of drv.
func HandleRead(drv api.Driver, ev *api.Event, opFlags api.OpFlags) error {
	return handle(drv, ev, api.Read, opFlags)
}

// HandleWrite applies the write-direction registration policy for ev
// against the capabilities of drv.
func HandleWrite(drv api.Driver, ev *api.Event, opFlags api.OpFlags) error {
	return handle(drv, ev, api.Write, opFlags)
}

func handle(drv api.Driver, ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	caps := drv.Capabilities()

	switch {
	case caps.Has(api.Clear):
		// kqueue, epoll edge-triggered: register once, rely on edge
		// delivery, never de-register on ready.
		if !ev.Active && !ev.Ready {
			return drv.Add(ev, dir, opFlags|api.ClearMode)
		}
		return nil

	case caps.Has(api.Level):
		// select, poll, /dev/poll, epoll level-triggered.
		if !ev.Active && !ev.Ready {
			return drv.Add(ev, dir, opFlags|api.LevelMode)
		}
		if ev.Active && (ev.Ready || opFlags&api.CloseEvent != 0) {
			return drv.Del(ev, dir, opFlags)
		}
		return nil

	default:
		// AIO, IOCP, edge-with-rtsig, epoll-ET-auto: registration is
		// implicit, no action required.
		return nil
	}
}

// HandleLevelRead is the LEVEL-only variant used when the caller already
// knows the bound driver is level-triggered and is toggling ev in
// response to the consumer's own readiness observation (rather than
// going through the generic capability switch in HandleRead).
func HandleLevelRead(drv api.Driver, ev *api.Event) error {
	return handleLevel(drv, ev, api.Read)
}

// HandleLevelWrite is the write-direction twin of HandleLevelRead.
func HandleLevelWrite(drv api.Driver, ev *api.Event) error {
	return handleLevel(drv, ev, api.Write)
}

func handleLevel(drv api.Driver, ev *api.Event, dir api.Direction) error {
	if !drv.Capabilities().Has(api.Level) {
		return nil
	}
	if !ev.Active && !ev.Ready {
		return drv.Add(ev, dir, api.LevelMode)
	}
	if ev.Active && ev.Ready {
		return drv.Del(ev, dir, 0)
	}
	return nil
}
