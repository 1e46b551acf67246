// Package remoteplayer drives the embeddable player living in the
// browser. The server never touches the player directly; it broadcasts
// typed commands over the WebSocket and the page holding the iframe
// executes them, reporting readiness and end-of-track back as messages.
package remoteplayer

import (
	"fmt"
	"sync"

	"github.com/gharapp/server/internal/service/player"
)

const (
	actionCreate    = "create"
	actionPlay      = "play"
	actionPause     = "pause"
	actionMute      = "mute"
	actionUnmute    = "unmute"
	actionSetVolume = "set_volume"
	actionDestroy   = "destroy"
)

type iBroadcaster interface {
	Broadcast(message any) error
}

// Command is the wire shape of a player instruction pushed to clients.
type Command struct {
	Action   string `json:"action"`
	SourceId string `json:"sourceId,omitempty"`
	Volume   *int   `json:"volume,omitempty"`
	Muted    *bool  `json:"muted,omitempty"`
}

type commandMessage struct {
	Type    string  `json:"type"`
	Payload Command `json:"payload"`
}

type Facility struct {
	broadcaster iBroadcaster

	mu       sync.Mutex
	ready    bool
	readyFns []func()
	current  *instance
}

func NewFacility(broadcaster iBroadcaster) *Facility {
	return &Facility{broadcaster: broadcaster}
}

func (f *Facility) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.ready
}

func (f *Facility) OnReady(fn func()) {
	f.mu.Lock()
	if f.ready {
		f.mu.Unlock()
		fn()
		return
	}
	f.readyFns = append(f.readyFns, fn)
	f.mu.Unlock()
}

// MarkReady records that a client-side player host reported readiness.
// Registered callbacks fire once; repeated reports from reconnecting
// clients are ignored.
func (f *Facility) MarkReady() {
	f.mu.Lock()
	if f.ready {
		f.mu.Unlock()
		return
	}
	f.ready = true
	fns := f.readyFns
	f.readyFns = nil
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// NotifyEnded routes a client's end-of-track report to the live
// instance's callback. Reports arriving after the instance was replaced
// are dropped.
func (f *Facility) NotifyEnded() {
	f.mu.Lock()
	current := f.current
	f.mu.Unlock()

	if current == nil || current.onEnded == nil {
		return
	}

	current.onEnded()
}

func (f *Facility) Create(sourceId string, params *player.CreateInstanceParams) (player.Instance, error) {
	inst := &instance{
		facility: f,
		sourceId: sourceId,
		onEnded:  params.OnEnded,
	}

	f.mu.Lock()
	f.current = inst
	f.mu.Unlock()

	volume := params.Volume
	muted := params.Muted
	if err := f.send(inst, Command{
		Action:   actionCreate,
		SourceId: sourceId,
		Volume:   &volume,
		Muted:    &muted,
	}); err != nil {
		return nil, err
	}

	return inst, nil
}

// send broadcasts a command on behalf of inst. A stale handle, one that
// was already replaced by a newer Create, must not reach clients.
func (f *Facility) send(inst *instance, cmd Command) error {
	f.mu.Lock()
	if f.current != inst {
		f.mu.Unlock()
		return fmt.Errorf("player instance no longer live")
	}
	f.mu.Unlock()

	if err := f.broadcaster.Broadcast(commandMessage{Type: "PLAYER_CMD", Payload: cmd}); err != nil {
		return fmt.Errorf("failed to broadcast player command: %w", err)
	}

	return nil
}

type instance struct {
	facility *Facility
	sourceId string
	onEnded  func()
}

func (i *instance) Play() error {
	return i.facility.send(i, Command{Action: actionPlay})
}

func (i *instance) Pause() error {
	return i.facility.send(i, Command{Action: actionPause})
}

func (i *instance) Mute() error {
	return i.facility.send(i, Command{Action: actionMute})
}

func (i *instance) UnMute() error {
	return i.facility.send(i, Command{Action: actionUnmute})
}

func (i *instance) SetVolume(volume int) error {
	return i.facility.send(i, Command{Action: actionSetVolume, Volume: &volume})
}

func (i *instance) Destroy() error {
	i.facility.mu.Lock()
	live := i.facility.current == i
	if live {
		i.facility.current = nil
	}
	i.facility.mu.Unlock()

	if !live {
		return nil
	}

	if err := i.facility.broadcaster.Broadcast(commandMessage{Type: "PLAYER_CMD", Payload: Command{Action: actionDestroy}}); err != nil {
		return fmt.Errorf("failed to broadcast player command: %w", err)
	}

	return nil
}
