// Package controller turns one tick of key state and foot-sensor contacts into
// velocity and impulse commands for a platformer character.
//
// Conventions: the world is y-up and impulses push along +y. Horizontal input is
// resolved left first, so move_left yields +HorizontalSpeed, move_right yields
// -HorizontalSpeed, and holding both behaves like move_left. Hosts that want +x on
// the right of the screen mirror the x axis when rendering.
package controller

import (
	"fmt"
	"iter"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultHorizontalSpeed float32 = 3.0
	DefaultJumpImpulse     float32 = 10.15
)

// EntityID identifies a host entity. Zero is never a valid entity.
type EntityID uint64

// Capability is a tag an entity can carry.
type Capability string

const CapabilityGround Capability = "ground"

// ContactPair reports that two bodies touch this tick.
type ContactPair struct {
	A EntityID
	B EntityID
}

// Other returns the participant that is not self.
func (p ContactPair) Other(self EntityID) EntityID {
	if p.A == self {
		return p.B
	}
	return p.A
}

// RigidBody is the host's handle for the body a controller drives.
type RigidBody interface {
	LinearVelocity() mgl32.Vec2
	SetLinearVelocity(v mgl32.Vec2)
	ApplyImpulse(impulse mgl32.Vec2)
}

// ContactQuery lists the contact pairs reported for a sensor this tick.
type ContactQuery interface {
	Contacts(sensor EntityID) iter.Seq[ContactPair]
}

// CapabilityLookup answers whether an entity carries a capability tag.
type CapabilityLookup interface {
	Has(entity EntityID, capability Capability) bool
}

// Transition describes what an Update did to the grounded state.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionJumped
	TransitionLanded
	// TransitionLandedAndJumped happens when a landing and a held jump meet in one tick.
	TransitionLandedAndJumped
)

func (t Transition) String() string {
	switch t {
	case TransitionJumped:
		return "jumped"
	case TransitionLanded:
		return "landed"
	case TransitionLandedAndJumped:
		return "landed+jumped"
	default:
		return "none"
	}
}

// Tunables are the constant parameters of a character.
type Tunables struct {
	HorizontalSpeed float32 `yaml:"horizontal_speed"`
	JumpImpulse     float32 `yaml:"jump_impulse"`
	StartGrounded   bool    `yaml:"start_grounded"`
}

func DefaultTunables() Tunables {
	return Tunables{
		HorizontalSpeed: DefaultHorizontalSpeed,
		JumpImpulse:     DefaultJumpImpulse,
		StartGrounded:   true,
	}
}

// Validate rejects values that would put NaN or infinities into the physics step.
func (t Tunables) Validate() error {
	for _, f := range []struct {
		name  string
		value float32
	}{
		{"horizontal_speed", t.HorizontalSpeed},
		{"jump_impulse", t.JumpImpulse},
	} {
		if math32.IsNaN(f.value) || math32.IsInf(f.value, 0) {
			return fmt.Errorf("controller: tunable %s is not finite", f.name)
		}
	}
	return nil
}

// Snapshot is the persisted form of a controller.
type Snapshot struct {
	Tunables Tunables   `yaml:"tunables"`
	Grounded bool       `yaml:"grounded"`
	Input    InputState `yaml:"input"`
}

// Controller is the grounded/airborne state machine of one character.
// It is not safe for concurrent use; hosts call it from their tick loop.
type Controller struct {
	Tunables Tunables
	Input    InputState
	Bindings *Bindings

	// Owner is the entity carrying the rigid body; FootSensor names the sensor
	// whose contacts decide grounding. Neither is owned by the controller.
	Owner      EntityID
	FootSensor EntityID

	grounded bool
}

// New returns a controller with the given tunables, default bindings and the
// initial state selected by Tunables.StartGrounded.
func New(t Tunables) *Controller {
	return &Controller{
		Tunables: t,
		Bindings: DefaultBindings(),
		grounded: t.StartGrounded,
	}
}

// NewDefault returns a controller with DefaultTunables.
func NewDefault() *Controller {
	return New(DefaultTunables())
}

func (c *Controller) Grounded() bool {
	return c != nil && c.grounded
}

// OnKeyEvent is the input entry point.
func (c *Controller) OnKeyEvent(key Key, pressed bool) {
	if c == nil {
		return
	}
	c.Input.OnKeyEvent(c.Bindings, key, pressed)
}

// HorizontalSpeed applies the speed law for the current input.
func (c *Controller) HorizontalSpeed() float32 {
	speed := math32.Abs(c.Tunables.HorizontalSpeed)
	switch {
	case c.Input.MoveLeft:
		return speed
	case c.Input.MoveRight:
		return -speed
	default:
		return 0
	}
}

// Update runs one tick. Missing collaborators are absorbed: a nil body skips the
// tick entirely and a nil query or lookup behaves like an empty contact list.
func (c *Controller) Update(body RigidBody, contacts ContactQuery, caps CapabilityLookup) Transition {
	if c == nil || body == nil {
		return TransitionNone
	}

	xSpeed := c.HorizontalSpeed()

	transition := TransitionNone
	if !c.grounded && c.touchingGround(contacts, caps) {
		c.grounded = true
		transition = TransitionLanded
	}

	if c.Input.JumpHeld && c.grounded {
		body.ApplyImpulse(mgl32.Vec2{0, math32.Abs(c.Tunables.JumpImpulse)})
		c.grounded = false
		if transition == TransitionLanded {
			return TransitionLandedAndJumped
		}
		return TransitionJumped
	}

	v := body.LinearVelocity()
	body.SetLinearVelocity(mgl32.Vec2{xSpeed, v.Y()})
	return transition
}

func (c *Controller) touchingGround(contacts ContactQuery, caps CapabilityLookup) bool {
	if contacts == nil || caps == nil {
		return false
	}
	for pair := range contacts.Contacts(c.FootSensor) {
		if caps.Has(pair.Other(c.Owner), CapabilityGround) {
			return true
		}
	}
	return false
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Tunables: c.Tunables,
		Grounded: c.grounded,
		Input:    c.Input,
	}
}

// Restore replaces tunables and state with s. Bindings and entity references stay.
func (c *Controller) Restore(s Snapshot) {
	c.Tunables = s.Tunables
	c.grounded = s.Grounded
	c.Input = s.Input
}
