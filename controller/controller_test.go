package controller

import (
	"iter"
	"slices"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	testOwner  EntityID = 1
	testSensor EntityID = 2
	testGround EntityID = 10
	testCrate  EntityID = 11
)

type fakeBody struct {
	vel      mgl32.Vec2
	sets     []mgl32.Vec2
	impulses []mgl32.Vec2
}

func (b *fakeBody) LinearVelocity() mgl32.Vec2 { return b.vel }

func (b *fakeBody) SetLinearVelocity(v mgl32.Vec2) {
	b.vel = v
	b.sets = append(b.sets, v)
}

func (b *fakeBody) ApplyImpulse(i mgl32.Vec2) {
	b.vel = b.vel.Add(i)
	b.impulses = append(b.impulses, i)
}

func (b *fakeBody) reset() {
	b.sets = nil
	b.impulses = nil
}

type fakeContacts struct {
	pairs   map[EntityID][]ContactPair
	visited int
}

func (f *fakeContacts) Contacts(sensor EntityID) iter.Seq[ContactPair] {
	return func(yield func(ContactPair) bool) {
		for _, p := range f.pairs[sensor] {
			f.visited++
			if !yield(p) {
				return
			}
		}
	}
}

type fakeCaps map[EntityID]bool

func (f fakeCaps) Has(e EntityID, c Capability) bool {
	return c == CapabilityGround && f[e]
}

func newTestController(grounded bool) *Controller {
	t := DefaultTunables()
	t.StartGrounded = grounded
	c := New(t)
	c.Owner = testOwner
	c.FootSensor = testSensor
	return c
}

func contactsWith(others ...EntityID) *fakeContacts {
	fc := &fakeContacts{pairs: map[EntityID][]ContactPair{}}
	for _, o := range others {
		fc.pairs[testSensor] = append(fc.pairs[testSensor], ContactPair{A: testOwner, B: o})
	}
	return fc
}

func TestInputStateLastWriteWins(t *testing.T) {
	b := DefaultBindings()
	b.Bind(KeyArrowLeft, ActionMoveLeft)

	tests := []struct {
		name   string
		events []KeyEvent
		want   InputState
	}{
		{"empty", nil, InputState{}},
		{"press_left", []KeyEvent{{KeyA, true}}, InputState{MoveLeft: true}},
		{"press_release", []KeyEvent{{KeyD, true}, {KeyD, false}}, InputState{}},
		{"repeated_down", []KeyEvent{{KeySpace, true}, {KeySpace, true}, {KeySpace, true}}, InputState{JumpHeld: true}},
		{"unbound_ignored", []KeyEvent{{KeyW, true}, {KeyArrowUp, true}}, InputState{}},
		{"two_keys_one_action", []KeyEvent{{KeyA, true}, {KeyArrowLeft, false}}, InputState{}},
		{"all_held", []KeyEvent{{KeyA, true}, {KeyD, true}, {KeySpace, true}}, InputState{MoveLeft: true, MoveRight: true, JumpHeld: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var in InputState
			for _, ev := range tc.events {
				in.OnKeyEvent(b, ev.Key, ev.Pressed)
			}
			if in != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, in)
			}
		})
	}
}

func TestHorizontalSpeedLaw(t *testing.T) {
	tests := []struct {
		name  string
		input InputState
		want  float32
	}{
		{"idle", InputState{}, 0},
		{"left", InputState{MoveLeft: true}, DefaultHorizontalSpeed},
		{"right", InputState{MoveRight: true}, -DefaultHorizontalSpeed},
		{"left_and_right_prefers_left", InputState{MoveLeft: true, MoveRight: true}, DefaultHorizontalSpeed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestController(true)
			c.Input = tc.input
			body := &fakeBody{vel: mgl32.Vec2{7, -2.5}}
			if tr := c.Update(body, contactsWith(), fakeCaps{}); tr != TransitionNone {
				t.Fatalf("unexpected transition %v", tr)
			}
			if len(body.impulses) != 0 {
				t.Fatalf("expected no impulse, got %v", body.impulses)
			}
			if len(body.sets) != 1 {
				t.Fatalf("expected one velocity set, got %d", len(body.sets))
			}
			if got := body.sets[0]; got.X() != tc.want || got.Y() != -2.5 {
				t.Fatalf("expected (%v, -2.5), got %v", tc.want, got)
			}
		})
	}
}

func TestJumpOnlyFromGround(t *testing.T) {
	c := newTestController(true)
	body := &fakeBody{vel: mgl32.Vec2{1, 0}}
	c.OnKeyEvent(KeySpace, true)
	c.OnKeyEvent(KeyA, true)

	if tr := c.Update(body, contactsWith(), fakeCaps{}); tr != TransitionJumped {
		t.Fatalf("expected jump, got %v", tr)
	}
	if c.Grounded() {
		t.Fatalf("expected airborne after jump")
	}
	if len(body.impulses) != 1 || body.impulses[0] != (mgl32.Vec2{0, DefaultJumpImpulse}) {
		t.Fatalf("expected one upward impulse, got %v", body.impulses)
	}
	if len(body.sets) != 0 {
		t.Fatalf("jump tick must not set velocity, got %v", body.sets)
	}

	for i := 0; i < 5; i++ {
		body.reset()
		c.Update(body, contactsWith(), fakeCaps{})
		if len(body.impulses) != 0 {
			t.Fatalf("tick %d: repeated impulse while airborne", i)
		}
		if len(body.sets) != 1 || body.sets[0].X() != DefaultHorizontalSpeed {
			t.Fatalf("tick %d: expected air control velocity, got %v", i, body.sets)
		}
	}
}

func TestLandingRequiresGroundContact(t *testing.T) {
	c := newTestController(false)
	body := &fakeBody{}
	caps := fakeCaps{testGround: true}

	for i := 0; i < 3; i++ {
		if tr := c.Update(body, contactsWith(), caps); tr != TransitionNone || c.Grounded() {
			t.Fatalf("tick %d: grounded without contacts", i)
		}
	}

	if tr := c.Update(body, contactsWith(testCrate), caps); tr != TransitionNone || c.Grounded() {
		t.Fatalf("non-ground contact must not ground the character")
	}

	if tr := c.Update(body, contactsWith(testCrate, testGround), caps); tr != TransitionLanded || !c.Grounded() {
		t.Fatalf("expected landing on ground contact, got %v", tr)
	}
}

func TestGroundScanShortCircuits(t *testing.T) {
	c := newTestController(false)
	contacts := contactsWith(testGround, testGround, testGround)
	c.Update(&fakeBody{}, contacts, fakeCaps{testGround: true})
	if contacts.visited != 1 {
		t.Fatalf("expected scan to stop at first ground contact, visited %d", contacts.visited)
	}

	contacts.visited = 0
	c.Update(&fakeBody{}, contacts, fakeCaps{testGround: true})
	if contacts.visited != 0 {
		t.Fatalf("expected no scan while grounded, visited %d", contacts.visited)
	}
}

func TestContactPairOtherSide(t *testing.T) {
	c := newTestController(false)
	contacts := &fakeContacts{pairs: map[EntityID][]ContactPair{
		testSensor: {{A: testGround, B: testOwner}},
	}}
	if tr := c.Update(&fakeBody{}, contacts, fakeCaps{testGround: true}); tr != TransitionLanded {
		t.Fatalf("expected ground on side A to count, got %v", tr)
	}

	c = newTestController(false)
	contacts = &fakeContacts{pairs: map[EntityID][]ContactPair{
		testSensor: {{A: testOwner, B: testCrate}},
	}}
	// Only the owner is tagged: the sensor touching its own body is not ground.
	if tr := c.Update(&fakeBody{}, contacts, fakeCaps{testOwner: true}); tr != TransitionNone {
		t.Fatalf("owner side must not be tested, got %v", tr)
	}
}

func TestStickyGroundedWithoutContacts(t *testing.T) {
	c := newTestController(true)
	body := &fakeBody{}
	for i := 0; i < 10; i++ {
		c.Update(body, nil, nil)
		if !c.Grounded() {
			t.Fatalf("tick %d: grounded state dropped without a jump", i)
		}
	}
}

func TestLandAndJumpSameTick(t *testing.T) {
	c := newTestController(false)
	c.Input.JumpHeld = true
	body := &fakeBody{}
	tr := c.Update(body, contactsWith(testGround), fakeCaps{testGround: true})
	if tr != TransitionLandedAndJumped {
		t.Fatalf("expected landed+jumped, got %v", tr)
	}
	if c.Grounded() || len(body.impulses) != 1 {
		t.Fatalf("expected airborne with one impulse, grounded=%v impulses=%v", c.Grounded(), body.impulses)
	}
}

func TestNilBodyIsNoop(t *testing.T) {
	c := newTestController(false)
	c.Input.JumpHeld = true
	if tr := c.Update(nil, contactsWith(testGround), fakeCaps{testGround: true}); tr != TransitionNone {
		t.Fatalf("expected no-op, got %v", tr)
	}
	if c.Grounded() {
		t.Fatalf("state must not change when the body is missing")
	}

	var nilCtrl *Controller
	if tr := nilCtrl.Update(&fakeBody{}, nil, nil); tr != TransitionNone {
		t.Fatalf("nil controller must be a no-op")
	}
}

func TestIdleGroundedKeepsVertical(t *testing.T) {
	c := newTestController(true)
	body := &fakeBody{vel: mgl32.Vec2{4, -9}}
	for i := 0; i < 3; i++ {
		c.Update(body, nil, nil)
	}
	want := []mgl32.Vec2{{0, -9}, {0, -9}, {0, -9}}
	if !slices.Equal(body.sets, want) {
		t.Fatalf("expected %v, got %v", want, body.sets)
	}
}

func TestNegativeTunablesUseMagnitude(t *testing.T) {
	c := New(Tunables{HorizontalSpeed: -2, JumpImpulse: -5, StartGrounded: true})
	c.Input = InputState{MoveRight: true, JumpHeld: true}
	if got := c.HorizontalSpeed(); got != -2 {
		t.Fatalf("expected -2, got %v", got)
	}
	body := &fakeBody{}
	c.Update(body, nil, nil)
	if body.impulses[0].Y() != 5 {
		t.Fatalf("expected upward impulse of 5, got %v", body.impulses[0])
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := newTestController(true)
	c.Input.JumpHeld = true
	c.Update(&fakeBody{}, nil, nil)

	snap := c.Snapshot()
	if snap.Grounded {
		t.Fatalf("expected airborne snapshot")
	}

	restored := newTestController(true)
	restored.Restore(snap)
	if restored.Grounded() || !restored.Input.JumpHeld || restored.Tunables != c.Tunables {
		t.Fatalf("restore mismatch: %+v", restored.Snapshot())
	}
	if restored.Owner != testOwner {
		t.Fatalf("restore must keep entity references")
	}
}

func TestTunablesValidate(t *testing.T) {
	if err := DefaultTunables().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	var zero float32
	bad := DefaultTunables()
	bad.JumpImpulse = zero / zero
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected NaN to be rejected")
	}

	bad.HorizontalSpeed = zero / zero
	for i := 0; i < 20; i++ {
		err := bad.Validate()
		if err == nil || !strings.Contains(err.Error(), "horizontal_speed") {
			t.Fatalf("expected horizontal_speed to be reported first, got %v", err)
		}
	}
}
