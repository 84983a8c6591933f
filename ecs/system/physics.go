package system

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeFootSensor
)

const (
	physicsIterations = 20
	// Chipmunk's default slop assumes pixel units; the world is in meters.
	physicsCollisionSlop = 0.01
)

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool
	dt            float64

	entities map[ecs.Entity]*bodyInfo
	sensors  map[*cp.Shape]ecs.Entity
	// pending collects sensor pairs while a step runs.
	pending map[ecs.Entity][]controller.ContactPair
}

type bodyInfo struct {
	body        *cp.Body
	mainShape   *cp.Shape
	sensorShape *cp.Shape
	static      bool
}

// NewPhysicsSystem creates a space with the default gravity stepping dt seconds per tick.
func NewPhysicsSystem(dt float64) *PhysicsSystem {
	if dt <= 0 {
		dt = common.TickSeconds
	}
	ps := &PhysicsSystem{dt: dt}
	ps.Reset()
	return ps
}

// Reset drops every body and starts from an empty space. Used on level reload.
func (ps *PhysicsSystem) Reset() {
	space := cp.NewSpace()
	space.Iterations = physicsIterations
	space.SetGravity(cp.Vector{X: 0, Y: -common.Gravity})
	space.SetCollisionSlop(physicsCollisionSlop)

	ps.space = space
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.sensors = make(map[*cp.Shape]ecs.Entity)
	ps.pending = make(map[ecs.Entity][]controller.ContactPair)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)

	clear(ps.pending)
	ps.space.Step(ps.dt)

	ps.syncTransforms(w)
	ps.flushContacts(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	sensorHandler := ps.space.NewWildcardCollisionHandler(collisionTypeFootSensor)
	sensorHandler.UserData = ps
	sensorHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		sys.recordSensorContact(shapeA, shapeB)
		sys.recordSensorContact(shapeB, shapeA)
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) recordSensorContact(sensor, other *cp.Shape) {
	owner, ok := ps.sensors[sensor]
	if !ok {
		return
	}
	otherEntity, ok := other.UserData.(ecs.Entity)
	if !ok || otherEntity == owner {
		return
	}
	ps.pending[owner] = append(ps.pending[owner], controller.ContactPair{
		A: controller.EntityID(owner),
		B: controller.EntityID(otherEntity),
	})
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info, ok := ps.entities[e]; ok {
			bodyComp.Body = info.body
			bodyComp.Shape = info.mainShape
			return
		}

		sensor, _ := ecs.Get(w, e, component.FootSensorComponent.Kind())
		info := ps.createBodyInfo(e, transform, bodyComp, sensor)
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.mainShape
		if sensor != nil {
			sensor.Shape = info.sensorShape
		}
	})
}

func (ps *PhysicsSystem) createBodyInfo(e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody, sensor *component.FootSensor) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}

	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		bb := cp.NewBBForExtents(cp.Vector{X: transform.X, Y: transform.Y}, width/2, height/2)
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionTypeBody)
		shape.UserData = e
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.mainShape = shape
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	moment := cp.MomentForBox(mass, width, height)
	if bodyComp.LockRotation {
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)
	body.SetVelocity(bodyComp.VelocityX, bodyComp.VelocityY)
	body.UserData = e
	ps.space.AddBody(body)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeBody)
	shape.UserData = e
	ps.space.AddShape(shape)

	info.body = body
	info.mainShape = shape

	if sensor != nil {
		sw, sh := sensor.Width, sensor.Height
		if sw <= 0 {
			sw = width * 0.9
		}
		if sh <= 0 {
			sh = 0.1
		}
		oy := sensor.OffsetY
		if sensor.OffsetX == 0 && oy == 0 {
			oy = -height / 2
		}
		bb := cp.NewBBForExtents(cp.Vector{X: sensor.OffsetX, Y: oy}, sw/2, sh/2)
		sensorShape := cp.NewBox2(body, bb, 0)
		sensorShape.SetSensor(true)
		sensorShape.SetCollisionType(collisionTypeFootSensor)
		sensorShape.UserData = e
		ps.space.AddShape(sensorShape)

		info.sensorShape = sensorShape
		ps.sensors[sensorShape] = e
	}

	return info
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		if info.sensorShape != nil {
			delete(ps.sensors, info.sensorShape)
			ps.space.RemoveShape(info.sensorShape)
		}
		if info.mainShape != nil {
			ps.space.RemoveShape(info.mainShape)
		}
		if !info.static && info.body != nil {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static || info.body == nil {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			vel := info.body.Velocity()
			bodyComp.VelocityX = vel.X
			bodyComp.VelocityY = vel.Y
		}
		pos := info.body.Position()
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
			log.Printf("physics: entity %v has non-finite position, skipping transform sync", e)
			continue
		}
		t.X = pos.X
		t.Y = pos.Y
		t.Rotation = info.body.Angle()
	}
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	ecs.ForEach(w, component.FootSensorComponent.Kind(), func(e ecs.Entity, sensor *component.FootSensor) {
		sensor.Contacts = append(sensor.Contacts[:0], ps.pending[e]...)
	})
}

// RigidBodyOf adapts a Chipmunk body to controller.RigidBody. It returns nil
// when body is nil so callers can pass it straight to Controller.Update.
func RigidBodyOf(body *cp.Body) controller.RigidBody {
	if body == nil {
		return nil
	}
	return cpRigidBody{body: body}
}

type cpRigidBody struct {
	body *cp.Body
}

func (b cpRigidBody) LinearVelocity() mgl32.Vec2 {
	v := b.body.Velocity()
	return mgl32.Vec2{float32(v.X), float32(v.Y)}
}

func (b cpRigidBody) SetLinearVelocity(v mgl32.Vec2) {
	b.body.SetVelocity(float64(v.X()), float64(v.Y()))
}

func (b cpRigidBody) ApplyImpulse(impulse mgl32.Vec2) {
	b.body.ApplyImpulseAtLocalPoint(cp.Vector{X: float64(impulse.X()), Y: float64(impulse.Y())}, cp.Vector{})
}
