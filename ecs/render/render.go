package render

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"golang.org/x/image/colornames"
)

// View maps world meters (y-up) to screen pixels. The x axis is mirrored so
// +x in the world is screen-left.
type View struct {
	CamX, CamY float64
	Zoom       float64
	Width      float64
	Height     float64
}

func (v View) ToScreen(x, y float64) (float64, float64) {
	return v.Width/2 - (x-v.CamX)*v.Zoom, v.Height/2 - (y-v.CamY)*v.Zoom
}

// Rect returns the top-left corner and size on screen of a box centered on x, y.
func (v View) Rect(x, y, w, h float64) (float32, float32, float32, float32) {
	sx, sy := v.ToScreen(x, y)
	sw, sh := w*v.Zoom, h*v.Zoom
	return float32(sx - sw/2), float32(sy - sh/2), float32(sw), float32(sh)
}

type RenderSystem struct {
	camEntity ecs.Entity
	Debug     bool
}

func NewRenderSystem(debug bool) *RenderSystem {
	return &RenderSystem{Debug: debug}
}

// View returns the projection of the current camera onto screen.
func (r *RenderSystem) View(w *ecs.World, screen *ebiten.Image) View {
	if !ecs.IsAlive(w, r.camEntity) {
		if camEntity, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}

	bounds := screen.Bounds()
	view := View{Zoom: 48, Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}
	if camTransform, ok := ecs.Get(w, r.camEntity, component.TransformComponent.Kind()); ok {
		view.CamX = camTransform.X
		view.CamY = camTransform.Y
	}
	if camComp, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind()); ok && camComp.Zoom > 0 {
		view.Zoom = camComp.Zoom
	}
	return view
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil {
		return
	}

	screen.Fill(colornames.Skyblue)
	view := r.View(w, screen)

	type drawable struct {
		e    ecs.Entity
		t    *component.Transform
		rect *component.Rectangle
	}
	var items []drawable
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.RectangleComponent.Kind(), func(e ecs.Entity, t *component.Transform, rect *component.Rectangle) {
		items = append(items, drawable{e: e, t: t, rect: rect})
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].rect.Layer != items[j].rect.Layer {
			return items[i].rect.Layer < items[j].rect.Layer
		}
		return uint64(items[i].e) < uint64(items[j].e)
	})

	for _, it := range items {
		col := it.rect.Color
		if col == nil {
			col = colornames.White
		}
		x, y, wdt, hgt := view.Rect(it.t.X, it.t.Y, it.rect.Width, it.rect.Height)
		vector.FillRect(screen, x, y, wdt, hgt, col, false)
	}

	if r.Debug {
		r.drawDebug(w, screen, view)
	}
}

// drawDebug outlines colliders and foot sensors. A sensor is green while its
// character is grounded and red while airborne.
func (r *RenderSystem) drawDebug(w *ecs.World, screen *ebiten.Image, view View) {
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, t *component.Transform, body *component.PhysicsBody) {
		x, y, wdt, hgt := view.Rect(t.X, t.Y, body.Width, body.Height)
		vector.StrokeRect(screen, x, y, wdt, hgt, 1, color.RGBA{R: 255, G: 255, B: 255, A: 160}, false)
	})

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.FootSensorComponent.Kind(), func(e ecs.Entity, t *component.Transform, sensor *component.FootSensor) {
		col := color.Color(colornames.Red)
		if ctrl, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok && ctrl.Grounded() {
			col = colornames.Lime
		}
		x, y, wdt, hgt := view.Rect(t.X+sensor.OffsetX, t.Y+sensor.OffsetY, sensor.Width, sensor.Height)
		vector.StrokeRect(screen, x, y, wdt, hgt, 2, col, false)

		for _, pair := range sensor.Contacts {
			other := ecs.Entity(pair.Other(controller.EntityID(e)))
			ot, ok := ecs.Get(w, other, component.TransformComponent.Kind())
			if !ok {
				continue
			}
			sx, sy := view.ToScreen(t.X, t.Y)
			ox, oy := view.ToScreen(ot.X, ot.Y)
			vector.StrokeLine(screen, float32(sx), float32(sy), float32(ox), float32(oy), 1, colornames.Yellow, true)
		}
	})
}
