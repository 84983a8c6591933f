package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/render"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/script"
	"golang.org/x/image/colornames"
)

var errQuit = errors.New("quit")

var colorHUDPanel = colornames.Black

type Game struct {
	cfg    config.Config
	frames int

	world       *ecs.World
	scheduler   *ecs.Scheduler
	input       *system.InputSystem
	persistence *system.PersistenceSystem
	renderer    *render.RenderSystem
	watcher     *prefabs.Watcher

	lastTransition controller.Transition
	paused         bool
	quit           bool
	pauseUI        *ebitenui.UI
}

func NewGame(cfg config.Config) (*Game, error) {
	var source controller.KeySource = NewKeyboard()
	if cfg.Script != "" {
		src, err := script.Load(cfg.Script)
		if err != nil {
			return nil, err
		}
		source = src
	}

	physics := system.NewPhysicsSystem(common.TickSeconds)
	g := &Game{
		cfg:         cfg,
		world:       ecs.NewWorld(),
		input:       system.NewInputSystem(source),
		persistence: system.NewPersistenceSystem(cfg.Level, cfg.StateFile, physics.Reset),
		renderer:    render.NewRenderSystem(cfg.Debug),
	}

	var reload *system.TunablesReloadSystem
	if cfg.Watch && cfg.PrefabDir != "" {
		watcher, err := prefabs.NewWatcher(cfg.PrefabDir)
		if err != nil {
			log.Printf("prefabs: watch %s disabled: %v", cfg.PrefabDir, err)
		} else {
			g.watcher = watcher
			reload = system.NewTunablesReloadSystem(watcher, "player.yaml")
			reload.OnScriptChanged = g.reloadScript
		}
	}

	g.scheduler = ecs.NewScheduler(
		g.persistence,
		g.input,
		system.NewPlayerControllerSystem(cfg.Debug),
		ecs.SystemFunc(g.recordTransitions),
		physics,
		system.NewCameraSystem(),
	)
	if reload != nil {
		g.scheduler.Add(reload)
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) reloadScript(name string) {
	if g.cfg.Script == "" || (name != g.cfg.Script && name != "scripts/"+g.cfg.Script) {
		return
	}
	src, err := script.Load(g.cfg.Script)
	if err != nil {
		log.Printf("script: reload %s: %v", name, err)
		return
	}
	g.input.SetSource(src)
	log.Printf("script: reloaded %s", name)
}

func (g *Game) recordTransitions(w *ecs.World) {
	for _, evt := range w.Events().Transitions() {
		g.lastTransition = evt.Transition
	}
}

func (g *Game) request(add func(e ecs.Entity) error) {
	e := ecs.CreateEntity(g.world)
	if err := add(e); err != nil {
		log.Printf("game: queue request: %v", err)
		ecs.DestroyEntity(g.world, e)
	}
}

func (g *Game) Reload() {
	g.request(func(e ecs.Entity) error {
		return ecs.Add(g.world, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{})
	})
}

func (g *Game) Update() error {
	if g.quit {
		return errQuit
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		if g.cfg.Script == "" {
			g.input.Collect()
		}
		g.pauseUI.Update()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.request(func(e ecs.Entity) error {
			return ecs.Add(g.world, e, component.SaveStateRequestComponent.Kind(), &component.SaveStateRequest{})
		})
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		g.request(func(e ecs.Entity) error {
			return ecs.Add(g.world, e, component.LoadStateRequestComponent.Kind(), &component.LoadStateRequest{})
		})
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.Reload()
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		g.renderer.Debug = !g.renderer.Debug
	}

	g.frames++
	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(g.world, screen)
	g.drawHUD(screen)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	text := fmt.Sprintf("Level: %s  Tick: %d  FPS: %.1f", g.persistence.LevelName(), g.frames, ebiten.ActualFPS())

	if e, ok := ecs.First(g.world, component.PlayerTagComponent.Kind()); ok {
		if ctrl, ok := ecs.Get(g.world, e, component.CharacterComponent.Kind()); ok {
			state := "airborne"
			if ctrl.Grounded() {
				state = "grounded"
			}
			text += fmt.Sprintf("\nState: %s  Last: %s", state, g.lastTransition)
			text += fmt.Sprintf("\nInput: left=%t right=%t jump=%t", ctrl.Input.MoveLeft, ctrl.Input.MoveRight, ctrl.Input.JumpHeld)
		}
		if body, ok := ecs.Get(g.world, e, component.PhysicsBodyComponent.Kind()); ok {
			text += fmt.Sprintf("\nVelocity: (%.2f, %.2f)", body.VelocityX, body.VelocityY)
		}
	}
	if g.renderer.Debug {
		text += "\nF3 overlay  F5 save  F9 load  R reload  Esc pause"
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(340, 80)
	op.GeoM.Translate(4, 4)
	op.ColorScale.ScaleAlpha(0.5)
	screen.DrawImage(render.SolidImage(colorHUDPanel), op)
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("prefabs: close watcher: %v", err)
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
