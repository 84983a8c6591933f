package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/controller"
)

var keyMap = map[ebiten.Key]controller.Key{
	ebiten.KeyA:          controller.KeyA,
	ebiten.KeyD:          controller.KeyD,
	ebiten.KeyW:          controller.KeyW,
	ebiten.KeySpace:      controller.KeySpace,
	ebiten.KeyArrowLeft:  controller.KeyArrowLeft,
	ebiten.KeyArrowRight: controller.KeyArrowRight,
	ebiten.KeyArrowUp:    controller.KeyArrowUp,
}

// Keyboard turns ebiten key edges into controller key events.
type Keyboard struct {
	pressed  []ebiten.Key
	released []ebiten.Key
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) Poll(dst []controller.KeyEvent) []controller.KeyEvent {
	k.released = inpututil.AppendJustReleasedKeys(k.released[:0])
	for _, key := range k.released {
		if ck, ok := keyMap[key]; ok {
			dst = append(dst, controller.KeyEvent{Key: ck, Pressed: false})
		}
	}
	k.pressed = inpututil.AppendJustPressedKeys(k.pressed[:0])
	for _, key := range k.pressed {
		if ck, ok := keyMap[key]; ok {
			dst = append(dst, controller.KeyEvent{Key: ck, Pressed: true})
		}
	}
	return dst
}
