package device

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sheetsmith/inputmap"
)

var keys = map[string]ebiten.Key{
	"W":     ebiten.KeyW,
	"A":     ebiten.KeyA,
	"S":     ebiten.KeyS,
	"D":     ebiten.KeyD,
	"E":     ebiten.KeyE,
	"Q":     ebiten.KeyQ,
	"X":     ebiten.KeyX,
	"Z":     ebiten.KeyZ,
	"J":     ebiten.KeyJ,
	"K":     ebiten.KeyK,
	"Space": ebiten.KeySpace,
	"Up":    ebiten.KeyArrowUp,
	"Down":  ebiten.KeyArrowDown,
	"Left":  ebiten.KeyArrowLeft,
	"Right": ebiten.KeyArrowRight,
}

var buttons = map[string]ebiten.MouseButton{
	"LeftMouseButton":   ebiten.MouseButtonLeft,
	"RightMouseButton":  ebiten.MouseButtonRight,
	"MiddleMouseButton": ebiten.MouseButtonMiddle,
}

// Wheel directions count as pressed for the tick the wheel moved in.
var wheel = map[string]float64{
	"MouseWheelUp":   1,
	"MouseWheelDown": -1,
}

// Pressed reports whether the named key or mouse button is held.
// Unknown names are never pressed.
func Pressed(name string) bool {
	if k, ok := keys[name]; ok {
		return ebiten.IsKeyPressed(k)
	}
	if b, ok := buttons[name]; ok {
		return ebiten.IsMouseButtonPressed(b)
	}
	if dir, ok := wheel[name]; ok {
		_, dy := ebiten.Wheel()
		return dy*dir > 0
	}
	return false
}

// Poll evaluates c against the current keyboard and mouse state.
func Poll(c *inputmap.Context) inputmap.Values {
	return c.Evaluate(Pressed)
}

// Unsupported lists the keys of c that Pressed cannot read.
func Unsupported(c *inputmap.Context) []string {
	var out []string
	for _, k := range c.Keys() {
		_, isKey := keys[k]
		_, isButton := buttons[k]
		_, isWheel := wheel[k]
		if !isKey && !isButton && !isWheel {
			out = append(out, k)
		}
	}
	return out
}
