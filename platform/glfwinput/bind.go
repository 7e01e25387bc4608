// Package glfwinput feeds key events of a GLFW window into the editor's Input resource.
package glfwinput

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	gekko "github.com/gekko3d/gekko-editor"
)

var keys = map[glfw.Key]gekko.Key{
	glfw.KeyA:            gekko.KeyA,
	glfw.KeyB:            gekko.KeyB,
	glfw.KeyC:            gekko.KeyC,
	glfw.KeyD:            gekko.KeyD,
	glfw.KeyE:            gekko.KeyE,
	glfw.KeyF:            gekko.KeyF,
	glfw.KeyG:            gekko.KeyG,
	glfw.KeyH:            gekko.KeyH,
	glfw.KeyI:            gekko.KeyI,
	glfw.KeyJ:            gekko.KeyJ,
	glfw.KeyK:            gekko.KeyK,
	glfw.KeyL:            gekko.KeyL,
	glfw.KeyM:            gekko.KeyM,
	glfw.KeyN:            gekko.KeyN,
	glfw.KeyO:            gekko.KeyO,
	glfw.KeyP:            gekko.KeyP,
	glfw.KeyQ:            gekko.KeyQ,
	glfw.KeyR:            gekko.KeyR,
	glfw.KeyS:            gekko.KeyS,
	glfw.KeyT:            gekko.KeyT,
	glfw.KeyU:            gekko.KeyU,
	glfw.KeyV:            gekko.KeyV,
	glfw.KeyW:            gekko.KeyW,
	glfw.KeyX:            gekko.KeyX,
	glfw.KeyY:            gekko.KeyY,
	glfw.KeyZ:            gekko.KeyZ,
	glfw.KeyEscape:       gekko.KeyEscape,
	glfw.KeyDelete:       gekko.KeyDelete,
	glfw.KeyLeftShift:    gekko.KeyLeftShift,
	glfw.KeyRightShift:   gekko.KeyRightShift,
	glfw.KeyLeftControl:  gekko.KeyLeftControl,
	glfw.KeyRightControl: gekko.KeyRightControl,
	glfw.KeyLeftSuper:    gekko.KeyLeftSuper,
	glfw.KeyRightSuper:   gekko.KeyRightSuper,
}

// Translate maps a GLFW key to the engine key. Keys the editor does not use
// report false.
func Translate(key glfw.Key) (gekko.Key, bool) {
	k, ok := keys[key]
	return k, ok
}

// HandleKey applies one GLFW key event to input. Repeats keep the key held.
func HandleKey(input *gekko.Input, key glfw.Key, action glfw.Action) {
	k, ok := Translate(key)
	if !ok {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		input.Press(k)
	case glfw.Release:
		input.Release(k)
	}
}

// Bind installs a key callback on window that writes into input. Events
// arrive during glfw.PollEvents, which has to run on the frame's thread.
func Bind(window *glfw.Window, input *gekko.Input) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		HandleKey(input, key, action)
	})
}
