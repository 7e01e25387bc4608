package gekko

type Key int

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyEscape
	KeyDelete
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftSuper
	KeyRightSuper
	keyCount
)

type InputModule struct{}

// Input is the keyboard state seen by systems. A platform binding feeds it
// through Press and Release; JustPressed and JustReleased last one frame.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(System(inputEndFrameSystem).InStage(Finale))
}

func (in *Input) Press(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	if !in.Pressed[k] {
		in.JustPressed[k] = true
	}
	in.Pressed[k] = true
}

func (in *Input) Release(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	if in.Pressed[k] {
		in.JustReleased[k] = true
	}
	in.Pressed[k] = false
}

func (in *Input) Control() bool {
	return in.Pressed[KeyLeftControl] || in.Pressed[KeyRightControl] ||
		in.Pressed[KeyLeftSuper] || in.Pressed[KeyRightSuper]
}

func (in *Input) Shift() bool {
	return in.Pressed[KeyLeftShift] || in.Pressed[KeyRightShift]
}

func (in *Input) endFrame() {
	in.JustPressed = [keyCount]bool{}
	in.JustReleased = [keyCount]bool{}
}

func inputEndFrameSystem(input *Input) {
	input.endFrame()
}
