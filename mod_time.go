package gekko

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64

	now func() time.Time
}

type TimeModule struct {
	// Clock overrides time.Now, mostly for tests.
	Clock func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = time.Now
	}
	cmd.AddResources(&Time{
		Time: clock(),
		now:  clock,
	})
	app.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	now := timeResource.now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame++
}
