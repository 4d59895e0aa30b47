package servo

import (
	"context"

	"github.com/rs/zerolog"
)

// LogActuator writes every command to a logger instead of hardware.
type LogActuator struct {
	log  zerolog.Logger
	axes []string
}

func NewLogActuator(log zerolog.Logger, axes []string) *LogActuator {
	return &LogActuator{
		log:  log.With().Str("component", "actuator").Logger(),
		axes: axes,
	}
}

func (a *LogActuator) Apply(ctx context.Context, cmd Command) error {
	ev := a.log.Info().Int("frame", cmd.Frame).Bool("held", cmd.Held)
	for i, v := range cmd.Outputs {
		name := "u"
		if i < len(a.axes) {
			name = a.axes[i]
		}
		ev = ev.Float64(name, v)
	}
	ev.Msg("command")
	return nil
}
