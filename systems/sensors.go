package systems

import "github.com/pthm-cable/lightseeker/components"

// DefaultSensorDistance is how far ahead each sensor probes.
const DefaultSensorDistance = 5

// sensorOffset returns the probe point for d relative to the agent,
// scaled by the sensor distance.
func sensorOffset(d components.Direction, dist int) components.Movement {
	v := d.Vector()
	return components.Movement{DX: v.DX * dist, DY: v.DY * dist}
}

// Sense samples the light field at the four sensor probes around the agent.
// Probes may fall outside the grid; the field is defined everywhere.
func (a *Agent) Sense() components.Readings {
	var r components.Readings
	for _, d := range components.Directions {
		p := a.pos.Add(sensorOffset(d, a.sensorDistance))
		r.Set(d, a.env.IntensityAt(p))
	}
	return r
}
