package systems

import "github.com/pthm-cable/lightseeker/components"

// Think picks the brightest sensed direction and the unit step toward it.
// Equal readings resolve in components.Directions order (north, south, east, west),
// which matters when the agent sits on a symmetry line of the field.
func (a *Agent) Think(r components.Readings) (components.Movement, components.Direction) {
	return Decide(r)
}

// Decide is the stateless greedy policy behind Think.
func Decide(r components.Readings) (components.Movement, components.Direction) {
	d := r.Best()
	return d.Vector(), d
}
