package sensor

// Registry is the ordered set of active sensors. It is filled during
// startup and drained once at shutdown, never modified in between.
type Registry struct {
	sensors []*Sensor
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends s, insertion order is reporting order.
func (r *Registry) Add(s *Sensor) {
	r.sensors = append(r.sensors, s)
}

func (r *Registry) Len() int {
	return len(r.sensors)
}

// Sensors returns the registered sensors in order. The slice must not
// be modified.
func (r *Registry) Sensors() []*Sensor {
	return r.sensors
}

// Drain calls fn for every sensor in order, releases it and empties
// the registry.
func (r *Registry) Drain(fn func(*Sensor)) {
	for i, s := range r.sensors {
		if fn != nil {
			fn(s)
		}
		s.Release()
		r.sensors[i] = nil
	}
	r.sensors = nil
}
