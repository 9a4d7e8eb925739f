// Package binding resolves configured joint names to sensor slot indices
// inside the simulation engine's data buffer.
//
// Binding happens once at publisher setup and the resulting table is frozen,
// so the per-tick snapshot path is a plain slice walk with no name lookups
// and no error path.
package binding

import "fmt"

// Unbound is the sentinel slot index for a joint sensor that was left
// unconfigured. Unbound slots read back as 0.0 at snapshot time.
const Unbound = -1

// Kind identifies which sensor of a joint a slot index refers to.
type Kind int

const (
	KindPosition Kind = iota
	KindVelocity
)

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindVelocity:
		return "velocity"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// JointConfig describes one configured joint: a display name and the
// optional names of its position and velocity sensors. Empty sensor names
// are a valid "unbound" declaration, not an error.
type JointConfig struct {
	Name           string `json:"name"`
	PositionSensor string `json:"position_sensor,omitempty"`
	VelocitySensor string `json:"velocity_sensor,omitempty"`
}

// Resolver maps a sensor name to its slot index in the engine buffer. It is
// a pure lookup supplied by the engine and only ever called at setup.
type Resolver interface {
	ResolveSlot(kind Kind, name string) (slot int, ok bool)
}

// UnknownSensorError is the setup-fatal failure for a sensor name the
// engine does not know.
type UnknownSensorError struct {
	Name string
	Kind Kind
}

func (e *UnknownSensorError) Error() string {
	return fmt.Sprintf("unknown %s sensor %q", e.Kind, e.Name)
}

// Entry is one resolved joint: its display name and the slot indices of its
// position and velocity sensors (Unbound when unconfigured).
type Entry struct {
	Name         string
	PositionSlot int
	VelocitySlot int
}

// Table is the frozen, ordered binding table. Order matches the joint
// configuration order and is part of the output contract: published
// messages list joints in this order.
type Table struct {
	entries []Entry
}

// Bind resolves every configured joint against the resolver. A non-empty
// sensor name the resolver cannot find fails the whole bind; this is a
// setup-time error by design, so the tick path never sees one.
func Bind(joints []JointConfig, r Resolver) (*Table, error) {
	entries := make([]Entry, 0, len(joints))
	for _, j := range joints {
		posSlot, err := resolve(r, KindPosition, j.PositionSensor)
		if err != nil {
			return nil, err
		}
		velSlot, err := resolve(r, KindVelocity, j.VelocitySensor)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name:         j.Name,
			PositionSlot: posSlot,
			VelocitySlot: velSlot,
		})
	}
	return &Table{entries: entries}, nil
}

func resolve(r Resolver, kind Kind, name string) (int, error) {
	if name == "" {
		return Unbound, nil
	}
	slot, ok := r.ResolveSlot(kind, name)
	if !ok {
		return 0, &UnknownSensorError{Name: name, Kind: kind}
	}
	return slot, nil
}

// Entries returns the bound joints in configuration order. Callers must
// treat the slice as read-only.
func (t *Table) Entries() []Entry { return t.entries }

// Len returns the number of bound joints.
func (t *Table) Len() int { return len(t.entries) }
