package publish

import "github.com/robolens/simpub/internal/jointstate"

// MultiPublisher fans a message out to several sinks. Every sink sees every
// message even if an earlier one fails; the first error is returned.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(msg *jointstate.Message) error {
	var first error
	for _, p := range m {
		if err := p.Publish(msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(msg *jointstate.Message) error

func (f PublisherFunc) Publish(msg *jointstate.Message) error { return f(msg) }
