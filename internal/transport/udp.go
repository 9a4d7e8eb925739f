// Package transport carries published joint-state messages off the host.
//
// The wire format is one JSON-encoded message per UDP datagram: an ordered
// sequence of {name, position, velocity} records in binding order, plus the
// run identity and tick header.
package transport

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/robolens/simpub/internal/jointstate"
)

// UDPPublisher writes each message as a JSON datagram to a fixed endpoint.
// It is driven from the dispatcher's worker goroutine, so writes here never
// touch the simulation tick path.
type UDPPublisher struct {
	conn    *net.UDPConn
	address string
}

// NewUDPPublisher dials the target endpoint. The connection is connectionless
// UDP; a reachable listener is not required at dial time.
func NewUDPPublisher(addr string, port int) (*UDPPublisher, error) {
	address := fmt.Sprintf("%s:%d", addr, port)
	udpAddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve publish address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to create publish connection: %w", err)
	}

	return &UDPPublisher{conn: conn, address: address}, nil
}

// Publish serializes the message and sends it as a single datagram.
func (p *UDPPublisher) Publish(msg *jointstate.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode joint state: %w", err)
	}
	if _, err := p.conn.Write(payload); err != nil {
		return fmt.Errorf("failed to send to %s: %w", p.address, err)
	}
	return nil
}

// Address returns the resolved publish endpoint.
func (p *UDPPublisher) Address() string { return p.address }

// Close closes the underlying connection.
func (p *UDPPublisher) Close() error { return p.conn.Close() }
