package transport

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robolens/simpub/internal/jointstate"
)

func TestUDPPublisherSendsJSONDatagram(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to open listener: %v", err)
	}
	defer listener.Close()

	port := listener.LocalAddr().(*net.UDPAddr).Port
	pub, err := NewUDPPublisher("127.0.0.1", port)
	if err != nil {
		t.Fatalf("NewUDPPublisher failed: %v", err)
	}
	defer pub.Close()

	msg := &jointstate.Message{
		RunID: "run-abc",
		Tick:  1234,
		Joints: []jointstate.JointSample{
			{Name: "joint1", Position: 1.5, Velocity: -0.2},
			{Name: "joint2", Position: 0.0, Velocity: 0.0},
		},
	}
	if err := pub.Publish(msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64*1024)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("failed to receive datagram: %v", err)
	}

	var got jointstate.Message
	if err := json.Unmarshal(buf[:n], &got); err != nil {
		t.Fatalf("datagram is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(*msg, got); diff != "" {
		t.Errorf("received message mismatch (-want +got):\n%s", diff)
	}
}

func TestUDPPublisherPreservesJointOrder(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to open listener: %v", err)
	}
	defer listener.Close()

	port := listener.LocalAddr().(*net.UDPAddr).Port
	pub, err := NewUDPPublisher("127.0.0.1", port)
	if err != nil {
		t.Fatalf("NewUDPPublisher failed: %v", err)
	}
	defer pub.Close()

	names := []string{"base", "shoulder", "elbow", "wrist"}
	msg := &jointstate.Message{RunID: "run-abc", Tick: 1}
	for _, n := range names {
		msg.Joints = append(msg.Joints, jointstate.JointSample{Name: n})
	}
	if err := pub.Publish(msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64*1024)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("failed to receive datagram: %v", err)
	}

	var got jointstate.Message
	if err := json.Unmarshal(buf[:n], &got); err != nil {
		t.Fatalf("datagram is not valid JSON: %v", err)
	}
	for i, want := range names {
		if got.Joints[i].Name != want {
			t.Errorf("joint %d = %q, want %q", i, got.Joints[i].Name, want)
		}
	}
}

func TestNewUDPPublisherBadAddress(t *testing.T) {
	if _, err := NewUDPPublisher("this is not a host", 9999); err == nil {
		t.Error("expected error for unresolvable address")
	}
}
