package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"beltsense/internal/models"
)

func TestHub_DeviceAlertEnqueuesForEveryDevice(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	c1, c2 := new(websocket.Conn), new(websocket.Conn)
	ch1 := hub.Register(c1)
	ch2 := hub.Register(c2)

	hub.DeviceAlert(models.AlertRecord{Source: "Chute 5", Severity: models.SeverityCritical, Summary: "full"})

	for i, ch := range []<-chan Envelope{ch1, ch2} {
		select {
		case env := <-ch:
			if env.Type != "device_alert" {
				t.Fatalf("device %d: type=%q", i+1, env.Type)
			}
			payload, ok := env.Data.(deviceAlertPayload)
			if !ok {
				t.Fatalf("device %d: unexpected payload %T", i+1, env.Data)
			}
			if payload.Source != "Chute 5" || payload.Severity != models.SeverityCritical {
				t.Fatalf("device %d: payload %+v", i+1, payload)
			}
			if len(payload.Vibration) != 3 || payload.Vibration[0] != 200 || payload.Vibration[1] != 500 || payload.Vibration[2] != 200 {
				t.Fatalf("device %d: vibration %v", i+1, payload.Vibration)
			}
			if payload.Sound != notificationSound {
				t.Fatalf("device %d: sound %q", i+1, payload.Sound)
			}
		case <-time.After(time.Second):
			t.Fatalf("device %d never received the push", i+1)
		}
	}
}

func TestHub_BroadcastNeverBlocksOnFullQueue(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	hub.Register(new(websocket.Conn)) // nobody drains this queue

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < sendBuffer*4; i++ {
			hub.SessionReset()
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on an undrained device queue")
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	conn := new(websocket.Conn)
	ch := hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel, got a value")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Unregister")
	}

	// A second Unregister for the same conn is a no-op, not a double close.
	hub.Unregister(conn)

	// Broadcasting after unregister must not reach the closed channel.
	hub.SessionReset()
}

func TestHub_ConcurrentBroadcastAndChurn(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	rec := models.AlertRecord{Source: "Chute 1", Severity: models.SeverityHigh}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.DeviceAlert(rec)
				hub.SessionReset()
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				conn := new(websocket.Conn)
				ch := hub.Register(conn)
				select {
				case <-ch:
				default:
				}
				hub.Unregister(conn)
			}
		}()
	}
	wg.Wait()
}
