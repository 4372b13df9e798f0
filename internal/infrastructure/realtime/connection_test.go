package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

func TestSendAfterCloseReturnsError(t *testing.T) {
	t.Parallel()

	c := newTestConn("u1")
	c.Close(websocket.CloseNormalClosure, "bye")

	if err := c.Send([]byte("late")); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Send after Close = %v, want ErrConnectionClosed", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newTestConn("u1")
	c.Close(websocket.CloseNormalClosure, "bye")
	c.Close(websocket.CloseNormalClosure, "again")

	if err := c.Send(nil); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Send after double Close = %v, want ErrConnectionClosed", err)
	}
}

func TestSendRacingCloseDoesNotPanic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		c := newTestConn("u1")

		var wg sync.WaitGroup
		start := make(chan struct{})
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for j := 0; j < 200; j++ {
					_ = c.Send([]byte("payload"))
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			c.Close(websocket.CloseNormalClosure, "bye")
		}()

		close(start)
		wg.Wait()
	}
}

func TestSendFullBufferClosesConnection(t *testing.T) {
	t.Parallel()

	c := newTestConn("u1")
	for i := 0; i < sendBacklog; i++ {
		if err := c.Send([]byte("fill")); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}

	if err := c.Send([]byte("overflow")); err == nil {
		t.Fatal("overflowing the buffer should fail the send")
	}
	if err := c.Send([]byte("after")); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Send after overflow close = %v, want ErrConnectionClosed", err)
	}
}
