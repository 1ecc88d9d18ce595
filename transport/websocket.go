package transport

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

// byteQueue is the single-producer single-consumer handoff between the
// websocket reader goroutine and the session loop
type byteQueue struct {
	mu   sync.Mutex
	data []byte
	err  error
}

func (q *byteQueue) push(p []byte) {
	q.mu.Lock()
	q.data = append(q.data, p...)
	q.mu.Unlock()
}

func (q *byteQueue) fail(err error) {
	q.mu.Lock()
	if q.err == nil {
		q.err = err
	}
	q.mu.Unlock()
}

// len reports queued bytes. The reader error surfaces only once the queue is empty
func (q *byteQueue) len() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return 0, q.err
	}
	return len(q.data), nil
}

func (q *byteQueue) take() ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil, q.err
	}
	out := q.data
	q.data = nil
	return out, nil
}

// wsPort bridges to a device over a websocket. Each message is treated as a
// chunk of the byte stream, not as a line
type wsPort struct {
	conn   *websocket.Conn
	queue  byteQueue
	done   chan struct{}
	closed sync.Once
}

func openWebSocket(ctx context.Context, rawURL string) (*wsPort, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return newWSPort(conn), nil
}

func newWSPort(conn *websocket.Conn) *wsPort {
	w := &wsPort{
		conn: conn,
		done: make(chan struct{}),
	}
	go w.readLoop()
	return w
}

func (w *wsPort) readLoop() {
	defer close(w.done)
	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			w.queue.fail(err)
			return
		}
		w.queue.push(data)
	}
}

func (w *wsPort) Write(p []byte) (int, error) {
	kind := websocket.BinaryMessage
	if utf8.Valid(p) {
		kind = websocket.TextMessage
	}
	if err := w.conn.WriteMessage(kind, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsPort) Buffered() (int, error) {
	return w.queue.len()
}

func (w *wsPort) ReadAvailable() ([]byte, error) {
	return w.queue.take()
}

func (w *wsPort) Close() error {
	var err error
	w.closed.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = w.conn.Close()
		<-w.done
	})
	return err
}
