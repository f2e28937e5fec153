package broadcast

import (
	"context"
	"errors"
	"sync"
	"time"

	"git.lost.host/meutraa/lanes/internal/logx"
	"git.lost.host/meutraa/lanes/internal/score"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 2 * time.Second
	pingPeriod = 15 * time.Second
	bufferSize = 64
)

// Update is the score state of one player, sent after every judgement.
type Update struct {
	Session   string       `json:"session"`
	Player    string       `json:"player"`
	Judgement string       `json:"judgement,omitempty"`
	Counts    score.Counts `json:"counts"`
	Score     int          `json:"score"`
	Time      float64      `json:"time"`
	Final     bool         `json:"final"`
}

// Client publishes updates without ever blocking the game. Updates that
// do not fit in the buffer are dropped.
type Client struct {
	conn *websocket.Conn
	log  *logx.Logger

	out     chan Update
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	mu      sync.Mutex
	dropped int
}

func Dial(ctx context.Context, url string, log *logx.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if nil != err {
		return nil, err
	}
	c := &Client{
		conn: conn,
		log:  log,
		out:  make(chan Update, bufferSize),
		done: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.writePump()
	go c.readPump()
	return c, nil
}

// Publish queues an update, false if it was dropped.
func (c *Client) Publish(u Update) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- u:
		return true
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
		return false
	}
}

func (c *Client) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

func (c *Client) writePump() {
	defer c.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			// Flush what is already queued
			for {
				select {
				case u := <-c.out:
					if err := c.write(u); nil != err {
						return
					}
				default:
					return
				}
			}
		case u := <-c.out:
			if err := c.write(u); nil != err {
				c.log.Warnf("unable to broadcast score: %v", err)
				c.shutdown()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); nil != err {
				c.log.Warnf("broadcast ping failed: %v", err)
				c.shutdown()
				return
			}
		}
	}
}

func (c *Client) write(u Update) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(u)
}

// The server never sends anything we need, but reading processes
// control frames and notices a closed connection.
func (c *Client) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); nil != err {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, websocket.ErrCloseSent) {
				select {
				case <-c.done:
				default:
					c.log.Debugf("broadcast connection closed: %v", err)
				}
			}
			c.shutdown()
			return
		}
	}
}

func (c *Client) shutdown() {
	c.once.Do(func() { close(c.done) })
}

// Close flushes queued updates and closes the connection.
func (c *Client) Close() error {
	c.shutdown()
	// Only one writer at a time, so wait for the pump first
	c.wg.Wait()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
	return err
}
