package broadcast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/logx"
	"git.lost.host/meutraa/lanes/internal/score"
	"github.com/gorilla/websocket"
)

func server(t *testing.T) (string, <-chan Update) {
	t.Helper()
	updates := make(chan Update, 16)
	upgrader := websocket.Upgrader{}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if nil != err {
			t.Log("upgrade failed", err)
			return
		}
		defer conn.Close()
		for {
			var u Update
			if err := conn.ReadJSON(&u); nil != err {
				close(updates)
				return
			}
			updates <- u
		}
	}))
	t.Cleanup(s.Close)
	return "ws" + strings.TrimPrefix(s.URL, "http"), updates
}

func TestPublish(t *testing.T) {
	url, updates := server(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, logx.Discard())
	if nil != err {
		t.Fatal(err)
	}

	sent := []Update{
		{Session: "s", Player: "p1", Judgement: "perfect", Counts: score.Counts{Perfect: 1}, Score: 5, Time: 1},
		{Session: "s", Player: "p1", Counts: score.Counts{Perfect: 1}, Score: 5, Time: 2, Final: true},
	}
	for _, u := range sent {
		if !c.Publish(u) {
			t.Fatal("update was dropped")
		}
	}
	if err := c.Close(); nil != err {
		t.Fatal(err)
	}

	received := []Update{}
	timeout := time.After(5 * time.Second)
	for len(received) < len(sent) {
		select {
		case u, ok := <-updates:
			if !ok {
				t.Fatalf("connection closed after %d updates", len(received))
			}
			received = append(received, u)
		case <-timeout:
			t.Fatalf("only received %d updates", len(received))
		}
	}
	for i := range sent {
		if received[i] != sent[i] {
			t.Log("received", received[i])
			t.Log("sent    ", sent[i])
			t.Fail()
		}
	}

	if c.Publish(sent[0]) {
		t.Fatal("closed client accepted an update")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	url, _ := server(t)
	c, err := Dial(context.Background(), url, logx.Discard())
	if nil != err {
		t.Fatal(err)
	}
	defer c.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < bufferSize*20; i++ {
			c.Publish(Update{Session: "s", Score: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked")
	}
}

func TestDialFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, "ws://127.0.0.1:1/", logx.Discard()); nil == err {
		t.Fatal("dial to a closed port succeeded")
	}
}
