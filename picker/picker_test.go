package picker

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jakecoffman/bingo"
	"github.com/jakecoffman/bingo/chips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestPicker(t *testing.T, words []string, receive Receiver) *Picker {
	t.Helper()
	p := NewPicker("123456", chips.Presets(words, nil, chips.Selected), receive)
	t.Cleanup(func() {
		p.Send(&bingo.Command{Type: bingo.CmdStop})
		<-p.Done()
	})
	return p
}

func data(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func recv(t *testing.T, conn *bingo.FakeConn) interface{} {
	t.Helper()
	select {
	case msg := <-conn.Msgs:
		return msg
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for a message")
		return nil
	}
}

func recvView(t *testing.T, conn *bingo.FakeConn) *View {
	t.Helper()
	msg, ok := recv(t, conn).(*UpdateMsg)
	require.True(t, ok, "expected an update")
	require.Equal(t, "all", msg.Type)
	return msg.Update
}

func join(t *testing.T, p *Picker, player string) *bingo.FakeConn {
	t.Helper()
	conn := bingo.NewFakeConn("127.0.0.1")
	require.True(t, p.Send(&bingo.Command{Type: bingo.CmdJoin, PlayerId: player, Ws: conn}))
	recvView(t, conn)
	return conn
}

func stateOf(v *View) map[string]chips.State {
	out := map[string]chips.State{}
	for _, c := range v.Chips {
		out[c.Word] = c.State
	}
	return out
}

func TestJoin(t *testing.T) {
	p := newTestPicker(t, []string{"apple", "banana"}, nil)
	conn := bingo.NewFakeConn("10.0.0.1")

	p.Send(&bingo.Command{Type: bingo.CmdJoin, PlayerId: "p1", Ws: conn})
	v := recvView(t, conn)

	assert.Equal(t, "123456", v.Id)
	assert.Equal(t, 1, v.You)
	assert.Len(t, v.Chips, 2)
	assert.Equal(t, "2 of 2 words selected. Need at least 16 words for a 4x4 board.", v.Status.Message)
	assert.Equal(t, chips.Warning, v.Status.Severity)
}

func TestToggle(t *testing.T) {
	p := newTestPicker(t, []string{"apple", "banana"}, nil)
	conn := join(t, p, "p1")

	p.Send(&bingo.Command{Type: "toggle", PlayerId: "p1", Ws: conn, Data: data(t, "banana")})
	v := recvView(t, conn)
	assert.Equal(t, chips.Deselected, stateOf(v)["banana"])
	assert.Equal(t, 1, v.Status.Selected)

	// a click that missed every chip changes nothing and sends nothing
	p.Send(&bingo.Command{Type: "toggle", PlayerId: "p1", Ws: conn, Data: data(t, "cherry")})
	p.Send(&bingo.Command{Type: "toggle", PlayerId: "p1", Ws: conn, Data: data(t, "banana")})
	next := recvView(t, conn)
	assert.Equal(t, v.Version+1, next.Version)
	assert.Equal(t, chips.Selected, stateOf(next)["banana"])
}

func TestAdd(t *testing.T) {
	p := newTestPicker(t, []string{"apple"}, nil)
	conn := join(t, p, "p1")

	p.Send(&bingo.Command{Type: "add", PlayerId: "p1", Ws: conn, Data: data(t, "  ")})
	added := recv(t, conn).(*AddedMsg)
	assert.Equal(t, chips.Ignored, added.Result)

	p.Send(&bingo.Command{Type: "add", PlayerId: "p1", Ws: conn, Data: data(t, "  Cat ")})
	added = recv(t, conn).(*AddedMsg)
	assert.Equal(t, chips.Created, added.Result)
	assert.Equal(t, "cat", added.Word)
	v := recvView(t, conn)
	require.Len(t, v.Chips, 2)
	assert.Equal(t, chips.Chip{Word: "cat", Source: chips.Custom, State: chips.Selected}, v.Chips[1])

	p.Send(&bingo.Command{Type: "toggle", PlayerId: "p1", Ws: conn, Data: data(t, "cat")})
	recvView(t, conn)
	p.Send(&bingo.Command{Type: "add", PlayerId: "p1", Ws: conn, Data: data(t, "cat")})
	added = recv(t, conn).(*AddedMsg)
	assert.Equal(t, chips.Reselected, added.Result)
	v = recvView(t, conn)
	assert.Len(t, v.Chips, 2)
	assert.Equal(t, chips.Selected, stateOf(v)["cat"])
}

func TestSelectAndDeselectAll(t *testing.T) {
	list := make([]string, 24)
	for i := range list {
		list[i] = string(rune('a'+i)) + "word"
	}
	p := newTestPicker(t, list, nil)
	conn := join(t, p, "p1")

	p.Send(&bingo.Command{Type: "deselectall", PlayerId: "p1", Ws: conn})
	v := recvView(t, conn)
	assert.Equal(t, "0 of 24 words selected. Need at least 16 words for a 4x4 board.", v.Status.Message)
	assert.Equal(t, chips.Warning, v.Status.Severity)

	p.Send(&bingo.Command{Type: "selectall", PlayerId: "p1", Ws: conn})
	v = recvView(t, conn)
	assert.Equal(t, 24, v.Status.Selected)
	assert.Equal(t, chips.Success, v.Status.Severity)
}

func TestSubmit(t *testing.T) {
	var mu sync.Mutex
	var got chips.Submission
	p := newTestPicker(t, []string{"apple", "banana", "cherry"}, func(room, player string, sub chips.Submission) {
		mu.Lock()
		got = sub
		mu.Unlock()
	})
	conn := join(t, p, "p1")

	p.Send(&bingo.Command{Type: "toggle", PlayerId: "p1", Ws: conn, Data: data(t, "banana")})
	recvView(t, conn)
	p.Send(&bingo.Command{Type: "add", PlayerId: "p1", Ws: conn, Data: data(t, "Date")})
	recv(t, conn)
	recvView(t, conn)

	p.Send(&bingo.Command{Type: "submit", PlayerId: "p1", Ws: conn})
	msg := recv(t, conn).(*SubmissionMsg)
	assert.Equal(t, "submission", msg.Type)

	words, err := chips.DecodeWords(msg.SelectedWords)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "cherry", "date"}, words)
	assert.Equal(t, `["date"]`, msg.CustomWords)

	mu.Lock()
	assert.Equal(t, msg.Submission, got)
	mu.Unlock()
}

func TestBroadcast(t *testing.T) {
	p := newTestPicker(t, []string{"apple"}, nil)
	a := join(t, p, "a")
	b := join(t, p, "b")
	// a hears about b joining
	assert.Len(t, recvView(t, a).Players, 2)

	p.Send(&bingo.Command{Type: "toggle", PlayerId: "b", Ws: b, Data: data(t, "apple")})
	assert.Equal(t, chips.Deselected, stateOf(recvView(t, a))["apple"])
	assert.Equal(t, chips.Deselected, stateOf(recvView(t, b))["apple"])

	p.Send(&bingo.Command{Type: bingo.CmdDisconnect, PlayerId: "b"})
	v := recvView(t, a)
	assert.False(t, v.Players[1].Connected)

	p.Send(&bingo.Command{Type: bingo.CmdLeave, PlayerId: "b"})
	assert.Len(t, recvView(t, a).Players, 1)
}

func TestBadData(t *testing.T) {
	p := newTestPicker(t, []string{"apple"}, nil)
	conn := join(t, p, "p1")

	p.Send(&bingo.Command{Type: "toggle", PlayerId: "p1", Ws: conn, Data: json.RawMessage(`{"not":"a word"}`)})
	msg := recv(t, conn).(*MsgMsg)
	assert.Equal(t, "Got invalid data for toggle", msg.Msg)

	p.Send(&bingo.Command{Type: "bogus", PlayerId: "p1", Ws: conn})
	p.Send(&bingo.Command{Type: "selectall", PlayerId: "p1", Ws: conn})
	recvView(t, conn)
}

func TestSummary(t *testing.T) {
	p := newTestPicker(t, []string{"apple", "banana"}, nil)
	conn := join(t, p, "p1")
	p.Send(&bingo.Command{Type: "toggle", PlayerId: "p1", Ws: conn, Data: data(t, "apple")})
	recvView(t, conn)

	require.Eventually(t, func() bool {
		return p.Summary().Selected == 1
	}, time.Second, time.Millisecond)
	s := p.Summary()
	assert.Equal(t, "123456", s.Id)
	assert.Equal(t, 1, s.Players)
	assert.Equal(t, 1, s.Online)
	assert.Equal(t, 2, s.Total)
}

func TestStop(t *testing.T) {
	p := NewPicker("1", nil, nil)
	require.True(t, p.Send(&bingo.Command{Type: bingo.CmdStop}))
	<-p.Done()
	assert.False(t, p.Send(&bingo.Command{Type: "selectall"}))
}
