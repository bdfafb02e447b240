package picker

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/jakecoffman/bingo"
	"github.com/jakecoffman/bingo/chips"
	"go.uber.org/zap"
)

// Picker is the state of one word-picking room. Only the room goroutine
// touches it, the admin page reads the Summary instead.
type Picker struct {
	*bingo.Room[*Picker] `json:"-"`

	Players      []*Player
	playerCursor int
	// bumped on every change so clients can drop stale views
	Version int

	words   *chips.Selector
	receive Receiver
	summary atomic.Pointer[Summary]
}

type Player struct {
	ws        bingo.Connector
	Uuid      string `json:"-"`
	Id        int
	Connected bool
	Ip        string `json:"-"`
}

// Find returns the player object and the position they are in
func Find(players []*Player, uuid string) (*Player, int) {
	for i, player := range players {
		if player.Uuid == uuid {
			return player, i
		}
	}
	return nil, -1
}

// Receiver gets every submission a room produces, after the submitting
// player has been sent the encoded fields.
type Receiver func(roomId, playerId string, sub chips.Submission)

// Summary is a copy of the room's numbers safe to read from anywhere
type Summary struct {
	Id       string
	Players  int
	Online   int
	Selected int
	Total    int
	Created  time.Time
	Updated  time.Time
}

// Factory builds rooms that all start from the same preset chips
func Factory(presets []chips.Chip, receive Receiver) func(string) *bingo.Room[*Picker] {
	return func(id string) *bingo.Room[*Picker] {
		return NewPicker(id, presets, receive).Room
	}
}

func NewPicker(id string, presets []chips.Chip, receive Receiver) *Picker {
	p := &Picker{
		Players:      []*Player{},
		playerCursor: 1,
		words:        chips.NewSelector(presets),
		receive:      receive,
	}
	p.Room = bingo.NewRoom(p, id)
	p.snapshot()
	go p.run()
	return p
}

// message types
const (
	cmdToggle      = "toggle"
	cmdAdd         = "add"
	cmdSelectAll   = "selectall"
	cmdDeselectAll = "deselectall"
	cmdSubmit      = "submit"
)

// handler applies one command. True means state changed and everyone needs
// the new view.
type handler func(p *Picker, cmd *bingo.Command) bool

var handlers = map[string]handler{
	bingo.CmdJoin:       (*Picker).handleJoin,
	bingo.CmdLeave:      (*Picker).handleLeave,
	bingo.CmdDisconnect: (*Picker).handleDisconnect,
	cmdToggle:           (*Picker).handleToggle,
	cmdAdd:              (*Picker).handleAdd,
	cmdSelectAll:        (*Picker).handleSelectAll,
	cmdDeselectAll:      (*Picker).handleDeselectAll,
	cmdSubmit:           (*Picker).handleSubmit,
}

func (p *Picker) run() {
	var cmd *bingo.Command
	log := zap.L().With(zap.String("room", p.Id))

	defer p.Finish()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Room crashed",
				zap.Any("panic", r),
				zap.Stringer("state", p),
				zap.Any("lastCommand", cmd),
				zap.ByteString("stack", debug.Stack()))
		}
	}()

	for {
		cmd = <-p.Cmd
		if cmd.Type == bingo.CmdStop {
			log.Info("Room stopped")
			return
		}

		handle, ok := handlers[cmd.Type]
		if !ok {
			log.Warn("Unknown message", zap.String("type", cmd.Type), zap.String("player", cmd.PlayerId))
			continue
		}
		if handle(p, cmd) {
			p.Version++
			p.sendEveryoneEverything()
		}
		p.Touch()
		p.snapshot()
	}
}

func (p *Picker) snapshot() {
	online := 0
	for _, player := range p.Players {
		if player.Connected {
			online++
		}
	}
	status := p.words.Status()
	p.summary.Store(&Summary{
		Id:       p.Id,
		Players:  len(p.Players),
		Online:   online,
		Selected: status.Selected,
		Total:    status.Total,
		Created:  p.Created,
		Updated:  p.Updated(),
	})
}

// Summary may be called from any goroutine
func (p *Picker) Summary() Summary {
	return *p.summary.Load()
}

type UpdateMsg struct {
	Type   string
	Update *View
}

// View is everything the browser needs to draw the chips, the counter and
// the alert
type View struct {
	Id      string
	Version int
	Players []Player
	Chips   []chips.Chip
	Status  chips.Status
	You     int
}

func (p *Picker) view(you int) *View {
	// copies, the connection encodes this on its own goroutine
	players := make([]Player, len(p.Players))
	for i, player := range p.Players {
		players[i] = *player
	}
	return &View{
		Id:      p.Id,
		Version: p.Version,
		Players: players,
		Chips:   p.words.Chips(),
		Status:  p.words.Status(),
		You:     you,
	}
}

func (p *Picker) sendEverythingTo(player *Player) {
	if player == nil || player.ws == nil {
		return
	}
	player.ws.Send(&UpdateMsg{Type: "all", Update: p.view(player.Id)})
}

func (p *Picker) sendEveryoneEverything() {
	for _, player := range p.Players {
		p.sendEverythingTo(player)
	}
}

type MsgMsg struct {
	Type string
	Msg  string
}

func sendMsg(c bingo.Connector, msg string) {
	if c == nil {
		return
	}
	c.Send(&MsgMsg{Type: "msg", Msg: msg})
}

type AddedMsg struct {
	Type   string
	Result chips.AddResult
	Word   string
}

type SubmissionMsg struct {
	Type string
	chips.Submission
}

func (p *Picker) String() string {
	b, _ := json.Marshal(struct {
		*Picker
		Chips []chips.Chip
	}{p, p.words.Chips()})
	return string(b)
}

func (p *Picker) decode(cmd *bingo.Command, v interface{}) bool {
	if err := json.Unmarshal(cmd.Data, v); err != nil {
		zap.L().Warn("Bad command data",
			zap.String("room", p.Id),
			zap.String("type", cmd.Type),
			zap.Error(err))
		sendMsg(cmd.Ws, fmt.Sprintf("Got invalid data for %v", cmd.Type))
		return false
	}
	return true
}
