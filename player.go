package bingo

import (
	"encoding/json"
	"math/rand"

	"go.uber.org/zap"
)

const letterBytes = "1234567890"

func GenId() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}
	return string(b)
}

// lifecycle commands every room understands
const (
	CmdDisconnect = "disconnect"
	CmdJoin       = "join"
	CmdLeave      = "leave"
	CmdStop       = "stop"
)

type Command struct {
	PlayerId string
	Ws       Connector `json:"-"`
	Type     string
	Version  int
	Data     json.RawMessage
}

// ProcessPlayerCommands reads commands off a player's connection and routes
// them to the room the player joined. Players can't stop rooms, only the
// sweeper can.
func ProcessPlayerCommands[T any](rooms *Rooms[T], newRoom func(string) *Room[T]) PlayerCommandHandler {
	return func(ws Connector, playerId string) {
		var room *Room[T]
		log := zap.L().With(zap.String("player", playerId))

		defer func() {
			if room != nil {
				room.Send(&Command{Type: CmdDisconnect, PlayerId: playerId})
			}
		}()

		for {
			cmd := &Command{}
			if err := ws.Recv(cmd); err != nil {
				log.Debug("Player connection ended", zap.Error(err))
				return
			}
			cmd.Ws = ws
			cmd.PlayerId = playerId
			switch cmd.Type {
			case CmdJoin:
				if room != nil {
					room.Send(&Command{Type: CmdLeave, PlayerId: playerId})
					room = nil
				}

				var id string
				if len(cmd.Data) > 0 {
					if err := json.Unmarshal(cmd.Data, &id); err != nil {
						log.Warn("Couldn't decode join code", zap.Error(err))
						continue
					}
				}

				if id != "" {
					room = rooms.Get(id)
				}
				if room == nil {
					// new, or the code was stale
					room = newRoom(GenId())
				}
				rooms.Set(room, playerId)
				if !room.Send(cmd) {
					log.Warn("Room already finished", zap.String("room", room.Id))
					rooms.Delete(room.Id)
					room = nil
				}
			case CmdStop, CmdDisconnect:
				// internal only
			default:
				if room == nil {
					log.Debug("Command before join", zap.String("type", cmd.Type))
					continue
				}
				if !room.Send(cmd) {
					rooms.Delete(room.Id)
					room = nil
				}
			}
		}
	}
}
