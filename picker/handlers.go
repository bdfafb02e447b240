package picker

import (
	"github.com/jakecoffman/bingo"
	"github.com/jakecoffman/bingo/chips"
	"go.uber.org/zap"
)

func (p *Picker) handleJoin(cmd *bingo.Command) bool {
	player, i := Find(p.Players, cmd.PlayerId)
	if i == -1 {
		// player was not here before
		player = &Player{Uuid: cmd.PlayerId, Id: p.playerCursor}
		p.Players = append(p.Players, player)
		p.playerCursor++
	}
	player.ws = cmd.Ws
	player.Connected = true
	if cmd.Ws != nil {
		player.Ip = cmd.Ws.Ip()
	}
	zap.L().Info("Player joined", zap.String("room", p.Id), zap.Int("player", player.Id))
	return true
}

func (p *Picker) handleLeave(cmd *bingo.Command) bool {
	for i, player := range p.Players {
		if player.Uuid == cmd.PlayerId {
			p.Players = append(p.Players[0:i], p.Players[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Picker) handleDisconnect(cmd *bingo.Command) bool {
	player, i := Find(p.Players, cmd.PlayerId)
	if i == -1 {
		zap.L().Debug("Couldn't find player", zap.String("room", p.Id), zap.String("player", cmd.PlayerId))
		return false
	}
	player.ws = nil
	player.Connected = false
	return true
}

// handleToggle flips the chip the user clicked. Clicks that didn't land on a
// chip come through with a word no chip has and do nothing.
func (p *Picker) handleToggle(cmd *bingo.Command) bool {
	var word string
	if !p.decode(cmd, &word) {
		return false
	}
	return p.words.Toggle(word)
}

func (p *Picker) handleAdd(cmd *bingo.Command) bool {
	var raw string
	if !p.decode(cmd, &raw) {
		return false
	}
	result := p.words.Add(raw)
	if cmd.Ws != nil {
		cmd.Ws.Send(&AddedMsg{Type: "added", Result: result, Word: chips.Normalize(raw)})
	}
	return result != chips.Ignored
}

func (p *Picker) handleSelectAll(cmd *bingo.Command) bool {
	p.words.SelectAll()
	return true
}

func (p *Picker) handleDeselectAll(cmd *bingo.Command) bool {
	p.words.DeselectAll()
	return true
}

// handleSubmit answers the player who is about to submit the form with the
// encoded selection. Nothing changes so nobody else is told.
func (p *Picker) handleSubmit(cmd *bingo.Command) bool {
	sub := p.words.Submission()
	if cmd.Ws != nil {
		cmd.Ws.Send(&SubmissionMsg{Type: "submission", Submission: sub})
	}
	if p.receive != nil {
		p.receive(p.Id, cmd.PlayerId, sub)
	}
	return false
}
