package bingo

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

type PlayerCommandHandler func(Connector, string)

const COOKIE_NAME = "PLAYER_COOKIE"

// WsHandler handles player web connections
func WsHandler(cmdHandler PlayerCommandHandler) websocket.Handler {
	return func(ws *websocket.Conn) {
		connHandler(cmdHandler, NewWsConn(ws))
	}
}

type cookieMsg struct {
	Type, Cookie string
}

// testable!
func connHandler(cmdHandler PlayerCommandHandler, ws Connector) {
	defer ws.Close()

	var playerId string
	cookie, err := ws.Cookie(COOKIE_NAME)
	if err != nil || cookie.Value == "" {
		playerId = uuid.New().String()
		zap.L().Info("New player connected", zap.String("player", playerId), zap.String("ip", ws.Ip()))
	} else {
		playerId = cookie.Value
		zap.L().Info("Player returned", zap.String("player", playerId), zap.String("ip", ws.Ip()))
	}
	c := http.Cookie{Name: COOKIE_NAME, Value: playerId, Expires: time.Now().Add(24 * 365 * time.Hour)}
	ws.Send(&cookieMsg{Type: "cookie", Cookie: c.String()})

	cmdHandler(ws, playerId)
}
