// internal/httpserver/ws.go
//
// GET /matches/{id}/ws streams a match's views over a websocket.
//
// Frames are {"t": type, "p": payload}:
//   - server → client: "view" (game.View), "ack" ({action, accepted}), "error"
//   - client → server: "start", "restart", "catch"
//
// ?format=msgpack switches server frames to msgpack binary messages. Client
// commands may be JSON text or msgpack binary in either mode.
//
// Only the write loop writes to the connection; the read loop hands acks to it.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lacey1998/FishMIner-Game/internal/arcade"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 25 * time.Second
	wsReadLimit  = 4096
)

var upgrader = websocket.Upgrader{
	// any origin may watch a match
	CheckOrigin: func(r *http.Request) bool { return true },
}

type frame struct {
	T string `json:"t" msgpack:"t"`
	P any    `json:"p,omitempty" msgpack:"p,omitempty"`
}

type ackPayload struct {
	Action   string `json:"action" msgpack:"action"`
	Accepted bool   `json:"accepted" msgpack:"accepted"`
}

func (s *Server) handleMatchStream(w http.ResponseWriter, r *http.Request) {
	m, err := s.matches.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeStoreError(w, err)
		return
	}
	binary := r.URL.Query().Get("format") == "msgpack"

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("match", m.ID).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	views, cancel := m.Subscribe()
	defer cancel()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	acks := make(chan frame, 8)
	done := make(chan struct{})
	go readCommands(conn, m, acks, done)

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	log.Debug().Str("match", m.ID).Bool("msgpack", binary).Msg("stream opened")
	for {
		select {
		case v, ok := <-views:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match closed"))
				return
			}
			if err := writeFrame(conn, binary, frame{T: "view", P: v}); err != nil {
				return
			}
		case f := <-acks:
			if err := writeFrame(conn, binary, f); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			log.Debug().Str("match", m.ID).Msg("stream closed")
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, binary bool, f frame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if !binary {
		return conn.WriteJSON(f)
	}
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

// readCommands runs until the connection fails, then closes done.
func readCommands(conn *websocket.Conn, m *arcade.Match, acks chan<- frame, done chan<- struct{}) {
	defer close(done)
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd frame
		switch kind {
		case websocket.TextMessage:
			err = json.Unmarshal(data, &cmd)
		case websocket.BinaryMessage:
			err = msgpack.Unmarshal(data, &cmd)
		default:
			continue
		}
		if err != nil {
			sendAck(acks, frame{T: "error", P: "bad_frame"})
			continue
		}

		var act func() (bool, error)
		switch cmd.T {
		case "start":
			act = func() (bool, error) { ok, _, err := m.Start(); return ok, err }
		case "restart":
			act = func() (bool, error) { ok, _, err := m.Restart(); return ok, err }
		case "catch":
			act = func() (bool, error) { ok, _, err := m.Catch(); return ok, err }
		default:
			sendAck(acks, frame{T: "error", P: "unknown_command"})
			continue
		}
		accepted, err := act()
		if err != nil {
			return
		}
		sendAck(acks, frame{T: "ack", P: ackPayload{Action: cmd.T, Accepted: accepted}})
	}
}

// sendAck drops the ack when the writer is backed up.
func sendAck(acks chan<- frame, f frame) {
	select {
	case acks <- f:
	default:
	}
}
