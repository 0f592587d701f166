package http

import (
	"encoding/json"
	"net/http"

	"quizshow-scoreboard/internal/app"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WSHandler struct {
	service  *app.ControlService
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ControlService, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    app.CommandType `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Command app.CommandType `json:"command,omitempty"`
	Message string          `json:"message"`
}

// ServeWS upgrades a control-panel or renderer connection for one show. Every
// inbound command is answered with a "result" board or an "error"; the
// debounced feed arrives as "board" messages.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	showID := r.URL.Query().Get("show")
	if showID == "" {
		http.Error(w, "missing show", http.StatusBadRequest)
		return
	}

	log := h.log.WithFields(logrus.Fields{"show": showID, "conn": uuid.NewString()})

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	if _, err := h.service.Open(r.Context(), showID); err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	updates, cancel, err := h.service.Subscribe(r.Context(), showID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	log.Info("control connection opened")

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer; gorilla connections do not allow concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Debug("ws write failed")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case board, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "board", Payload: board}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		cmd, err := decodeCommand(inbound)
		if err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Command: inbound.Type, Message: "invalid payload"}}
			continue
		}
		board, err := h.service.Dispatch(r.Context(), showID, cmd)
		if err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Command: cmd.Type, Message: err.Error()}}
			continue
		}
		send <- outboundMessage[any]{Type: "result", Payload: board}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
	log.Info("control connection closed")
}

func decodeCommand(in inboundMessage) (app.Command, error) {
	var cmd app.Command
	if len(in.Payload) > 0 && string(in.Payload) != "null" {
		if err := json.Unmarshal(in.Payload, &cmd); err != nil {
			return app.Command{}, err
		}
	}
	cmd.Type = in.Type
	return cmd, nil
}
