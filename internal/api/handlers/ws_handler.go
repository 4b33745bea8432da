package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/prepwise/airecruiter/internal/services"
	"github.com/prepwise/airecruiter/internal/utils"
	"github.com/prepwise/airecruiter/internal/voice"
)

type WSHandler struct {
	interviews services.InterviewService
	log        *logrus.Logger
	upgrader   websocket.Upgrader
}

func NewWSHandler(interviews services.InterviewService, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		interviews: interviews,
		log:        log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

// InterviewWS bridges the browser's voice-agent callbacks to the session state
// machine. The client sends voice events as JSON; the server pushes status
// updates back on every observable change. The socket closes once the session
// reaches a terminal state.
func (h *WSHandler) InterviewWS(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	sessionID := c.Param("id")
	sess, err := h.interviews.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sess.UserID != id.UserID {
		writeError(c, utils.E(utils.CodeForbidden, "WSHandler.InterviewWS", "you do not have access to this interview", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	ctrl := voice.NewController(sessionID, h.interviews, h.log)

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		ctrl.Run(ctx)
	}()

	// reader: WS -> controller event queue
	go func() {
		defer cancel()
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var ev voice.Event
			if err := json.Unmarshal(data, &ev); err != nil {
				h.log.WithError(err).Warn("ws: dropping malformed voice event")
				continue
			}
			if err := ctrl.Submit(ctx, ev); err != nil {
				return
			}
		}
	}()

	// writer: controller status updates -> WS
	for update := range ctrl.Updates() {
		payload, merr := json.Marshal(update)
		if merr != nil {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if werr := conn.WriteMessage(websocket.TextMessage, payload); werr != nil {
			cancel()
			break
		}
	}

	<-runDone
}
