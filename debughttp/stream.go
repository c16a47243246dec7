package debughttp

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	defaultStreamInterval = time.Second
	minStreamInterval     = 50 * time.Millisecond
	writeWait             = 5 * time.Second
)

var statsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// streamStats pushes BridgeStats as a JSON text message every interval
// until the client goes away.
func (s *Server) streamStats(ctx *gin.Context) {
	interval := defaultStreamInterval
	if raw, ok := ctx.GetQuery(`interval`); ok {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < minStreamInterval {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{`error`: `invalid interval`})
			return
		}
		interval = parsed
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "streamStats",
			"error":    err.Error(),
		}).Debug("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.pushStats(conn); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "streamStats",
				"error":    err.Error(),
			}).Debug("Stats stream ended")
			return
		}

		select {
		case <-closed:
			return
		case <-ctx.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) pushStats(conn *websocket.Conn) error {
	data, err := statsJSON.Marshal(s.bridge.Stats())
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
