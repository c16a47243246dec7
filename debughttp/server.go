package debughttp

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opd-ai/texturerender"
	"github.com/opd-ai/texturerender/interfaces"
	"github.com/opd-ai/texturerender/video"
	"github.com/sirupsen/logrus"
)

// DefaultJPEGQuality is the snapshot encoding quality.
const DefaultJPEGQuality = 70

const shutdownTimeout = 5 * time.Second

// Server exposes bridge state over HTTP for inspection.
type Server struct {
	bridge  *texturerender.Bridge
	engine  *gin.Engine
	quality int
}

// New creates a debug server for bridge. Frames stored in the bridge must
// be *video.Frame values for snapshots to work.
func New(bridge *texturerender.Bridge) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		bridge:  bridge,
		engine:  gin.New(),
		quality: DefaultJPEGQuality,
	}
	s.engine.Use(gin.Recovery())
	s.engine.GET(`/healthz`, s.healthz)
	s.engine.GET(`/textures`, s.listTextures)
	s.engine.GET(`/stream/stats`, s.streamStats)
	s.engine.GET(`/textures/:id`, s.textureStats)
	s.engine.GET(`/textures/:id/snapshot.jpg`, s.snapshot)
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logrus.WithFields(logrus.Fields{
		"function": "ListenAndServe",
		"addr":     addr,
	}).Info("Debug server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		`status`:     `ok`,
		`registered`: s.bridge.IsRegistered(),
		`process`:    processStats(),
	})
}

func (s *Server) listTextures(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.bridge.Stats())
}

func (s *Server) textureStats(ctx *gin.Context) {
	id, ok := parseTextureID(ctx)
	if !ok {
		return
	}
	stats, exists := s.bridge.TextureStats(id)
	if !exists {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{`error`: `unknown texture`})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// snapshot encodes the newest frame without consuming it.
func (s *Server) snapshot(ctx *gin.Context) {
	id, ok := parseTextureID(ctx)
	if !ok {
		return
	}

	result := s.bridge.Peek(id)
	switch {
	case result.Status == interfaces.PullUnregistered:
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{`error`: `unknown texture`})
		return
	case !result.HasFrame() || result.Refs.Frame == nil:
		ctx.AbortWithStatus(http.StatusNoContent)
		return
	}

	img, err := video.ToRGBA((*video.Frame)(result.Refs.Frame))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "snapshot",
			"texture_id": id,
			"error":      err.Error(),
		}).Warn("Failed to convert frame for snapshot")
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{`error`: err.Error()})
		return
	}

	if caption, _ := strconv.ParseBool(ctx.Query(`caption`)); caption {
		drawCaption(img, id, result.Sequence)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{`error`: err.Error()})
		return
	}

	ctx.Header(`X-Frame-Sequence`, strconv.FormatUint(result.Sequence, 10))
	ctx.Data(http.StatusOK, `image/jpeg`, buf.Bytes())
}

func parseTextureID(ctx *gin.Context) (interfaces.TextureID, bool) {
	id, err := strconv.ParseInt(ctx.Param(`id`), 10, 64)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{`error`: `invalid texture id`})
		return 0, false
	}
	return interfaces.TextureID(id), true
}
