package debughttp

import (
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unsafe"

	"github.com/gorilla/websocket"
	"github.com/opd-ai/texturerender"
	"github.com/opd-ai/texturerender/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamStats(t *testing.T) {
	bridge := newTestBridge(t)
	ts := httptest.NewServer(New(bridge).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream/stats?interval=50ms"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var first texturerender.BridgeStats
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, 1, first.Textures)
	assert.Zero(t, first.Updates)

	bridge.UpdateFrame(7, nil, unsafe.Pointer(new(int)))

	require.Eventually(t, func() bool {
		var next texturerender.BridgeStats
		if err := conn.ReadJSON(&next); err != nil {
			return false
		}
		return next.Updates == 1
	}, 2*time.Second, time.Millisecond)
}

func TestStreamStatsRejectsBadInterval(t *testing.T) {
	s := New(newTestBridge(t))
	for _, q := range []string{"interval=soon", "interval=1ms"} {
		rec := get(t, s, "/stream/stats?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHealthzReportsProcess(t *testing.T) {
	rec := get(t, New(newTestBridge(t)), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Process ProcessStats `json:"process"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotZero(t, body.Process.PID)
	assert.Positive(t, body.Process.Goroutines)
}

func TestDrawCaption(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 40))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	drawCaption(img, interfaces.TextureID(3), 42)

	// The bar darkens the top rows and leaves the rest untouched.
	assert.Less(t, img.RGBAAt(100, 2).R, uint8(0xff))
	assert.Equal(t, uint8(0xff), img.RGBAAt(100, 30).R)
}
