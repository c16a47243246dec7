package testing

import (
	"context"
	"errors"
	"testing"
	"unsafe"

	"github.com/opd-ai/texturerender"
	"github.com/opd-ai/texturerender/interfaces"
)

func newTestConfig() *interfaces.HostConfig {
	return &interfaces.HostConfig{
		UseSimulation: true,
		RefreshRate:   60,
		SurfaceWidth:  64,
		SurfaceHeight: 32,
	}
}

func newRegisteredHost(t *testing.T) (*SimulatedRegistrar, *texturerender.Bridge) {
	t.Helper()
	host := NewSimulatedRegistrar(newTestConfig())
	bridge := texturerender.New(nil)
	if err := bridge.Register(host); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return host, bridge
}

func TestNewSimulatedRegistrar(t *testing.T) {
	host := NewSimulatedRegistrar(newTestConfig())

	if host.ABIVersion() != interfaces.BridgeABIVersion {
		t.Errorf("expected ABI version %d, got %d", interfaces.BridgeABIVersion, host.ABIVersion())
	}
	stats := host.Stats()
	if stats.Surfaces != 0 || stats.AttachCalls != 0 || stats.Running {
		t.Errorf("unexpected initial stats: %+v", stats)
	}
}

func TestEndToEndFrameDelivery(t *testing.T) {
	host, bridge := newRegisteredHost(t)

	id, surface, err := host.CreateSurface(0, 0)
	if err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}
	if id != 1 {
		t.Errorf("expected first id 1, got %d", id)
	}
	sim, ok := host.Surface(id)
	if !ok || sim.Width != 64 || sim.Height != 32 {
		t.Errorf("expected default 64x32 surface, got %+v", sim)
	}

	if got := host.PaintOnce(id).Status; got != interfaces.PullNoFrame {
		t.Errorf("expected no_frame before any update, got %v", got)
	}

	frame := new(int)
	bridge.UpdateFrame(id, surface, unsafe.Pointer(frame))

	result := host.PaintOnce(id)
	if result.Status != interfaces.PullFrameAvailable {
		t.Fatalf("expected frame_available, got %v", result.Status)
	}
	if result.Refs.Texture != surface || result.Refs.Frame != unsafe.Pointer(frame) {
		t.Error("pulled references do not match the update")
	}
	if got := host.PaintOnce(id).Status; got != interfaces.PullNothingNew {
		t.Errorf("expected nothing_new on repeat paint, got %v", got)
	}

	notifications := host.Notifications()
	if len(notifications) != 1 || notifications[0] != id {
		t.Errorf("expected one notification for %d, got %v", id, notifications)
	}

	stats := host.Stats()
	if stats.Paints != 3 || stats.FramesPainted != 1 {
		t.Errorf("unexpected paint stats: %+v", stats)
	}
}

func TestRegisterAfterCreateSurface(t *testing.T) {
	host := NewSimulatedRegistrar(newTestConfig())
	id, surface, err := host.CreateSurface(0, 0)
	if err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}

	bridge := texturerender.New(nil)
	if err := bridge.Register(host); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if got := host.PaintOnce(id).Status; got != interfaces.PullNoFrame {
		t.Errorf("expected no_frame for pre-existing surface, got %v", got)
	}

	frame := new(int)
	bridge.UpdateFrame(id, surface, unsafe.Pointer(frame))

	result := host.PaintOnce(id)
	if result.Status != interfaces.PullFrameAvailable {
		t.Fatalf("expected frame_available, got %v", result.Status)
	}
	if result.Refs.Frame != unsafe.Pointer(frame) {
		t.Error("pulled frame does not match the update")
	}
	if orphans := bridge.Stats().OrphanUpdates; orphans != 0 {
		t.Errorf("expected no orphan updates, got %d", orphans)
	}
}

func TestDestroySurfaceUnregistersTexture(t *testing.T) {
	host, bridge := newRegisteredHost(t)

	id, surface, err := host.CreateSurface(16, 16)
	if err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}
	if err := host.DestroySurface(id); err != nil {
		t.Fatalf("DestroySurface failed: %v", err)
	}

	bridge.UpdateFrame(id, surface, unsafe.Pointer(new(int)))
	if got := host.PaintOnce(id).Status; got != interfaces.PullUnregistered {
		t.Errorf("expected unregistered after destroy, got %v", got)
	}
	if len(host.Notifications()) != 0 {
		t.Error("update to destroyed texture must not notify the host")
	}

	if err := host.DestroySurface(id); !errors.Is(err, ErrUnknownSurface) {
		t.Errorf("expected ErrUnknownSurface, got %v", err)
	}
}

func TestInjectedFailures(t *testing.T) {
	t.Run("abi mismatch", func(t *testing.T) {
		host := NewSimulatedRegistrar(newTestConfig())
		host.SetABIVersion(interfaces.BridgeABIVersion + 1)

		err := texturerender.New(nil).Register(host)
		if !errors.Is(err, texturerender.ErrABIMismatch) {
			t.Errorf("expected ErrABIMismatch, got %v", err)
		}
		if host.Stats().AttachCalls != 0 {
			t.Error("attach must not be attempted on version mismatch")
		}
	})

	t.Run("attach failure", func(t *testing.T) {
		host := NewSimulatedRegistrar(newTestConfig())
		host.SetAttachError(errors.New("host refused"))

		bridge := texturerender.New(nil)
		err := bridge.Register(host)
		if !errors.Is(err, texturerender.ErrAttachFailed) {
			t.Errorf("expected ErrAttachFailed, got %v", err)
		}
		if bridge.IsRegistered() {
			t.Error("bridge must not be registered after attach failure")
		}
	})
}

func TestPaintOnceWithoutSource(t *testing.T) {
	host := NewSimulatedRegistrar(newTestConfig())
	if got := host.PaintOnce(1).Status; got != interfaces.PullUnregistered {
		t.Errorf("expected unregistered without a source, got %v", got)
	}
}

func TestStartStopAndClearLogs(t *testing.T) {
	host, _ := newRegisteredHost(t)

	if err := host.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !host.Stats().Running {
		t.Error("expected running after Start")
	}
	host.MarkFrameAvailable(3)
	host.PaintOnce(3)
	host.ClearLogs()
	if len(host.Notifications()) != 0 || len(host.PaintLog()) != 0 {
		t.Error("logs not cleared")
	}
	if err := host.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if host.Stats().Running {
		t.Error("expected stopped after Stop")
	}
}
