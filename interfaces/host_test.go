package interfaces

import (
	"errors"
	"testing"
	"unsafe"
)

func TestHostConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *HostConfig
		wantErr bool
	}{
		{
			name:   "valid config",
			config: &HostConfig{RefreshRate: 60, SurfaceWidth: 1280, SurfaceHeight: 720},
		},
		{
			name:   "valid simulation config",
			config: &HostConfig{UseSimulation: true, RefreshRate: 1, SurfaceWidth: 1, SurfaceHeight: 1},
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "zero refresh rate",
			config:  &HostConfig{RefreshRate: 0, SurfaceWidth: 640, SurfaceHeight: 480},
			wantErr: true,
		},
		{
			name:    "refresh rate above maximum",
			config:  &HostConfig{RefreshRate: MaxRefreshRate + 1, SurfaceWidth: 640, SurfaceHeight: 480},
			wantErr: true,
		},
		{
			name:    "negative surface width",
			config:  &HostConfig{RefreshRate: 60, SurfaceWidth: -1, SurfaceHeight: 480},
			wantErr: true,
		},
		{
			name:    "surface height above maximum",
			config:  &HostConfig{RefreshRate: 60, SurfaceWidth: 640, SurfaceHeight: MaxSurfaceDimension + 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHostConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidHostConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestPullStatusString(t *testing.T) {
	cases := map[PullStatus]string{
		PullNoFrame:        "no_frame",
		PullNothingNew:     "nothing_new",
		PullFrameAvailable: "frame_available",
		PullUnregistered:   "unregistered",
		PullStatus(42):     "pull_status(42)",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("PullStatus(%d).String() = %q, want %q", int(status), got, want)
		}
	}
}

func TestFrameRefsIsZero(t *testing.T) {
	var refs FrameRefs
	if !refs.IsZero() {
		t.Error("zero FrameRefs should report IsZero")
	}

	v := 1
	refs.Frame = unsafe.Pointer(&v)
	if refs.IsZero() {
		t.Error("FrameRefs with a frame should not report IsZero")
	}
}

func TestPullResultHasFrame(t *testing.T) {
	if (PullResult{Status: PullNothingNew}).HasFrame() {
		t.Error("nothing-new result must not carry a frame")
	}
	if !(PullResult{Status: PullFrameAvailable, Sequence: 3}).HasFrame() {
		t.Error("frame-available result must carry a frame")
	}
}
