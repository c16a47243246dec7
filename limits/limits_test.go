package limits

import (
	"errors"
	"testing"
)

// TestFrameHeaderSize verifies the header matches the frame message layout:
// i64 texture id followed by five i32 fields
func TestFrameHeaderSize(t *testing.T) {
	if FrameHeaderSize != 28 {
		t.Errorf("FrameHeaderSize = %d, want 28", FrameHeaderSize)
	}
	if FrameMessageOverhead != FrameHeaderSize+4 {
		t.Errorf("FrameMessageOverhead = %d, want %d", FrameMessageOverhead, FrameHeaderSize+4)
	}
}

// TestMaxFrameMessageFitsInt32 ensures the length prefix can be a u32 and
// the size still fits a signed 32-bit int on every platform
func TestMaxFrameMessageFitsInt32(t *testing.T) {
	if MaxFrameMessage <= 0 || MaxFrameMessage > 1<<31-1 {
		t.Errorf("MaxFrameMessage = %d does not fit int32", MaxFrameMessage)
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr error
	}{
		{"1080p", 1920, 1080, nil},
		{"single pixel", 1, 1, nil},
		{"maximum", MaxFrameWidth, MaxFrameHeight, nil},
		{"zero width", 0, 1080, ErrInvalidDimensions},
		{"negative height", 1920, -2, ErrInvalidDimensions},
		{"too wide", MaxFrameWidth + 1, 1080, ErrInvalidDimensions},
		{"too tall", 1920, MaxFrameHeight + 1, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDimensions(%d, %d) = %v, want %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStride(t *testing.T) {
	tests := []struct {
		name     string
		stride   int
		rowBytes int
		wantErr  error
	}{
		{"exact", 1920, 1920, nil},
		{"padded", 2048, 1920, nil},
		{"short", 1900, 1920, ErrInvalidStride},
		{"too long", MaxPlaneStride + 1, 1920, ErrInvalidStride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStride(tt.stride, tt.rowBytes)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateStride(%d, %d) = %v, want %v", tt.stride, tt.rowBytes, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessageSize(t *testing.T) {
	if err := ValidateMessageSize(0); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("ValidateMessageSize(0) = %v, want ErrMessageEmpty", err)
	}
	if err := ValidateMessageSize(FrameMessageOverhead); err != nil {
		t.Errorf("ValidateMessageSize(overhead) unexpected error: %v", err)
	}
	if err := ValidateMessageSize(MaxFrameMessage); err != nil {
		t.Errorf("ValidateMessageSize(max) unexpected error: %v", err)
	}
	if err := ValidateMessageSize(MaxFrameMessage + 1); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("ValidateMessageSize(max+1) = %v, want ErrMessageTooLarge", err)
	}
}

func TestValidateMaxTextures(t *testing.T) {
	if err := ValidateMaxTextures(DefaultMaxTextures); err != nil {
		t.Errorf("default max textures rejected: %v", err)
	}
	if err := ValidateMaxTextures(0); err == nil {
		t.Error("zero max textures should be rejected")
	}
}
