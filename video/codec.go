package video

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/opd-ai/texturerender/limits"
	"github.com/sirupsen/logrus"
)

// Frame message layout, all integers little-endian:
//
//	offset  size  field
//	0       8     texture id (i64)
//	8       4     width (i32)
//	12      4     height (i32)
//	16      4     luma stride (i32)
//	20      4     chroma stride (i32)
//	24      4     luma length (i32) = height * luma stride
//	28      n     luma plane
//	28+n    4     chroma length (i32) = height * chroma stride / 2
//	32+n    m     chroma plane

// MarshalFrame encodes f as a frame message.
func MarshalFrame(f *Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, limits.FrameMessageOverhead+len(f.Luma)+len(f.Chroma))
	le := binary.LittleEndian

	le.PutUint64(buf[0:8], uint64(f.TextureID))
	le.PutUint32(buf[8:12], uint32(f.Width))
	le.PutUint32(buf[12:16], uint32(f.Height))
	le.PutUint32(buf[16:20], uint32(f.LumaStride))
	le.PutUint32(buf[20:24], uint32(f.ChromaStride))
	le.PutUint32(buf[24:28], uint32(len(f.Luma)))

	offset := limits.FrameHeaderSize
	offset += copy(buf[offset:], f.Luma)
	le.PutUint32(buf[offset:offset+4], uint32(len(f.Chroma)))
	offset += 4
	copy(buf[offset:], f.Chroma)

	return buf, nil
}

// UnmarshalFrame decodes a frame message. The returned planes alias data, so
// the caller keeps data alive and unmodified for as long as the frame is in
// use.
func UnmarshalFrame(data []byte) (*Frame, error) {
	if err := limits.ValidateMessageSize(len(data)); err != nil {
		return nil, err
	}
	if len(data) < limits.FrameMessageOverhead {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrShortMessage, len(data), limits.FrameMessageOverhead)
	}

	le := binary.LittleEndian
	f := &Frame{
		TextureID:    interfaces.TextureID(int64(le.Uint64(data[0:8]))),
		Width:        int(int32(le.Uint32(data[8:12]))),
		Height:       int(int32(le.Uint32(data[12:16]))),
		LumaStride:   int(int32(le.Uint32(data[16:20]))),
		ChromaStride: int(int32(le.Uint32(data[20:24]))),
	}
	if err := validateGeometry(f.Width, f.Height); err != nil {
		return nil, err
	}

	lumaLen := int(int32(le.Uint32(data[24:28])))
	if lumaLen != f.Height*f.LumaStride || lumaLen < 0 {
		return nil, fmt.Errorf("%w: luma length %d for %d rows of %d", ErrPlaneLength, lumaLen, f.Height, f.LumaStride)
	}

	offset := limits.FrameHeaderSize
	if len(data)-offset-4 < lumaLen {
		return nil, fmt.Errorf("%w: luma plane", ErrShortMessage)
	}
	f.Luma = data[offset : offset+lumaLen : offset+lumaLen]
	offset += lumaLen

	chromaLen := int(int32(le.Uint32(data[offset : offset+4])))
	offset += 4
	if chromaLen != f.Height*f.ChromaStride/2 || chromaLen < 0 {
		return nil, fmt.Errorf("%w: chroma length %d for %d rows of %d", ErrPlaneLength, chromaLen, f.Height/2, f.ChromaStride)
	}
	if len(data)-offset < chromaLen {
		return nil, fmt.Errorf("%w: chroma plane", ErrShortMessage)
	}
	f.Chroma = data[offset : offset+chromaLen : offset+chromaLen]
	offset += chromaLen

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(data)-offset)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteMessage writes f to w as a u32 little-endian length prefix followed by
// the frame message. Recordings are sequences of such records.
func WriteMessage(w io.Writer, f *Frame) error {
	payload, err := MarshalFrame(f)
	if err != nil {
		return err
	}

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write length prefix: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame message: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed frame message from r. It returns
// io.EOF only when r ends exactly on a record boundary.
func ReadMessage(r io.Reader) (*Frame, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read length prefix: %w", err)
	}

	size := int(binary.LittleEndian.Uint32(prefix[:]))
	if err := limits.ValidateMessageSize(size); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "ReadMessage",
			"size":     size,
			"error":    err.Error(),
		}).Warn("Rejecting frame message length prefix")
		return nil, err
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame message: %w", err)
	}
	return UnmarshalFrame(payload)
}
