// Package video handles the decoded frames that flow through the texture
// bridge.
//
// Frames are NV12: a full-resolution luma plane followed by a half-height
// plane of interleaved U/V samples. The decoder side serialises each frame
// as a frame message (see MarshalFrame for the layout) addressed to a
// texture id:
//
//	Decoder → frame message → Dispatcher → Bridge.UpdateFrame
//	Host paint loop → Bridge.Pull → PixelBuffer → RGBA surface
//
// Recordings are sequences of length-prefixed frame messages written with
// WriteMessage and replayed with Dispatcher.Run.
//
// ToRGBA uses BT.709 full-range coefficients; Scale uses bilinear filtering
// from golang.org/x/image/draw.
package video
