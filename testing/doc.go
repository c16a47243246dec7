// Package testing provides a simulated texture host for deterministic tests
// of the texture bridge.
//
// # Overview
//
// SimulatedRegistrar implements interfaces.ITextureHost entirely in memory.
// It never runs a paint loop. Tests decide when the host pulls by calling
// PaintOnce, and inspect what the bridge did through the recorded logs.
//
// # Simulation vs Real Implementation
//
//   - Simulation (this package): deterministic, records every attach,
//     notification and paint cycle.
//
//   - Real (real package): the in-process compositor that paints surfaces
//     on a ticker and converts frames to RGBA.
//
// Both implementations conform to interfaces.ITextureHost and are selected
// through the factory package.
//
// # Usage
//
//	host := testing.NewSimulatedRegistrar(&interfaces.HostConfig{
//	    RefreshRate:   60,
//	    SurfaceWidth:  64,
//	    SurfaceHeight: 64,
//	})
//	bridge := texturerender.New(nil)
//	if err := bridge.Register(host); err != nil {
//	    t.Fatal(err)
//	}
//
//	id, surface, _ := host.CreateSurface(0, 0)
//	bridge.UpdateFrame(id, surface, unsafe.Pointer(frame))
//
//	result := host.PaintOnce(id)
//	if result.Status != interfaces.PullFrameAvailable {
//	    t.Error("expected a frame")
//	}
//
// Failure paths are injected with SetABIVersion and SetAttachError.
//
// # Thread Safety
//
// All methods on SimulatedRegistrar are safe for concurrent use.
package testing
