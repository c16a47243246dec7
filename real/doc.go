// Package real provides the in-process compositor host for the texture bridge.
//
// # Architecture
//
// The package centers on Compositor, which implements interfaces.ITextureHost.
// It plays the part of a desktop UI runtime: it issues texture ids, owns the
// Surface objects that producers reference, and pulls every surface from the
// attached frame source once per refresh interval, or earlier when the bridge
// marks a frame available:
//
//	┌──────────────────────────────────────────┐
//	│               Compositor                 │
//	│  ┌───────────┐  ┌─────────────────────┐  │
//	│  │ Surfaces  │  │ Paint loop (ticker) │  │
//	│  │ by id     │  │ Pull → PixelBuffer  │  │
//	│  └───────────┘  └─────────────────────┘  │
//	└──────────────────────────────────────────┘
//	                 │ Pull(id)
//	                 ▼
//	        interfaces.IFrameSource
//
// # Usage
//
//	compositor, err := real.NewCompositor(&opts.Host)
//	if err != nil {
//	    return err
//	}
//	if err := bridge.Register(compositor); err != nil {
//	    return err
//	}
//	id, surface, err := compositor.CreateSurface(0, 0)
//	dispatcher.AttachTexture(id, surface)
//
//	compositor.Start(ctx)
//	defer compositor.Stop()
//
// Frame references pulled from the source must point at video.Frame values.
// A frame whose texture reference names another surface is rejected.
//
// # Teardown
//
// DestroySurface removes the texture from the source before dropping the
// surface, so frames still in flight become no-ops in the bridge.
package real
