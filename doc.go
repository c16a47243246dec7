// Package texturerender implements a video-texture bridge between a frame
// producer and the compositor of a desktop UI host.
//
// The bridge keeps, for every texture id the host issued, only the newest
// frame a producer delivered. The compositor pulls that frame once per paint
// cycle. Producers are never throttled: when they outpace the display the
// older frames are overwritten and counted as drops.
//
// # Getting Started
//
// Create a bridge, register it with the host, then deliver frames:
//
//	bridge := texturerender.New(texturerender.NewOptions())
//	if err := bridge.Register(host); err != nil {
//	    log.Fatal(err) // host/plugin mismatch, nothing can work
//	}
//
//	// the host creates surfaces and tells the bridge about them
//	bridge.AddTexture(7)
//
//	// producer thread
//	bridge.UpdateFrame(7, unsafe.Pointer(surface), unsafe.Pointer(frame))
//
//	// paint thread
//	result := bridge.Pull(7)
//	if result.HasFrame() {
//	    present(result.Refs)
//	}
//
// # Frame References
//
// UpdateFrame takes two non-owning pointers, the host texture object and the
// decoded frame, and stores them together as one [FrameRefs] value. The bridge
// never dereferences or frees them. The producer keeps a frame valid until a
// newer frame supersedes it or the compositor has consumed it.
//
// # Pull Semantics
//
// [Bridge.Pull] never blocks and reports:
//
//   - [PullFrameAvailable]: a frame no earlier pull returned
//   - [PullNothingNew]: the newest frame was already returned
//   - [PullNoFrame]: the texture exists but no frame arrived yet
//   - [PullUnregistered]: the id is unknown or was torn down
//
// [Bridge.Peek] returns the newest frame without consuming it, which is what
// debug snapshots use.
//
// # Teardown
//
// The host owns surface lifetime. After [Bridge.RemoveTexture] any in-flight
// UpdateFrame for that id is a silent no-op.
//
// # Configuration
//
// [Options] can be built with [NewOptions] or loaded from YAML:
//
//	opts, err := texturerender.LoadOptions("texturerender.yaml")
//
// # Related Packages
//
//   - interfaces: host contracts ([interfaces.IHostRegistrar], [interfaces.IFrameSource])
//   - real, testing, factory: in-process and simulated hosts
//   - video: NV12 frames, the frame message codec and pixel conversion
//   - capi: the C ABI exported by the shared library
//   - debughttp: HTTP inspection of a running bridge
package texturerender
