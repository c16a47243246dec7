// Package interfaces defines the contracts between the texture bridge and the
// desktop host that presents its frames.
//
// The host side is deliberately abstract so the bridge can be embedded and
// tested without the real UI runtime.
//
// # Core Interfaces
//
// [IHostRegistrar] is the capability handed to the plugin at start-up. The
// bridge attaches itself as the host's [IFrameSource] and, when configured,
// notifies the host through MarkFrameAvailable after each update:
//
//	bridge := texturerender.New(nil)
//	if err := bridge.Register(host); err != nil {
//	    log.Fatal(err)
//	}
//
// [IFrameSource] is what the host calls during every paint cycle. A pull never
// blocks and reports one of four [PullStatus] values:
//
//	result := source.Pull(id)
//	switch result.Status {
//	case interfaces.PullFrameAvailable:
//	    present(result.Refs)
//	case interfaces.PullNothingNew, interfaces.PullNoFrame:
//	    // keep the previous picture
//	case interfaces.PullUnregistered:
//	    // surface was torn down
//	}
//
// [ITextureHost] adds surface ownership and a paint loop; the real and testing
// packages provide the in-process and simulated implementations, and the
// factory package selects between them from a [HostConfig].
//
// # Frame References
//
// [FrameRefs] carries two non-owning pointers. Neither the bridge nor this
// package dereferences them; the meaning of each pointer is agreed between the
// producer and the host.
package interfaces
