package main

/*
#include <stdint.h>
#include <stddef.h>

typedef void (*texture_render_mark_frame_available_cb)(void *user_data, int64_t texture_id);

// Host vtable passed to TextureRenderPluginCApiRegisterWithRegistrar.
// The host owns the struct and keeps it alive for the process lifetime.
typedef struct TextureRenderHost {
    uint32_t abi_version;
    void *user_data;
    texture_render_mark_frame_available_cb mark_frame_available;
} TextureRenderHost;

// Output of TextureRenderPull.
typedef struct TextureRenderFrame {
    void *video_texture;
    void *frame;
    uint64_t sequence;
} TextureRenderFrame;

static inline void texture_render_mark_frame_available(const TextureRenderHost *host, int64_t texture_id) {
    if (host != NULL && host->mark_frame_available != NULL) {
        host->mark_frame_available(host->user_data, texture_id);
    }
}
*/
import "C"

import (
	"unsafe"

	"github.com/opd-ai/texturerender/interfaces"
)

func main() {} // Required for c-shared build mode

// cHostRegistrar adapts the C host vtable to interfaces.IHostRegistrar.
// Pulls arrive through TextureRenderPull, so attaching records nothing.
type cHostRegistrar struct {
	host *C.TextureRenderHost
}

func (r *cHostRegistrar) ABIVersion() uint32 {
	return uint32(r.host.abi_version)
}

func (r *cHostRegistrar) AttachFrameSource(interfaces.IFrameSource) error {
	return nil
}

func (r *cHostRegistrar) MarkFrameAvailable(id interfaces.TextureID) {
	C.texture_render_mark_frame_available(r.host, C.int64_t(id))
}

// TextureRenderPluginCApiRegisterWithRegistrar registers the plugin with the
// host. Any failure other than a repeated call terminates the process.
//
//export TextureRenderPluginCApiRegisterWithRegistrar
func TextureRenderPluginCApiRegisterWithRegistrar(registrar *C.TextureRenderHost) {
	if registrar == nil {
		registerWithRegistrar(nil)
		return
	}
	registerWithRegistrar(&cHostRegistrar{host: registrar})
}

// UpdateFrameCallback publishes the newest frame for texture_id. It is safe
// to call from any thread and never fails.
//
//export UpdateFrameCallback
func UpdateFrameCallback(textureID C.int64_t, videoTexturePtr unsafe.Pointer, newFramePtr unsafe.Pointer) {
	updateFrame(int64(textureID), videoTexturePtr, newFramePtr)
}

// TextureRenderAddTexture starts tracking a surface the host created.
// Returns 0 on success and -1 on failure.
//
//export TextureRenderAddTexture
func TextureRenderAddTexture(textureID C.int64_t) C.int {
	return C.int(addTexture(int64(textureID)))
}

// TextureRenderRemoveTexture stops tracking a surface. Returns 1 when the
// texture existed and 0 otherwise.
//
//export TextureRenderRemoveTexture
func TextureRenderRemoveTexture(textureID C.int64_t) C.int {
	return C.int(removeTexture(int64(textureID)))
}

// TextureRenderPull is called by the host during paint. The return value is
// the pull status; out is filled only for a new frame.
//
//export TextureRenderPull
func TextureRenderPull(textureID C.int64_t, out *C.TextureRenderFrame) C.int {
	result := pullFrame(int64(textureID))
	if out != nil && result.Status == interfaces.PullFrameAvailable {
		out.video_texture = result.Refs.Texture
		out.frame = result.Refs.Frame
		out.sequence = C.uint64_t(result.Sequence)
	}
	return C.int(result.Status)
}

// TextureRenderShutdown closes the bridge. Later calls into the library are
// no-ops until the next registration.
//
//export TextureRenderShutdown
func TextureRenderShutdown() {
	shutdownBridge()
}
