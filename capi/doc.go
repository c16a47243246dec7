// Package main builds the texture bridge as a C shared library that a
// desktop UI runtime loads as a plugin.
//
// # Build Instructions
//
//	go build -buildmode=c-shared -o libtexture_render.so ./capi/
//
// This generates libtexture_render.so and libtexture_render.h, which
// declares the TextureRenderHost and TextureRenderFrame structs together
// with the exported functions.
//
// # C API Usage
//
// The host fills a TextureRenderHost vtable and registers once at start-up:
//
//	static void on_frame(void *user_data, int64_t texture_id) {
//	    schedule_repaint((Window *)user_data, texture_id);
//	}
//
//	static TextureRenderHost host = {
//	    .abi_version = 1,
//	    .mark_frame_available = on_frame,
//	};
//	host.user_data = window;
//	TextureRenderPluginCApiRegisterWithRegistrar(&host);
//
// Surfaces are announced when created and withdrawn on teardown:
//
//	TextureRenderAddTexture(texture_id);
//	...
//	TextureRenderRemoveTexture(texture_id);
//
// The decoder thread publishes frames, and the paint thread pulls them:
//
//	UpdateFrameCallback(texture_id, video_texture, frame);
//
//	TextureRenderFrame out;
//	if (TextureRenderPull(texture_id, &out) == 2) {
//	    present(out.video_texture, out.frame);
//	}
//
// Pull status codes are 0 (no frame yet), 1 (nothing new), 2 (frame
// available) and 3 (unregistered texture).
//
// # Configuration
//
// TEXTURE_RENDER_CONFIG may name a YAML options file read at load time.
//
// # Error Handling
//
// Registration failures terminate the process through a fatal log entry,
// except for a repeated registration, which is ignored. UpdateFrameCallback
// never fails: frames for unknown textures are dropped and panics are
// recovered before returning to C.
//
// # Memory Management
//
// The library never frees the pointers it is given. Frame and texture
// references must stay valid until superseded or pulled, and the
// TextureRenderHost struct must outlive the library.
package main
