// Package debughttp serves a read-only view of a texture bridge over HTTP.
//
// Routes:
//
//	GET /healthz                   liveness and registration state
//	GET /textures                  BridgeStats as JSON
//	GET /textures/:id              TextureStats as JSON
//	GET /textures/:id/snapshot.jpg newest frame as JPEG, not consumed
//	GET /stream/stats              WebSocket pushing BridgeStats periodically
//
// /healthz also reports process statistics. A snapshot requested with
// caption=true is labelled with its texture id and sequence, and the stats
// stream accepts an interval query such as interval=250ms.
//
// Snapshots peek the slot, so inspecting a texture never steals a frame from
// the compositor. They only work when the bridge stores *video.Frame values,
// which holds for in-process producers and not for frames from the C ABI.
package debughttp
