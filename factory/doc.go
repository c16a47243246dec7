// Package factory creates texture host implementations.
//
// The factory decouples bridge consumers from the concrete host so that the
// same wiring code runs against the in-process compositor in production and
// the simulated registrar in tests.
//
// # Configuration
//
// NewHostFactory applies environment overrides on top of the defaults:
//   - TEXTURE_RENDER_SIMULATION: "true" or "false" to select the simulated host
//   - TEXTURE_RENDER_REFRESH_HZ: integer paint rate in [1, 480]
//   - TEXTURE_RENDER_SURFACE_SIZE: default surface size as WIDTHxHEIGHT
//
// Invalid values are logged and ignored.
//
// # Usage
//
//	factory := factory.NewHostFactory()
//	host, err := factory.CreateHost()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := bridge.Register(host); err != nil {
//	    log.Fatal(err)
//	}
//
// For tests, CreateSimulationForTesting returns a SimulatedRegistrar with
// small surfaces:
//
//	sim := factory.NewHostFactory().CreateSimulationForTesting(WithSurfaceSize(8, 8))
package factory
