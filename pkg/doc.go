// Package pkg provides the core libraries for catprint thermal printing.
//
// # Overview
//
// Catprint turns text and images into the framed command streams that
// GB01/GB02/GB03/GT01-class BLE thermal printers burn onto paper. The pkg
// directory is organized into four main areas:
//
//  1. Rendering - text layout and binarization ([layout], [dither])
//  2. Device - wire protocol and transport ([printer], [ble])
//  3. Orchestration - the cached pipeline and job tracking ([pipeline], [jobs])
//  4. Infrastructure - caching, config, errors, observability
//
// # Architecture
//
// The typical data flow through catprint:
//
//	Text or image input
//	         ↓
//	    [layout] package (measure, shrink to fit, compose raster)
//	         ↓
//	    [dither] package (binarize to a 1-bit row bitmap)
//	         ↓
//	    [printer] package (frame rows into the command stream)
//	         ↓
//	    [ble] package (chunked writes to the printer)
//
// # Quick Start
//
// Render text and print it:
//
//	import (
//	    "context"
//	    "github.com/meowble/catprint/pkg/ble"
//	    "github.com/meowble/catprint/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Text:     "hello\nworld",
//	    FontSize: 20,
//	    Align:    "center",
//	})
//
//	client := ble.NewClient(nil)
//	_ = client.Print(context.Background(), "GB02", result.Commands)
//
// # Main Packages
//
// [layout] - Text layout engine: line measurement over TrueType faces,
// shrink-to-fit sizing, alignment, strikethrough, and grayscale
// composition at the print head width.
//
// [dither] - Binarization algorithms (Floyd-Steinberg, Atkinson, mean
// threshold) and the packed 1-bit Bitmap the encoder consumes.
//
// [printer] - The framed wire protocol: command framing with CRC-8
// payload checksums, run-length row encoding, and full print sequences
// (energy, lattice, rows, feed).
//
// [ble] - Device discovery and transport over Bluetooth Low Energy,
// with chunked, throttled writes without response.
//
// [pipeline] - The render → binarize → encode pipeline shared by CLI and
// server, with per-stage caching.
//
// [jobs] - Print job tracking for the server: in-memory history and an
// optional MongoDB archive.
//
// [cache] - Cache backends (file, Redis, null) and deterministic cache
// key derivation for pipeline stages.
//
// [config] - TOML configuration with flag overrides.
//
// [errors] - Code-based structured errors shared across packages.
//
// [observability] - Pluggable hooks for pipeline, cache, and transport
// events.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//
// [layout]: https://pkg.go.dev/github.com/meowble/catprint/pkg/layout
// [dither]: https://pkg.go.dev/github.com/meowble/catprint/pkg/dither
// [printer]: https://pkg.go.dev/github.com/meowble/catprint/pkg/printer
// [ble]: https://pkg.go.dev/github.com/meowble/catprint/pkg/ble
// [pipeline]: https://pkg.go.dev/github.com/meowble/catprint/pkg/pipeline
// [jobs]: https://pkg.go.dev/github.com/meowble/catprint/pkg/jobs
// [cache]: https://pkg.go.dev/github.com/meowble/catprint/pkg/cache
// [config]: https://pkg.go.dev/github.com/meowble/catprint/pkg/config
// [errors]: https://pkg.go.dev/github.com/meowble/catprint/pkg/errors
// [observability]: https://pkg.go.dev/github.com/meowble/catprint/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/meowble/catprint/pkg/buildinfo
package pkg
