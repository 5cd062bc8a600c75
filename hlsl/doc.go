// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl compiles type-resolved material graphs into HLSL pixel
// shaders.
//
// The generator walks the graph in topological order and records one
// operation per node output. Each operation gets a local name (tmpN), an
// expression built from the node kind's template, and a reference count
// that grows every time a later operation consumes it. After the walk:
//
//   - operations nobody consumes are dropped, unless they have a side
//     effect (clip, storage writes) or are the terminal output;
//   - operations consumed once are inlined at their use site;
//   - operations consumed more than once become named locals.
//
// # Usage
//
//	if _, err := resolve.Resolve(g); err != nil {
//	    return err
//	}
//	code, info, err := hlsl.Compile(g, hlsl.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, r := range info.Resources {
//	    fmt.Println(r.Category, r.Name, r.Target.Register)
//	}
//
// # Register Binding
//
// Resources referenced by live operations are declared ahead of the entry
// point with explicit registers:
//
//	cbuffer : register(b#, space#)   // Constant buffers
//	Texture : register(t#, space#)   // Textures
//	Sampler : register(s#, space#)   // Samplers
//	RWBuffer: register(u#, space#)   // Unordered access views
//
// Slots come from the node itself, then Options.SlotHints, then the lowest
// free register of the category. Two names claiming one register is a
// SlotConflict; the generator never picks an alternative.
package hlsl
