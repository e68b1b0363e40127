// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import _ "embed"

//go:embed shaders/node.vert.wgsl
var nodeVertexShader string

//go:embed shaders/node.frag.wgsl
var nodeFragmentShader string

//go:embed shaders/edge.vert.wgsl
var edgeVertexShader string

//go:embed shaders/edge.frag.wgsl
var edgeFragmentShader string

//go:embed shaders/arrow.vert.wgsl
var arrowVertexShader string

//go:embed shaders/arrow.frag.wgsl
var arrowFragmentShader string
