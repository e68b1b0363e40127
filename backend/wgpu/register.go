// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import "github.com/gogpu/ggraph/backend"

func init() {
	backend.Register(backend.WGPU, func(width, height int) (backend.Context, error) {
		return OpenHeadless(width, height)
	})
}
