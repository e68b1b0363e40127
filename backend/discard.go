// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"

	"github.com/gogpu/ggraph/program"
)

// DiscardContext is a Context without a device. It validates and counts
// the calls it receives; see program.Discard.
type DiscardContext struct {
	*program.Discard
	width, height int
}

func init() {
	Register(Discard, func(width, height int) (Context, error) {
		return NewDiscardContext(width, height)
	})
}

// NewDiscardContext creates a discard context of the given size.
func NewDiscardContext(width, height int) (*DiscardContext, error) {
	c := &DiscardContext{Discard: program.NewDiscard()}
	if err := c.Resize(width, height); err != nil {
		return nil, err
	}
	return c, nil
}

// Resize records the target size.
func (c *DiscardContext) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("backend: invalid target size %dx%d", width, height)
	}
	c.width, c.height = width, height
	return nil
}

// Size returns the target size.
func (c *DiscardContext) Size() (width, height int) {
	return c.width, c.height
}

// Destroy is a no-op.
func (c *DiscardContext) Destroy() {}
