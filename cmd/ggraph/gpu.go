//go:build !nogpu

package main

// Import the Vulkan HAL so the wgpu backend can reach real devices.
import _ "github.com/gogpu/wgpu/hal/vulkan"
