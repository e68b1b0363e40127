// Package cache provides a small generic LRU memo used for values that are
// expensive to derive and frequently repeated, such as parsed CSS colors.
//
//	c := cache.New[string, uint32](256)
//	packed := c.GetOrCreate("#ff0000", func() uint32 { return encode("#ff0000") })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
