// Package cache provides a generic thread-safe LRU cache.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	v, ok := c.Get("key")
//
// A capacity of 0 means unlimited. Cache is safe for concurrent use and
// must not be copied after creation.
package cache
