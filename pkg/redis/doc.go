// Package redis provides a lazily connected standalone Redis client.
package redis
