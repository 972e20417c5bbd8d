// Package cache provides the provider-response cache.
//
// Two backends exist: an in-memory TTL store for single-process
// deployments and a Redis store for shared ones. Providers use the cache
// aside: a hit short-circuits the network call, a miss populates the
// entry after the lookup succeeds.
package cache
