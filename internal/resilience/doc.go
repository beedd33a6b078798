// Package resilience groups the fault-tolerance building blocks used
// around the store: a circuit breaker that fronts database traffic and
// retry helpers with exponential backoff and jitter for transient
// failures during request handling and the background sweep.
package resilience
