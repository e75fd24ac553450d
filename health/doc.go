// Package health exposes the runtime's guarded components as health checks.
//
// Each primitive that can saturate or trip — circuit breakers, bulkheads,
// worker pools — gets a Checker that grades its current state as Healthy,
// Degraded, or Unhealthy. An Aggregator combines checkers into one
// composite view, and HTTP handlers expose that view for liveness and
// readiness probes.
//
// # Component Checkers
//
//	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})
//	agg := health.NewAggregator()
//	agg.Register("upstream", health.NewBreakerChecker("upstream", breaker))
//	agg.Register("ingest", health.NewPoolChecker("ingest", p.Metrics, health.PoolCheckerConfig{}))
//	agg.Register("runtime", health.NewRuntimeChecker(health.RuntimeCheckerConfig{}))
//
// An open circuit reports unhealthy, a half-open circuit degraded. Pool
// checkers grade queue utilization against configurable thresholds, and
// the runtime checker is a coarse backstop for heap and goroutine leaks.
//
// # Aggregation
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// Overall status is the worst individual status: one unhealthy checker
// makes the whole aggregate unhealthy.
//
// # HTTP Endpoints
//
//	http.Handle("/healthz", health.LivenessHandler())
//	http.Handle("/readyz", health.ReadinessHandler(agg))
//	http.Handle("/health", health.DetailedHandler(agg))
//
// Degraded still answers 200 on the readiness endpoint so that load
// balancers keep routing while the component recovers; only unhealthy
// returns 503.
package health
