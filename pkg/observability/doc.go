/*
Package observability provides tools for monitoring the dtm engine.

It turns lifecycle hooks into Prometheus metrics (Metrics) and structured log
records (LoggingHooks). Both return domain.LifecycleHooks, which can be
combined with LifecycleHooks.Merge and passed to dtm.WithLifecycleHooks.
*/
package observability
