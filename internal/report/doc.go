// Package report records finished reconcile passes and publishes them to
// object storage.
package report
