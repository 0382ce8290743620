// Package config loads the node pool manifest and the environment-driven
// timeouts.
//
// A [Manifest] lists node pool declarations together with the endpoint and
// credentials used to reach the GKE API, and optionally where pass reports
// are stored. [LoadTimeouts] reads poll, request, operation and retry
// settings from GKEPOOL_* environment variables. [RunWizard] builds a
// single-pool manifest interactively for gkepool init.
package config
