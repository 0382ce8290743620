// Package agent runs reconciliation passes over declared node pools.
//
// Each node pool gets its own provider and reconcile ID. Passes are
// sequential; a failed node pool is reported and the next one proceeds.
package agent
