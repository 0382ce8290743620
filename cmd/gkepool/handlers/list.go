package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/gkepool/internal/config"
	"github.com/imamik/gkepool/internal/nodepool"
)

// List would print every node pool. The reconciler has no listing, so this
// always reports it as unsupported.
func List(ctx context.Context, opts Options) error {
	if _, err := nodepool.Instances(ctx, clientForFlags(opts)); err != nil {
		return fmt.Errorf("list: %w; declare node pools in %s and run plan instead", err, config.DefaultManifestFilename)
	}
	return nil
}
