package cli

import (
	"context"
	"fmt"

	"go.ntppool.org/common/version"
)

type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx context.Context) error {
	fmt.Printf("locselect %s\n", version.Version())
	return nil
}
