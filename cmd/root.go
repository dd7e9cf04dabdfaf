package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "compass",
		Short: "shipment maps with truck routes and fitted viewports",
		Long: `
compass serves the load details map of a shipment: the stops of the active
leg, the truck route between them and an initial viewport framing both stops
and the driver's device.
`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd(), newFitCmd())

	return root
}
