package cmd

import (
	"github.com/warp-contracts/mindshare/src/gateway/response"
	"github.com/warp-contracts/mindshare/src/service"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(availabilityCmd)
}

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Checks whether the records contract accepts new records",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return withService(func(controller *service.Controller) error {
			available, err := controller.Lifecycle.CheckAvailability(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, &response.Availability{Available: available})
		})
	},
}
