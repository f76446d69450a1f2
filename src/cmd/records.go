package cmd

import (
	"github.com/warp-contracts/mindshare/src/gateway/response"
	"github.com/warp-contracts/mindshare/src/service"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(recordsCmd)
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Prints all records with aggregate statistics",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return withService(func(controller *service.Controller) error {
			records, err := controller.Lifecycle.Reload(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, response.RecordsToResponse(records, controller.Lifecycle.Reveal))
		})
	},
}
