package cmd

import (
	"github.com/warp-contracts/mindshare/src/gateway/response"
	"github.com/warp-contracts/mindshare/src/service"

	"github.com/spf13/cobra"
)

var (
	operationsLimit      int
	operationsBusinessId string
)

func init() {
	operationsCmd.Flags().IntVar(&operationsLimit, "limit", 20, "max number of operations, newest first")
	operationsCmd.Flags().StringVar(&operationsBusinessId, "record", "", "only operations of this record, oldest first")
	RootCmd.AddCommand(operationsCmd)
}

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "Prints the journal of submit and verify operations",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return withService(func(controller *service.Controller) error {
			if operationsBusinessId != "" {
				ops, err := controller.Journal.ListByBusinessId(ctx, operationsBusinessId)
				if err != nil {
					return err
				}
				return printJSON(cmd, response.OperationsToResponse(ops))
			}

			ops, err := controller.Journal.List(ctx, operationsLimit)
			if err != nil {
				return err
			}
			return printJSON(cmd, response.OperationsToResponse(ops))
		})
	},
}
