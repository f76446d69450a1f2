package cmd

import (
	"github.com/warp-contracts/mindshare/src/gateway/response"
	"github.com/warp-contracts/mindshare/src/service"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify <businessId>",
	Short: "Reveals the mood score of a record and stores it on-chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return withService(func(controller *service.Controller) error {
			value, err := controller.Lifecycle.Verify(ctx, args[0])
			if err != nil {
				return err
			}

			if value == nil {
				// Verified by someone else meanwhile, value comes from the reloaded record
				record, err := controller.Lifecycle.Record(ctx, args[0])
				if err != nil {
					return err
				}
				if record != nil && record.DecryptedValue != nil {
					value = record.DecryptedValue
				}
			}

			return printJSON(cmd, &response.VerifyRecord{BusinessId: args[0], Value: value})
		})
	},
}
