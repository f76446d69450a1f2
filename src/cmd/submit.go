package cmd

import (
	"fmt"

	"github.com/warp-contracts/mindshare/src/gateway/response"
	"github.com/warp-contracts/mindshare/src/lifecycle"
	"github.com/warp-contracts/mindshare/src/service"
	"github.com/warp-contracts/mindshare/src/utils/model"

	"github.com/spf13/cobra"
)

var (
	submitTitle       string
	submitMoodScore   string
	submitSupportType string
)

func init() {
	submitCmd.Flags().StringVar(&submitTitle, "title", "", "title of the experience")
	submitCmd.Flags().StringVar(&submitMoodScore, "mood", "", "mood score, encrypted before it leaves the process")
	submitCmd.Flags().StringVar(&submitSupportType, "support", string(model.SupportEmotional), "support type: emotional, peer, professional or community")
	_ = submitCmd.MarkFlagRequired("title")
	RootCmd.AddCommand(submitCmd)
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Encrypts the mood score and creates a record signed by the configured wallet",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		supportType := model.SupportType(submitSupportType)
		if !supportType.IsValid() {
			return fmt.Errorf("unknown support type: %s", submitSupportType)
		}

		return withService(func(controller *service.Controller) error {
			businessId, err := controller.Lifecycle.Submit(ctx, lifecycle.SubmitRequest{
				Title:       submitTitle,
				MoodScore:   submitMoodScore,
				SupportType: supportType,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, &response.SubmitRecord{BusinessId: businessId})
		})
	},
}
