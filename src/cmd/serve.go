package cmd

import (
	"github.com/warp-contracts/mindshare/src/service"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves records over the REST API, publishes transaction statuses",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := service.NewController(conf)
		if err != nil {
			return
		}

		err = controller.WithServers().Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-ctx.Done():
		}

		controller.StopWait()

		return
	},
}
