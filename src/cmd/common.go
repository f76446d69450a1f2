package cmd

import (
	"encoding/json"

	"github.com/warp-contracts/mindshare/src/service"

	"github.com/spf13/cobra"
)

// Runs a one-shot operation on components that are never started
func withService(f func(controller *service.Controller) error) (err error) {
	controller, err := service.NewController(conf)
	if err != nil {
		return
	}
	defer controller.Close()

	err = f(controller)
	if err != nil {
		// Status shown to the user explains what went wrong
		status := controller.Notifier.Current()
		if status.Visible {
			controller.Log.WithField("status", status.Message).Error("Operation failed")
		}
	}
	return
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
