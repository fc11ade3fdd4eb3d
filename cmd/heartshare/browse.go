package main

import (
	"github.com/spf13/cobra"

	"github.com/erazemk/heartshare/internal/client"
	"github.com/erazemk/heartshare/internal/localstate"
	"github.com/erazemk/heartshare/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse and claim items in the terminal",
	Long: `Open the interactive item browser. The list updates live as items are
donated and claimed elsewhere.

Keys:
  ↑/k ↓/j     move
  enter       claim the selected item
  y / n       confirm or cancel a claim
  c           copy the donor email after a claim
  r           reload
  q           quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	addClientFlags(browseCmd)
	browseCmd.Flags().String("state", "", "local state file (claimed placeholders)")
	browseCmd.Flags().StringP("log", "l", "", "log file path")
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	closeLog, err := setupClientLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	c, err := client.New(cfg.Server)
	if err != nil {
		return err
	}
	state, err := localstate.Open(cfg.StateFile)
	if err != nil {
		return err
	}

	m := tui.New(cmd.Context(), c, client.Claimer{API: c, State: state}, state.Claimed())
	return tui.Run(m)
}
