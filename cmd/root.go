package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/timesman/cmd/app"
	"github.com/ValentinKolb/timesman/cmd/serve"
	"github.com/ValentinKolb/timesman/cmd/times"
	"github.com/ValentinKolb/timesman/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "timesman",
		Short: "a tiny journal of timestamped notes",
		Long: fmt.Sprintf(`timesman (v%s)

Keep "times" (named collections, usually one per day) of short timestamped
entries. The data lives in a local sqlite database, or on a timesman server
reached over rpc or REST.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of timesman",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("timesman v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(times.TimesCommands)
	RootCmd.AddCommand(app.AppCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupStoreFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
