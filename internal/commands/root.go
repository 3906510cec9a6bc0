// Package commands implements the netprobe command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/gaborage/netbricks/network"
)

// Options holds the flags shared by every request command.
type Options struct {
	ConfigFile string
	BaseURL    string
	Headers    []string
	Query      []string
	Data       string
	Retry      bool
	Verbose    bool
}

// NewRootCommand creates the netprobe root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "netprobe",
		Short: "Send diagnostic HTTP requests through the netbricks stack",
		Long: `netprobe issues a single HTTP request through the configured network stack
(interceptors, retry policy, tracing) and prints status, headers and body.

Configuration is read from --config, then NETBRICKS_ environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.BaseURL, "base-url", "", "Override client.baseurl")
	flags.StringArrayVarP(&opts.Headers, "header", "H", nil, "Request header as 'Name: value' (repeatable)")
	flags.StringArrayVarP(&opts.Query, "query", "q", nil, "Query parameter as key=value (repeatable)")
	flags.BoolVar(&opts.Retry, "retry", false, "Enable the retry policy regardless of configuration")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log requests and responses with headers to stderr")

	root.AddCommand(
		newRequestCommand(network.MethodGet, opts),
		newRequestCommand(network.MethodHead, opts),
		newRequestCommand(network.MethodDelete, opts),
		newRequestCommand(network.MethodPost, opts),
		NewVersionCommand(version),
	)
	return root
}
