package commands

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaborage/netbricks/app"
	"github.com/gaborage/netbricks/config"
	"github.com/gaborage/netbricks/logger"
	"github.com/gaborage/netbricks/network"
)

func newRequestCommand(method network.Method, opts *Options) *cobra.Command {
	name := strings.ToLower(method.String())

	cmd := &cobra.Command{
		Use:   name + " <path>",
		Short: "Send a " + method.String() + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0], opts)
		},
	}

	if method == network.MethodPost {
		cmd.Example = `  netprobe post /users --data '{"name":"ada"}' -H 'Content-Type: application/json'
  netprobe post /upload --data @payload.json`
		cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "Request body, or @file to read it from a file")
	}
	return cmd
}

func runRequest(cmd *cobra.Command, method network.Method, path string, opts *Options) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.BaseURL != "" {
		cfg.Client.BaseURL = opts.BaseURL
	}
	if opts.Retry {
		cfg.Retry.Enabled = true
	}

	stderr := cmd.ErrOrStderr()
	var stackOpts []app.Option
	if opts.Verbose {
		cfg.Client.Logging.Level = "headers"
		stackOpts = append(stackOpts, app.WithLogSink(func(line string) {
			fmt.Fprintln(stderr, line)
		}))
	}

	log := logger.NewWithOptions(logger.Options{Level: cfg.Log.Level, Pretty: true, Output: stderr})
	stack, err := app.New(cfg, log, stackOpts...)
	if err != nil {
		return err
	}
	defer func() {
		_ = stack.Close(cmd.Context())
	}()

	req, err := buildRequest(method, path, opts)
	if err != nil {
		return err
	}

	resp, execErr := stack.Service.Execute(cmd.Context(), req)
	if resp.StatusCode() != 0 {
		printResponse(cmd.OutOrStdout(), resp, method != network.MethodHead)
	}
	return execErr
}

func buildRequest(method network.Method, path string, opts *Options) (network.Request, error) {
	var reqOpts []network.RequestOption

	for _, h := range opts.Headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return network.Request{}, fmt.Errorf("invalid header %q: expected 'Name: value'", h)
		}
		reqOpts = append(reqOpts, network.WithRequestHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}
	for _, q := range opts.Query {
		key, value, ok := strings.Cut(q, "=")
		if !ok || key == "" {
			return network.Request{}, fmt.Errorf("invalid query %q: expected key=value", q)
		}
		reqOpts = append(reqOpts, network.WithQueryParam(key, value))
	}

	if method == network.MethodPost && opts.Data != "" {
		body, err := readData(opts.Data)
		if err != nil {
			return network.Request{}, err
		}
		reqOpts = append(reqOpts, network.WithBody(body))
	}

	return network.NewRequest(method, path, reqOpts...), nil
}

func readData(data string) ([]byte, error) {
	file, ok := strings.CutPrefix(data, "@")
	if !ok {
		return []byte(data), nil
	}
	body, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

func printResponse(w io.Writer, resp network.Response, withBody bool) {
	fmt.Fprintf(w, "HTTP %d (%s)\n", resp.StatusCode(), resp.Elapsed().Round(time.Millisecond))

	headers := resp.Headers()
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, strings.Join(headers[name], ", "))
	}

	if withBody && len(resp.Body()) > 0 {
		fmt.Fprintf(w, "\n%s\n", resp.Body())
	}
}
