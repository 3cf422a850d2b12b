package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/signin-tools/go-idtoken"
)

type rootOptions struct {
	certsURL     string
	tokenInfoURL string
	timeout      time.Duration
	debug        bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "idtoken",
		Short:         "Google ID token verifier",
		Long:          "Verify Google ID tokens and inspect Google's signing keys",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.certsURL, "certs-url", "", "override Google's certificate endpoint")
	rootCmd.PersistentFlags().StringVar(&opts.tokenInfoURL, "tokeninfo-url", "", "override Google's tokeninfo endpoint")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout for requests to Google")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "log key set refreshes to stderr")
	_ = rootCmd.PersistentFlags().MarkHidden("certs-url")
	_ = rootCmd.PersistentFlags().MarkHidden("tokeninfo-url")

	rootCmd.AddCommand(newVerifyCommand(opts), newKeysCommand(opts))
	return rootCmd
}

func newVerifyCommand(root *rootOptions) *cobra.Command {
	var (
		audiences     []string
		hostedDomains []string
		useTokenInfo  bool
		clockSkew     time.Duration
	)

	verifyCmd := &cobra.Command{
		Use:   "verify [token]",
		Short: "Verify an ID token and print its claims",
		Long:  "Verify an ID token and print its claims as JSON. The token is read from stdin when not given as an argument.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readToken(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			opts := []idtoken.Option{idtoken.WithAllowedClockSkew(clockSkew)}
			if len(audiences) > 0 {
				opts = append(opts, idtoken.WithAudiences(audiences...))
			}
			if len(hostedDomains) > 0 {
				opts = append(opts, idtoken.WithHostedDomains(hostedDomains...))
			}

			client, err := root.newClient(cmd, opts...)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			var claims *idtoken.Claims
			if useTokenInfo {
				claims, err = client.VerifyWithTokenInfo(ctx, token)
			} else {
				claims, err = client.Verify(ctx, token)
			}
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), claims)
		},
	}
	verifyCmd.Flags().StringSliceVarP(&audiences, "audience", "a", nil, "allowed OAuth client IDs (repeatable)")
	verifyCmd.Flags().StringSliceVar(&hostedDomains, "hosted-domain", nil, "allowed Google Workspace domains (repeatable)")
	verifyCmd.Flags().BoolVar(&useTokenInfo, "tokeninfo", false, "ask Google's tokeninfo endpoint instead of verifying locally")
	verifyCmd.Flags().DurationVar(&clockSkew, "clock-skew", 0, "tolerated clock skew for the exp claim")

	return verifyCmd
}

type keysOutput struct {
	Keys  []string `json:"keys"`
	State string   `json:"state"`
}

func newKeysCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the IDs of Google's current signing keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := root.newClient(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			keys, err := client.KeySet(ctx)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), keysOutput{
				Keys:  keys.IDs(),
				State: client.CacheState().String(),
			})
		},
	}
}

func (o *rootOptions) newClient(cmd *cobra.Command, opts ...idtoken.Option) (*idtoken.Client, error) {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)
	if o.debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts = append(opts,
		idtoken.WithLogger(idtoken.NewLogrusLogger(logger)),
		idtoken.WithFetchTimeout(o.timeout),
	)
	if o.certsURL != "" {
		opts = append(opts, idtoken.WithCertsURL(o.certsURL))
	}
	if o.tokenInfoURL != "" {
		opts = append(opts, idtoken.WithTokenInfoURL(o.tokenInfoURL))
	}

	return idtoken.New(opts...)
}

func readToken(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("could not read token from stdin: %w", err)
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return "", errors.New("no token given")
	}
	return token, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
