// Package cli implements postsctl, a command line client for the posts API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vaughan-dsouza/postboard/internal/config"
	"github.com/vaughan-dsouza/postboard/internal/postsapi"
	"github.com/vaughan-dsouza/postboard/internal/views"
)

type app struct {
	apiURL  string
	timeout time.Duration
	locale  string

	out    io.Writer
	client *postsapi.Client
	dates  views.DateFormat
}

// NewRootCmd builds the postsctl command tree. cfg supplies flag defaults.
func NewRootCmd(cfg config.Config, out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "postsctl [command] [flags]",
		Short:         "postsctl: list, create, update and delete posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.apiURL, "api", cfg.APIBaseURL, "posts API base URL")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", cfg.APITimeout, "per-request timeout")
	root.PersistentFlags().StringVar(&a.locale, "locale", localeFromEnv(), "locale for dates, e.g. en-GB")

	root.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.createCmd(),
		a.updateCmd(),
		a.deleteCmd(),
	)
	return root
}

func (a *app) connect() error {
	client, err := postsapi.New(a.apiURL,
		postsapi.WithTimeout(a.timeout),
		postsapi.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}
	a.client = client
	a.dates = views.DateFormatFor(a.locale)
	return nil
}

// Execute runs postsctl and returns the process exit code.
func Execute(ctx context.Context, cfg config.Config, args []string, out, errOut io.Writer) int {
	root := NewRootCmd(cfg, out)
	root.SetArgs(args)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		color.New(color.FgHiRed, color.Bold).Fprintln(errOut, describeError(err))
		return 1
	}
	return 0
}

// describeError turns API errors into a one-line message for the terminal.
func describeError(err error) string {
	var apiErr *postsapi.Error
	if !errors.As(err, &apiErr) {
		return "Error: " + err.Error()
	}

	switch {
	case errors.Is(err, postsapi.ErrNotFound):
		return "Not found: the post does not exist"
	case errors.Is(err, postsapi.ErrValidation):
		if len(apiErr.Fields) == 0 {
			return "Rejected by the API: " + apiErr.Msg
		}
		var parts []string
		for _, field := range []string{"title", "content"} {
			if msgs, ok := apiErr.Fields[field]; ok {
				parts = append(parts, field+": "+strings.Join(msgs, " "))
			}
		}
		var others []string
		for field := range apiErr.Fields {
			if field != "title" && field != "content" {
				others = append(others, field)
			}
		}
		sort.Strings(others)
		for _, field := range others {
			parts = append(parts, field+": "+strings.Join(apiErr.Fields[field], " "))
		}
		return "Rejected by the API: " + strings.Join(parts, "; ")
	case errors.Is(err, postsapi.ErrNetwork):
		return "Could not reach the posts API: " + err.Error()
	case errors.Is(err, postsapi.ErrMalformed):
		return "The posts API sent an unexpected response: " + err.Error()
	default:
		return "The posts API failed: " + err.Error()
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}

// localeFromEnv maps LC_ALL/LC_TIME/LANG values such as "en_GB.UTF-8" to
// a BCP 47 tag.
func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return posixToBCP47(v)
		}
	}
	return ""
}

func posixToBCP47(v string) string {
	v, _, _ = strings.Cut(v, ".")
	v, _, _ = strings.Cut(v, "@")
	if v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}
