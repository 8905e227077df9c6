package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gameboxd/internal/store"
)

var titleCaser = cases.Title(language.Und)

// displayName renders a stored lowercase catalog name for human output.
func displayName(name string) string {
	return titleCaser.String(name)
}

// resolveUser maps the --user flag to a stored account.
func resolveUser(cmd *cobra.Command, st *store.Store, username string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username required (use --user)")
	}
	user, err := st.UserByUsername(cmd.Context(), username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("unknown user %q (register with `gameboxd user register %s`)", username, username)
	}
	return user, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
