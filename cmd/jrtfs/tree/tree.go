/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package tree provides the tree command for jrtfs.
package tree

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jrtfs.dev/jrtfs/internal/cliutil"
	"jrtfs.dev/jrtfs/vnode"
)

// Cmd is the tree command.
var Cmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Recursively print a virtual directory's contents",
	Long: `Recursively print a virtual directory's contents, optionally
filtered by a glob pattern matched against each entry's full path.`,
	Example: `  # Full module tree
  jrtfs tree --image boot.jimage /modules

  # Only .class files under java.base
  jrtfs tree --image boot.jimage --glob "**/*.class" /modules/java.base`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().String("glob", "", "Only print entries whose path matches this glob")
	_ = viper.BindPFlag("glob", Cmd.Flags().Lookup("glob"))
}

func run(cmd *cobra.Command, args []string) error {
	root := ""
	if len(args) == 1 {
		root = args[0]
	}

	e, p, err := cliutil.OpenEngine()
	if err != nil {
		return err
	}
	defer p.Close()

	n, ok := e.FindNode(root)
	if !ok {
		return fmt.Errorf("no such path: %s", root)
	}

	pattern := viper.GetString("glob")
	return walk(n, pattern)
}

func walk(n vnode.Node, pattern string) error {
	if matches(n.Path(), pattern) {
		fmt.Println(n.Path())
	}
	if !n.IsDirectory() {
		return nil
	}
	children, err := n.GetChildren()
	if err != nil {
		return fmt.Errorf("listing %s: %w", n.Path(), err)
	}
	for _, c := range children {
		if err := walk(c, pattern); err != nil {
			return err
		}
	}
	return nil
}

func matches(path, pattern string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, strings.TrimPrefix(path, "/"))
	return err == nil && ok
}
