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

// Package ls provides the ls command for jrtfs.
package ls

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jrtfs.dev/jrtfs/internal/cliutil"
	"jrtfs.dev/jrtfs/vnode"
)

// Cmd is the ls command.
var Cmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List the children of a virtual directory",
	Long:  `List the children of a virtual directory exposed by a packed image.`,
	Example: `  # List modules
  jrtfs ls --image boot.jimage /modules

  # List the contents of a package, including preview resources
  jrtfs ls --image boot.jimage --preview /packages/java.lang`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().BoolP("long", "l", false, "Show node kind next to each entry")
	_ = viper.BindPFlag("long", Cmd.Flags().Lookup("long"))
}

func run(cmd *cobra.Command, args []string) error {
	e, p, err := cliutil.OpenEngine()
	if err != nil {
		return err
	}
	defer p.Close()

	n, ok := e.FindNode(args[0])
	if !ok {
		return fmt.Errorf("no such path: %s", args[0])
	}
	if !n.IsDirectory() {
		fmt.Println(n.Path())
		return nil
	}

	children, err := n.GetChildren()
	if err != nil {
		return fmt.Errorf("listing %s: %w", args[0], err)
	}

	long := viper.GetBool("long")
	for _, c := range children {
		if long {
			fmt.Printf("%s\t%s\n", kindLabel(c), c.Path())
		} else {
			fmt.Println(c.Path())
		}
	}
	return nil
}

func kindLabel(n vnode.Node) string {
	switch n.Kind() {
	case vnode.KindDirectory:
		return "dir"
	case vnode.KindLink:
		return "link"
	default:
		return "file"
	}
}
