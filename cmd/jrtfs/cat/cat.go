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

// Package cat provides the cat command for jrtfs.
package cat

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jrtfs.dev/jrtfs/fs"
	"jrtfs.dev/jrtfs/internal/cliutil"
	"jrtfs.dev/jrtfs/internal/output"
)

// Cmd is the cat command.
var Cmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print the content of a virtual file",
	Long:  `Print the content of a virtual file exposed by a packed image, resolving links first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  run,
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
	if n.IsLink() {
		n, err = n.ResolveLink(true)
		if err != nil {
			return fmt.Errorf("resolving link %s: %w", args[0], err)
		}
	}

	content, err := n.GetContent()
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	return output.Bytes(fs.NewOSFileSystem(), os.Stdout, content)
}
