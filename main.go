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

// Command jrtfs inspects and verifies packed runtime images through
// the virtual modules/packages filesystem they expose.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jrtfs.dev/jrtfs/cmd/jrtfs/cat"
	"jrtfs.dev/jrtfs/cmd/jrtfs/ls"
	"jrtfs.dev/jrtfs/cmd/jrtfs/tree"
	"jrtfs.dev/jrtfs/cmd/jrtfs/verify"
	"jrtfs.dev/jrtfs/internal/config"
	"jrtfs.dev/jrtfs/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "jrtfs",
	Short: "Inspect and verify packed runtime images",
	Long: `jrtfs exposes a packed runtime image as a read-only virtual
filesystem rooted at /modules and /packages, and provides commands to
list, read, walk, and verify it.`,
	Version: version.GetVersion(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().String("image", "", "Path to the packed image file")
	rootCmd.PersistentFlags().Bool("preview", false, "Overlay preview resources on top of the base image")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	for _, name := range []string{"image", "preview", "output", "log-level"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	rootCmd.AddCommand(ls.Cmd)
	rootCmd.AddCommand(cat.Cmd)
	rootCmd.AddCommand(tree.Cmd)
	rootCmd.AddCommand(verify.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
