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

// Package output provides the "write to the configured output file or
// stdout" behavior used by the cat command for node content. The ls
// and tree commands do not use it: they print their listings to stdout
// directly, whatever --output says.
package output

import (
	"fmt"
	"io"

	"github.com/spf13/viper"

	"jrtfs.dev/jrtfs/fs"
)

// Bytes writes data to the file named by the "output" config key, or
// to w (normally os.Stdout) when that key is unset.
func Bytes(osfs fs.FileSystem, w io.Writer, data []byte) error {
	if outputPath := viper.GetString("output"); outputPath != "" {
		return osfs.WriteFile(outputPath, data, 0644)
	}
	_, err := w.Write(data)
	return err
}

// Text writes s plus a trailing newline the same way Bytes does.
func Text(osfs fs.FileSystem, w io.Writer, s string) error {
	return Bytes(osfs, w, []byte(fmt.Sprintln(s)))
}
