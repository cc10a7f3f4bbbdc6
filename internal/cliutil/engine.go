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

// Package cliutil holds the small pieces of setup every jrtfs
// subcommand needs: opening the configured packed image behind an
// Engine, and nothing else. It deliberately knows nothing about any
// one subcommand's flags beyond the ones common to all of them.
package cliutil

import (
	"fmt"

	"github.com/spf13/viper"

	"jrtfs.dev/jrtfs/engine"
	"jrtfs.dev/jrtfs/jimage"
)

// OpenEngine opens the packed image named by the "image" config key
// and wraps it in an Engine honoring the "preview" config key. The
// caller is responsible for closing the returned provider once it is
// done with the engine.
func OpenEngine() (*engine.Engine, *jimage.Provider, error) {
	imagePath := viper.GetString("image")
	if imagePath == "" {
		return nil, nil, fmt.Errorf("--image is required")
	}
	p, err := jimage.Open(imagePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening image %s: %w", imagePath, err)
	}
	e := engine.New(p, viper.GetBool("preview"))
	return e, p, nil
}
