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

// Package config loads jrtfs's optional config file (.jrtfs.toml, or
// .jrtfs.yaml) through viper, layered beneath command-line flags and
// JRTFS_-prefixed environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load wires viper's search path and precedence rules. It must run
// before any command's RunE reads a bound flag, since that is what
// lets an unset flag fall through to the config file or environment.
func Load() error {
	viper.SetConfigName(".jrtfs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
	viper.SetEnvPrefix("JRTFS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}
