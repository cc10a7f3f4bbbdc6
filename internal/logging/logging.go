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

// Package logging configures the structured logger shared by the
// jrtfs CLI commands: colorized console output when the log writer
// (stderr by default) is a terminal, plain JSON otherwise, both built
// on slog.
package logging

import (
	"io"
	"log/slog"
	"os"

	consoleslog "github.com/phsym/console-slog"
	"golang.org/x/term"
)

// Level names accepted by the --log-level flag.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Options configures New.
type Options struct {
	Level  string
	Writer io.Writer
	JSON   bool
}

// New builds a *slog.Logger per opts. When opts.JSON is false and
// Writer is a terminal, output is colorized via console-slog;
// otherwise it falls back to JSON, the friendlier format for piping
// into another tool or a log aggregator.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := parseLevel(opts.Level)
	useJSON := opts.JSON || !isTerminal(w)

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = consoleslog.NewHandler(w, &consoleslog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch s {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
