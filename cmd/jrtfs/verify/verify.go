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

// Package verify provides the verify command for jrtfs: a consistency
// check that every module's tree and every package link resolves
// without error, run concurrently across modules.
package verify

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"jrtfs.dev/jrtfs/engine"
	"jrtfs.dev/jrtfs/internal/cliutil"
	"jrtfs.dev/jrtfs/internal/logging"
	"jrtfs.dev/jrtfs/vnode"
)

// Cmd is the verify command.
var Cmd = &cobra.Command{
	Use:   "verify",
	Short: "Walk every module and package, failing on the first broken node",
	Long: `Walk every module's tree and every package link concurrently,
logging a correlation ID per run so failures across workers can be
traced back to a single invocation.`,
	RunE: run,
}

func init() {
	Cmd.Flags().Int("jobs", 0, "Number of concurrent module walkers (default: number of CPUs)")
	_ = viper.BindPFlag("jobs", Cmd.Flags().Lookup("jobs"))
}

func run(cmd *cobra.Command, args []string) error {
	runID := uuid.New()
	log := logging.New(logging.Options{Level: viper.GetString("log-level")}).With("run_id", runID.String())

	e, p, err := cliutil.OpenEngine()
	if err != nil {
		return err
	}
	defer p.Close()

	log.Info("verify starting", "preview", viper.GetBool("preview"))

	modulesRoot, ok := e.FindNode("/modules")
	if !ok {
		return fmt.Errorf("no /modules root")
	}
	modules, err := modulesRoot.GetChildren()
	if err != nil {
		return fmt.Errorf("listing modules: %w", err)
	}

	g, _ := errgroup.WithContext(context.Background())
	jobs := viper.GetInt("jobs")
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g.SetLimit(jobs)

	for _, m := range modules {
		m := m
		g.Go(func() error {
			if err := walkVerify(m); err != nil {
				log.Error("module failed verification", "module", m.Path(), "error", err)
				return err
			}
			log.Debug("module verified", "module", m.Path())
			return nil
		})
	}

	packagesRoot, ok := e.FindNode("/packages")
	if ok {
		g.Go(func() error { return verifyPackageLinks(e, packagesRoot) })
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	log.Info("verify passed", "modules", len(modules))
	return nil
}

func walkVerify(n vnode.Node) error {
	switch {
	case n.IsDirectory():
		children, err := n.GetChildren()
		if err != nil {
			return fmt.Errorf("%s: %w", n.Path(), err)
		}
		for _, c := range children {
			if err := walkVerify(c); err != nil {
				return err
			}
		}
	case n.IsLink():
		if _, err := n.ResolveLink(true); err != nil {
			return fmt.Errorf("%s: %w", n.Path(), err)
		}
	default:
		if _, err := n.GetContent(); err != nil {
			return fmt.Errorf("%s: %w", n.Path(), err)
		}
	}
	return nil
}

func verifyPackageLinks(e *engine.Engine, packagesRoot vnode.Node) error {
	pkgs, err := packagesRoot.GetChildren()
	if err != nil {
		return fmt.Errorf("listing /packages: %w", err)
	}
	for _, pkg := range pkgs {
		links, err := pkg.GetChildren()
		if err != nil {
			return fmt.Errorf("%s: %w", pkg.Path(), err)
		}
		for _, link := range links {
			target, err := link.ResolveLink(true)
			if err != nil {
				return fmt.Errorf("%s: %w", link.Path(), err)
			}
			if _, ok := e.FindNode(target.Path()); !ok {
				return fmt.Errorf("%s: link target %s does not resolve from root", link.Path(), target.Path())
			}
		}
	}
	return nil
}
