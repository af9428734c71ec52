// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package cli handles all of the core command line parsing. It's the first
// entry point after the real main function, and it imports and runs the
// daemon.
package cli

import (
	"context"
	"fmt"
	"os"

	cliUtil "github.com/purpleidea/lampd/cli/util"
	"github.com/purpleidea/lampd/util/errwrap"

	"github.com/alexflint/go-arg"
)

// CLI is the entry point for using lampd normally from the command line.
func CLI(ctx context.Context, data *cliUtil.Data) error {
	// test for sanity
	if data == nil {
		return fmt.Errorf("this CLI was not run correctly")
	}
	if data.Program == "" || data.Version == "" {
		return fmt.Errorf("program was not compiled correctly")
	}
	if data.Copying == "" {
		return fmt.Errorf("program copyrights were removed, can't run")
	}

	args := Args{}
	args.version = data.Version // copy this in
	args.description = data.Tagline

	config := arg.Config{
		Program: data.Program,
	}
	parser, err := arg.NewParser(config, &args)
	if err != nil {
		// programming error
		return errwrap.Wrapf(err, "cli config error")
	}
	err = parser.Parse(data.Args[1:]) // XXX: args[0] needs to be dropped
	if err == arg.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	if err == arg.ErrVersion {
		fmt.Printf("%s\n", data.Version) // byon: bring your own newline
		return nil
	}
	if err != nil {
		return cliUtil.CliParseError(err) // consistent errors
	}

	// display the license
	if args.License {
		fmt.Printf("%s", data.Copying) // file comes with a trailing nl
		return nil
	}

	return args.Run(ctx, data)
}

// Args is the CLI parsing structure and type of the parsed result. lampd is
// a single daemon binary, so unlike the project this is descended from,
// there are no subcommands: one positional port, and a handful of flags
// that all apply to the one thing this program does.
type Args struct {
	Port int `arg:"positional" default:"8080" help:"tcp port for the HTTP control surface"`

	License bool `arg:"--license" help:"display the license and exit"`

	StateFile string `arg:"--state-file,env:LAMPD_STATE_FILE" default:"/var/lib/lampd/state.yaml" help:"path to the persisted snapshot file"`

	Prometheus       bool   `arg:"--prometheus" help:"start a prometheus metrics endpoint"`
	PrometheusListen string `arg:"--prometheus-listen,env:LAMPD_PROMETHEUS_LISTEN" help:"specify the prometheus listen address"`

	Output string `arg:"--output,env:LAMPD_OUTPUT" default:"logging" help:"output adapter to drive: one of null, logging"`

	Viz bool `arg:"--viz" help:"also mirror the lamp's state in a terminal visualizer"`

	Wifi     bool   `arg:"--wifi" help:"bring up wifi from a known-networks file before starting (embedded target only)"`
	WifiFile string `arg:"--wifi-file,env:LAMPD_WIFI_FILE" default:"/etc/lampd/wifi.txt" help:"path to the known SSID/password seed file"`

	Debug   bool `arg:"--debug" help:"add additional log messages"`
	Verbose bool `arg:"--verbose" help:"add extra log message output"`

	// version is a private handle for our version string.
	version string `arg:"-"` // ignored from parsing

	// description is a private handle for our description string.
	description string `arg:"-"` // ignored from parsing
}

// Version returns the version string. Implementing this signature is part of
// the API for the cli library.
func (obj *Args) Version() string {
	return obj.version
}

// Description returns a description string. Implementing this signature is part
// of the API for the cli library.
func (obj *Args) Description() string {
	return obj.description
}

// Run starts the daemon with the parsed flags.
func (obj *Args) Run(ctx context.Context, data *cliUtil.Data) error {
	return Run(ctx, obj, data)
}
