// Copyright 2018-2019 The linefold Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/jrivets/log4g"
	"github.com/linefold/linefold/cmd"
	"github.com/linefold/linefold/pipeline"
	"github.com/linefold/linefold/pkg/sink"
	"github.com/linefold/linefold/pkg/source"
	"github.com/linefold/linefold/pkg/storage"
	"github.com/linefold/linefold/shell"
	"gopkg.in/urfave/cli.v2"
)

const (
	Version = "0.1.0"
)

const (
	argCfgFile    = "config-file"
	argLogCfgFile = "log-config-file"
	argInput      = "input"
	argUrl        = "url"
	argOutput     = "output"
	argFilter     = "filter"
	argFold       = "fold"
	argPidFile    = "pid-file"
	argStorageDir = "storage-dir"
)

var pipeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  argLogCfgFile,
		Usage: "log4g configuration file path",
	},
	&cli.StringFlag{
		Name:  argCfgFile,
		Usage: "linefold configuration file path",
	},
	&cli.StringFlag{
		Name:  argInput,
		Usage: "input file path, or - for stdin",
	},
	&cli.StringFlag{
		Name:  argUrl,
		Usage: "read the input from the url instead of a file",
	},
	&cli.StringFlag{
		Name:  argOutput,
		Usage: "output file path, or - for stdout",
	},
	&cli.StringFlag{
		Name:  argFilter,
		Usage: "record filter expression, e.g. 'line CONTAINS error'",
	},
	&cli.StringFlag{
		Name:  argFold,
		Usage: "the case folding - lower, upper or none",
	},
}

func main() {
	defer log4g.Shutdown()
	app := &cli.App{
		Name:    "linefold",
		Version: Version,
		Usage:   "Streaming line transformation pipeline",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the pipeline over the input once",
				Action: runPipeline,
				Flags:  pipeFlags,
			},
			{
				Name:   "follow",
				Usage:  "Tail the input file continuously, persisting the position",
				Action: runFollow,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  argPidFile,
						Usage: "file to keep the process pid in",
						Value: "/tmp/linefold.pid",
					},
					&cli.StringFlag{
						Name:  argStorageDir,
						Usage: "directory for the persisted position",
					},
				}, pipeFlags...),
			},
			{
				Name:   "stop",
				Usage:  "Interrupt the process recorded in the pid file",
				Action: stopFollow,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  argPidFile,
						Usage: "file the process pid is kept in",
						Value: "/tmp/linefold.pid",
					},
				},
			},
			{
				Name:   "bench",
				Usage:  "Compare the pump strategy with the naive line reader over the input",
				Action: runBench,
				Flags:  pipeFlags,
			},
			{
				Name:   "shell",
				Usage:  "Run the interactive shell",
				Action: runShell,
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	for _, c := range app.Commands {
		sort.Sort(cli.FlagsByName(c.Flags))
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	if err := app.Run(os.Args); err != nil {
		getLogger().Fatal("Failed to run linefold, cause: ", err)
	}
}

func runPipeline(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd.NewNotifierOnIntTermSignal(func(s os.Signal) {
		getLogger().Warn("Handling signal=", s)
		cancel()
	})
	return pipeline.Run(ctx, cfg)
}

func runFollow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	pidFile := cmd.NewPidFile(c.String(argPidFile))
	if !pidFile.Lock() {
		return fmt.Errorf("could not lock %s, already running?", c.String(argPidFile))
	}
	defer pidFile.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cmd.NewNotifierOnIntTermSignal(func(s os.Signal) {
		getLogger().Warn("Handling signal=", s)
		cancel()
	})
	return pipeline.Follow(ctx, cfg)
}

func stopFollow(c *cli.Context) error {
	return cmd.NewPidFile(c.String(argPidFile)).Interrupt()
}

func runBench(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd.NewNotifierOnIntTermSignal(func(s os.Signal) {
		getLogger().Warn("Handling signal=", s)
		cancel()
	})
	return pipeline.Bench(ctx, cfg)
}

func runShell(c *cli.Context) error {
	return shell.Run()
}

func loadConfig(c *cli.Context) (*pipeline.Config, error) {
	logCfgFile := c.String(argLogCfgFile)
	if logCfgFile != "" {
		err := log4g.ConfigF(logCfgFile)
		if err != nil {
			return nil, err
		}
	}

	cfg := pipeline.NewDefaultConfig()
	cfgFile := c.String(argCfgFile)
	if cfgFile != "" {
		getLogger().Info("Loading config from=", cfgFile)
		config, err := pipeline.LoadCfgFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg.Apply(config)
	}

	applyArgsToCfg(c, cfg)
	return cfg, nil
}

func applyArgsToCfg(c *cli.Context, cfg *pipeline.Config) {
	if in := c.String(argInput); in != "" {
		if in == "-" {
			cfg.Source = &source.Config{Type: source.SrcTypeStdin}
		} else {
			cfg.Source = &source.Config{Type: source.SrcTypeFile,
				Params: source.Params{"Path": in}}
		}
	}
	if url := c.String(argUrl); url != "" {
		cfg.Source = &source.Config{Type: source.SrcTypeHttp,
			Params: source.Params{"Url": url}}
	}
	if out := c.String(argOutput); out != "" {
		if out == "-" {
			cfg.Sink = &sink.Config{Type: sink.SnkTypeStdout}
		} else {
			cfg.Sink = &sink.Config{Type: sink.SnkTypeFile,
				Params: sink.Params{"Path": out}}
		}
	}
	if f := c.String(argFilter); f != "" {
		cfg.Filter = f
	}
	if f := c.String(argFold); f != "" {
		cfg.Fold = f
	}
	if sd := c.String(argStorageDir); sd != "" {
		cfg.Storage.Type = storage.TypeFile
		cfg.Storage.Location = sd
	}
}

func getLogger() log4g.Logger {
	return log4g.GetLogger("linefold")
}
