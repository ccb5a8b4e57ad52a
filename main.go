/*
 * minios - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/minios/console"
	"github.com/rcornwell/minios/io/dump"
	"github.com/rcornwell/minios/io/loader"
	"github.com/rcornwell/minios/kernel/disk"
	"github.com/rcornwell/minios/kernel/driver"
	"github.com/rcornwell/minios/kernel/sts"
	logger "github.com/rcornwell/minios/util/logger"
)

var Logger *slog.Logger

func main() {
	optProgram := getopt.StringLong("program", 'p', "data/program_file.txt", "Program file to load")
	optOut := getopt.StringLong("out", 'o', "out/program_file_executed.txt", "Dump file to write")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optPolicy := getopt.StringLong("policy", 'P', "fifo", "Scheduling policy: fifo or priority")
	optInteractive := getopt.BoolLong("interactive", 'i', "Offer a monitor prompt between batches")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file io.Writer
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("failed to create log file", "path", *optLogFile, "error", err)
			os.Exit(1)
		}
		file = f
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}))
	slog.SetDefault(Logger)

	Logger.Info("minios started")

	policy, err := parsePolicy(*optPolicy)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	in, err := os.Open(*optProgram)
	if err != nil {
		Logger.Error("failed to open program file", "path", *optProgram, "error", err)
		os.Exit(1)
	}
	d := disk.New()
	programIDs, err := loader.Load(in, d)
	in.Close()
	if err != nil {
		Logger.Error("failed to load program file", "error", err)
		os.Exit(1)
	}
	if len(programIDs) == 0 {
		Logger.Warn("no programs to load into memory")
		os.Exit(0)
	}

	dr := driver.New(d, policy, Logger)
	dr.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		Logger.Warn("received shutdown signal, stopping")
		dr.Stop()
		os.Exit(1)
	}()

	dr.Enqueue(programIDs)
	for dr.HasPending() {
		if !dr.RunBatch() {
			break
		}
		if *optInteractive && console.Run(dr, os.Stdout) {
			break
		}
	}

	Logger.Info("shutting down kernel threads")
	dr.Stop()

	if err := writeDump(*optOut, d); err != nil {
		Logger.Error("failed to write dump file", "error", err)
		os.Exit(1)
	}

	dr.PrintStats(os.Stdout)
}

func parsePolicy(name string) (sts.Policy, error) {
	switch name {
	case "fifo", "FIFO", "":
		return sts.FIFO, nil
	case "priority", "Priority":
		return sts.Priority, nil
	default:
		return sts.FIFO, fmt.Errorf("unknown scheduling policy: %s", name)
	}
}

func writeDump(path string, d *disk.Disk) error {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return dump.Write(out, d)
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
