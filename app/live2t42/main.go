// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/logic"
	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"
)

type flagContext struct {
	confFile       string
	inputUrl       string
	pid            string
	outputFilename string
	probe          bool
}

func main() {
	defer nazalog.Sync()

	fc := parseFlag()

	config, err := logic.LoadConfFromFile(fc.confFile)
	if err != nil {
		exitWithError("load conf failed", err)
	}
	if fc.inputUrl != "" {
		config.InputUrl = fc.inputUrl
	}
	if fc.pid != "" {
		config.Pid = fc.pid
	}
	if fc.outputFilename != "" {
		config.OutputFilename = fc.outputFilename
	}
	if err = config.Check(); err != nil {
		exitWithError("invalid args", err)
	}
	// stdout已经用于输出T42数据
	if config.IsOutputStdout() && !fc.probe && config.LogConfig.IsToStdout {
		_, _ = fmt.Fprintln(os.Stderr, "log.is_to_stdout is ignored while writing t42 to stdout.")
		config.LogConfig.IsToStdout = false
	}
	if err = logic.InitLog(config); err != nil {
		exitWithError("init log failed", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go base.RunSignalHandler(cancel)

	if fc.probe {
		streams, err := logic.ProbeEntry(ctx, config)
		if err != nil {
			exitWithError("probe failed", err)
		}
		for _, s := range streams {
			_, _ = fmt.Fprintf(os.Stdout, "program=%d pid=0x%04x stream_type=0x%02x pages=%v\n", s.ProgramNumber, s.Pid, s.StreamType, s.Pages)
		}
		return
	}

	err = logic.Entry(ctx, config)
	if err != nil && !errors.Is(err, context.Canceled) {
		exitWithError("convert failed", err)
	}
	nazalog.Infof("bye.")
}

func parseFlag() flagContext {
	var fc flagContext
	binInfoFlag := flag.Bool("v", false, "show bin info")
	flag.StringVar(&fc.confFile, "c", "", "specify conf file, optional")
	flag.StringVar(&fc.inputUrl, "i", "", "specify input, http(s)://, srt://, file path, or - for stdin")
	flag.StringVar(&fc.pid, "p", "", "specify teletext pid in hex, probe PAT/PMT if not set")
	flag.StringVar(&fc.outputFilename, "o", "", "specify output t42 file, stdout if not set or -")
	flag.BoolVar(&fc.probe, "probe", false, "list teletext streams and exit")
	flag.Parse()
	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		_, _ = fmt.Fprintln(os.Stderr, base.Live2t42FullInfo)
		os.Exit(0)
	}
	if fc.inputUrl == "" && fc.confFile == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  %s -i http://127.0.0.1:8080/live/test110.ts -p 0835 -o out.t42
  %s -i in.ts -probe
  cat in.ts | %s -i - > out.t42
  %s -c ./conf/live2t42.conf.json
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
		base.OsExitAndWaitPressIfWindows(1)
	}
	return fc
}

func exitWithError(msg string, err error) {
	nazalog.Errorf("%s. err=%+v", msg, err)
	nazalog.Sync()
	_, _ = fmt.Fprintf(os.Stderr, "%s. err=%+v\n", msg, err)
	base.OsExitAndWaitPressIfWindows(1)
}
