// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/httpts"
	"github.com/q191201771/live2t42/pkg/srt"
	"github.com/q191201771/live2t42/pkg/tsprobe"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

// InitLog 使用配置文件中的`log`初始化全局日志，并打印启动信息
//
func InitLog(config *Config) error {
	if err := nazalog.Init(func(option *nazalog.Option) {
		*option = config.LogConfig
	}); err != nil {
		return err
	}
	base.LogoutStartInfo()
	return nil
}

// Entry 打开输入输出，运行 Converter 直到输入结束、出错或`ctx`被取消
//
// `config.Pid`为空时，先探测PAT/PMT，使用找到的第一个teletext PID
//
func Entry(ctx context.Context, config *Config) (err error) {
	input, err := OpenInput(ctx, config)
	if err != nil {
		return err
	}
	input = newOnceCloser(input)
	defer closeOnDone(ctx, input)()

	var source io.Reader = input
	if config.DumpFilename != "" {
		dumpFile := base.NewDumpFile()
		if err = dumpFile.OpenToWrite(config.DumpFilename); err != nil {
			_ = input.Close()
			return nazaerrors.Wrap(err)
		}
		defer dumpFile.Close()
		Log.Infof("dump input to file. filename=%s", config.DumpFilename)
		source = io.TeeReader(input, dumpFile)
	}

	var pid uint16
	if config.Pid == "" {
		streams, replay, err := tsprobe.ProbeAndReplay(ctx, source, config.ProbeMaxPackets)
		if err != nil {
			_ = input.Close()
			return err
		}
		pid = streams[0].Pid
		source = replay
		Log.Infof("use probed teletext pid. pid=0x%04x, program=%d, pages=%v", pid, streams[0].ProgramNumber, streams[0].Pages)
	} else {
		if pid, err = ParsePid(config.Pid); err != nil {
			_ = input.Close()
			return err
		}
	}

	output, err := OpenOutput(config)
	if err != nil {
		_ = input.Close()
		return err
	}

	// 探测和dump会包装`input`，这里把关闭能力带给 Converter
	err = NewConverter(pid, config, sourceCloser{source, input}, output).Run(ctx)
	closeErr := nazaerrors.CombineErrors(input.Close(), output.Close())
	if err == nil {
		err = closeErr
	} else if closeErr != nil {
		Log.Warnf("close failed. err=%+v", closeErr)
	}
	return err
}

// ProbeEntry 只探测，不转换
//
func ProbeEntry(ctx context.Context, config *Config) ([]tsprobe.TeletextStream, error) {
	input, err := OpenInput(ctx, config)
	if err != nil {
		return nil, err
	}
	input = newOnceCloser(input)
	defer closeOnDone(ctx, input)()

	streams, err := tsprobe.Probe(ctx, input, config.ProbeMaxPackets)
	closeErr := input.Close()
	if err != nil {
		return nil, err
	}
	return streams, closeErr
}

// OpenInput 根据`config.InputUrl`的scheme打开输入
//
func OpenInput(ctx context.Context, config *Config) (io.ReadCloser, error) {
	rawUrl := config.InputUrl
	switch {
	case rawUrl == "":
		return nil, base.NewErrConfig("input_url", rawUrl)
	case rawUrl == stdioFilename:
		Log.Infof("read ts from stdin.")
		return os.Stdin, nil
	case strings.HasPrefix(rawUrl, "http://") || strings.HasPrefix(rawUrl, "https://"):
		session := httpts.NewPullSession(func(option *httpts.PullSessionOption) {
			option.ConnectTimeoutMs = config.HttpConnectTimeoutMs
		})
		if err := session.Pull(ctx, rawUrl); err != nil {
			_ = session.Dispose()
			return nil, err
		}
		return session, nil
	case strings.HasPrefix(rawUrl, tsDumpUrlPrefix):
		dumpFile := base.NewDumpFile()
		filename := strings.TrimPrefix(rawUrl, tsDumpUrlPrefix)
		if err := dumpFile.OpenToRead(filename); err != nil {
			return nil, nazaerrors.Wrap(err)
		}
		Log.Infof("read ts from dump file. filename=%s", filename)
		return dumpFile, nil
	case strings.HasPrefix(rawUrl, "srt://"):
		session := srt.NewPullSession()
		if err := session.Pull(rawUrl); err != nil {
			_ = session.Dispose()
			return nil, err
		}
		return session, nil
	default:
		fp, err := os.Open(rawUrl)
		if err != nil {
			return nil, nazaerrors.Wrap(err)
		}
		Log.Infof("read ts from file. filename=%s", rawUrl)
		return fp, nil
	}
}

// OpenOutput 打开T42输出，stdout不会被关闭
//
func OpenOutput(config *Config) (io.WriteCloser, error) {
	if config.IsOutputStdout() {
		Log.Infof("write t42 to stdout.")
		return nopWriteCloser{os.Stdout}, nil
	}
	fp, err := os.Create(config.OutputFilename)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	Log.Infof("write t42 to file. filename=%s", config.OutputFilename)
	return fp, nil
}

// ---------------------------------------------------------------------------------------------------------------------

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

type sourceCloser struct {
	io.Reader
	io.Closer
}

// onceCloser 取消时会在另一个协程关闭输入，用于打断阻塞中的读取，所以需要保证只关闭一次
type onceCloser struct {
	io.ReadCloser
	once sync.Once
	err  error
}

func newOnceCloser(rc io.ReadCloser) *onceCloser {
	return &onceCloser{ReadCloser: rc}
}

func (c *onceCloser) Close() error {
	c.once.Do(func() {
		c.err = c.ReadCloser.Close()
	})
	return c.err
}

// closeOnDone `ctx`被取消时关闭`c`，返回的函数用于结束监听
func closeOnDone(ctx context.Context, c io.Closer) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	return func() {
		close(done)
	}
}
