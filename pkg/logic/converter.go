// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/remux"
	"github.com/q191201771/naza/pkg/bitrate"
	"github.com/q191201771/naza/pkg/nazaatomic"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"golang.org/x/sync/errgroup"
)

type ConverterStat struct {
	ReadBytes    uint64
	FieldNum     uint64 // 已写入`sink`的field
	WrittenBytes uint64
	InKbitrate   int // 最近一段时间的输入码率
}

// Converter 从`source`读取TS流，将指定PID上的teletext转换成T42写入`sink`
//
// 内部有两个协程：
//   - 读协程：读取`source`，按188字节一步步喂给 remux.Ts2T42Remuxer，每一步之前检查ctx
//   - 写协程：按顺序将field写入`sink`
// 两者之间通过有界channel连接，`sink`写入慢时，读协程阻塞。
//
// `source`实现了io.Closer时，`ctx`被取消或者写`sink`失败会关闭`source`，用于打断阻塞中的读取。
//
type Converter struct {
	UniqueKey string

	pid    uint16
	config Config
	source io.Reader
	sink   io.Writer

	remuxer *remux.Ts2T42Remuxer
	pending [][]byte // 一次FeedTsBytes中产生的field

	readBytes    nazaatomic.Uint64
	fieldNum     nazaatomic.Uint64
	writtenBytes nazaatomic.Uint64

	brMutex sync.Mutex
	br      bitrate.Bitrate
}

// NewConverter
//
// @param config: 内部会拷贝一份，调用结束后对`config`的修改不会影响 Converter
//
func NewConverter(pid uint16, config *Config, source io.Reader, sink io.Writer) *Converter {
	uk := base.GenUkConverter()
	c := &Converter{
		UniqueKey: uk,
		pid:       pid,
		config:    *config,
		source:    source,
		sink:      sink,
		br: bitrate.New(func(option *bitrate.Option) {
			option.WindowMs = inBitrateWindowMs
		}),
	}
	c.remuxer = remux.NewTs2T42Remuxer(pid, remux.T42FieldObserverFunc(c.onT42Field), func(option *remux.Ts2T42RemuxerOption) {
		option.MaxPesSize = config.MaxPesSize
	})
	Log.Infof("[%s] lifecycle new Converter. pid=0x%04x, remuxer=%s", uk, pid, c.remuxer.UniqueKey)
	return c
}

// Run 阻塞直到输入结束、出错或者`ctx`被取消
//
// 输入结束时，已经产生的field会全部写入`sink`，正在拼装中的field丢弃。
//
// @return err:
//   - nil: `source`读取到io.EOF
//   - ctx.Err(): `ctx`被取消
//   - 其他: 读取`source`或写入`sink`失败
//
func (c *Converter) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	fieldCh := make(chan []byte, c.config.OutChanSize)

	g.Go(func() error {
		defer close(fieldCh)
		return c.runIngest(gctx, fieldCh)
	})
	g.Go(func() error {
		if err := c.runOutput(fieldCh); err != nil {
			c.closeSource()
			return err
		}
		return nil
	})

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.closeSource()
		case <-done:
		}
	}()

	err := g.Wait()
	close(done)
	c.remuxer.Dispose()
	Log.Infof("[%s] lifecycle dispose Converter. stat=%+v, err=%+v", c.UniqueKey, c.Stat(), err)
	return err
}

func (c *Converter) Stat() ConverterStat {
	c.brMutex.Lock()
	kbitrate := int(c.br.Rate())
	c.brMutex.Unlock()

	return ConverterStat{
		ReadBytes:    c.readBytes.Load(),
		FieldNum:     c.fieldNum.Load(),
		WrittenBytes: c.writtenBytes.Load(),
		InKbitrate:   kbitrate,
	}
}

// ---------------------------------------------------------------------------------------------------------------------

func (c *Converter) runIngest(ctx context.Context, fieldCh chan<- []byte) error {
	buf := make([]byte, c.config.ReadBufSize)
	for {
		n, readErr := c.source.Read(buf)
		if n > 0 {
			c.readBytes.Add(uint64(n))
			c.brMutex.Lock()
			c.br.Add(n)
			c.brMutex.Unlock()

			if err := c.feed(ctx, buf[:n], fieldCh); err != nil {
				return err
			}
		}

		if readErr != nil {
			// 上层取消时，一般会通过关闭`source`打断阻塞中的读取，此时返回取消的原因
			if err := ctx.Err(); err != nil {
				return err
			}
			if errors.Is(readErr, io.EOF) {
				Log.Infof("[%s] read eof. readBytes=%d", c.UniqueKey, c.readBytes.Load())
				return nil
			}
			return nazaerrors.Wrap(readErr)
		}
	}
}

func (c *Converter) feed(ctx context.Context, b []byte, fieldCh chan<- []byte) error {
	for len(b) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := base.TsPacketSize
		if n > len(b) {
			n = len(b)
		}
		if err := c.remuxer.FeedTsBytes(b[:n]); err != nil {
			// PES超过最大长度时已丢弃，继续处理后续数据
			Log.Warnf("[%s] feed ts failed. err=%+v", c.UniqueKey, err)
		}
		b = b[n:]

		for _, field := range c.pending {
			select {
			case fieldCh <- field:
			case <-ctx.Done():
				c.pending = nil
				return ctx.Err()
			}
		}
		c.pending = c.pending[:0]
	}
	return nil
}

func (c *Converter) runOutput(fieldCh <-chan []byte) error {
	for field := range fieldCh {
		n, err := c.sink.Write(field)
		c.writtenBytes.Add(uint64(n))
		if err != nil {
			return nazaerrors.Wrap(err)
		}

		num := c.fieldNum.Add(1)
		if c.config.ProgressFieldNum > 0 && num%uint64(c.config.ProgressFieldNum) == 0 {
			c.brMutex.Lock()
			kbitrate := int(c.br.Rate())
			c.brMutex.Unlock()
			Log.Infof("[%s] fields: %d, in bitrate: %dkbit/s", c.UniqueKey, num, kbitrate)
		}
	}
	return nil
}

func (c *Converter) closeSource() {
	closer, ok := c.source.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		Log.Warnf("[%s] close source failed. err=%+v", c.UniqueKey, err)
	}
}

func (c *Converter) onT42Field(field []byte) {
	c.pending = append(c.pending, field)
}
