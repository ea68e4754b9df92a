// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package remux

import (
	"errors"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/mpegts"
	"github.com/q191201771/live2t42/pkg/teletext"
)

// PES的hex日志，debug级别时只打印前几个PES，每个只打印开头部分
const (
	pesDumpDebugMaxNum = 8
	pesDumpMaxBytes    = 64
)

type ITs2T42RemuxerObserver interface {
	// OnT42Field
	//
	// @param field: 672字节，16行，每行42字节。回调结束后，remux.Ts2T42Remuxer 不再使用这块内存块，上层可以持有
	//
	OnT42Field(field []byte)
}

type Ts2T42RemuxerOption struct {
	// MaxPesSize 单个PES缓存的最大长度，超过后丢弃当前PES，并且 FeedTsBytes 返回 base.ErrPesBufferOverflow
	//
	// 0表示不限制
	//
	MaxPesSize int
}

var defaultTs2T42RemuxerOption = Ts2T42RemuxerOption{
	MaxPesSize: base.DefaultMaxPesSize,
}

type ModTs2T42RemuxerOption func(option *Ts2T42RemuxerOption)

type Ts2T42RemuxerStat struct {
	Demuxer mpegts.TsDemuxerStat
	Decoder teletext.DecoderStat

	PesNum         uint64 // 拼接出的完整PES
	BadPesNum      uint64 // 解析失败的PES，包含数据区为空以及非EBU数据
	PesOverflowNum uint64
}

// Ts2T42Remuxer 输入TS流，输出T42 field
//
// 所有处理都在 FeedTsBytes 的调用协程中同步完成，field按顺序回调。
// 非协程安全，一路流对应一个 Ts2T42Remuxer。
//
type Ts2T42Remuxer struct {
	UniqueKey string

	option   Ts2T42RemuxerOption
	observer ITs2T42RemuxerObserver

	demuxer     *mpegts.TsDemuxer
	accumulator *mpegts.PesAccumulator
	decoder     *teletext.Decoder

	err     error // FeedTsBytes 调用过程中产生的错误
	stat    Ts2T42RemuxerStat
	pesDump base.PacketDump
}

func NewTs2T42Remuxer(pid uint16, observer ITs2T42RemuxerObserver, modOptions ...ModTs2T42RemuxerOption) *Ts2T42Remuxer {
	option := defaultTs2T42RemuxerOption
	for _, fn := range modOptions {
		fn(&option)
	}

	uk := base.GenUkTs2T42Remuxer()
	r := &Ts2T42Remuxer{
		UniqueKey:   uk,
		option:      option,
		observer:    observer,
		accumulator: mpegts.NewPesAccumulator(),
		decoder:     teletext.NewDecoder(),
		pesDump:     base.NewPacketDump(Log, pesDumpDebugMaxNum, pesDumpMaxBytes),
	}
	r.demuxer = mpegts.NewTsDemuxer(pid, r.onTsPayload)
	Log.Infof("[%s] lifecycle new Ts2T42Remuxer. pid=0x%04x, option=%+v", uk, pid, option)
	return r
}

// FeedTsBytes
//
// @param b: 任意长度的TS数据，不要求188字节对齐。函数调用结束后，内部不持有`b`
//
// @return err: 只有缓存的PES超过 Ts2T42RemuxerOption.MaxPesSize 时返回 base.ErrPesBufferOverflow，
//               此时当前PES被丢弃，后续可以继续调用 FeedTsBytes
//
func (r *Ts2T42Remuxer) FeedTsBytes(b []byte) error {
	r.err = nil
	r.demuxer.FeedBytes(b)
	return r.err
}

// Dispose 输入结束。末尾不足188字节的数据以及未完成的field都会被丢弃
//
func (r *Ts2T42Remuxer) Dispose() {
	r.demuxer.Dispose()
	r.accumulator.Reset()
	Log.Infof("[%s] lifecycle dispose Ts2T42Remuxer. stat=%+v", r.UniqueKey, r.Stat())
}

func (r *Ts2T42Remuxer) Stat() Ts2T42RemuxerStat {
	r.stat.Demuxer = r.demuxer.Stat()
	r.stat.Decoder = r.decoder.Stat()
	return r.stat
}

// ---------------------------------------------------------------------------------------------------------------------

func (r *Ts2T42Remuxer) onTsPayload(payload []byte, isStart bool) {
	if pes := r.accumulator.Feed(payload, isStart); pes != nil {
		r.stat.PesNum++
		r.onPes(pes)
	}

	if r.option.MaxPesSize > 0 && r.accumulator.Len() > r.option.MaxPesSize {
		r.stat.PesOverflowNum++
		err := base.NewErrPesBufferOverflow(r.accumulator.Len(), r.option.MaxPesSize)
		Log.Warnf("[%s] drop pes. err=%+v", r.UniqueKey, err)
		r.accumulator.Reset()
		if r.err == nil {
			r.err = err
		}
	}
}

func (r *Ts2T42Remuxer) onPes(b []byte) {
	r.pesDump.Dump(r.UniqueKey, "pes", b)

	pes, err := mpegts.ParsePes(b)
	if err != nil {
		r.stat.BadPesNum++
		Log.Warnf("[%s] invalid pes. err=%+v", r.UniqueKey, err)
		return
	}

	fields, err := r.decoder.Decode(pes.Data)
	if err != nil {
		r.stat.BadPesNum++
		// 数据区为空或者不是EBU数据，静默丢弃
		if !errors.Is(err, base.ErrEmptyDataRegion) && !errors.Is(err, base.ErrNotEbuData) {
			Log.Warnf("[%s] decode teletext failed. err=%+v", r.UniqueKey, err)
		}
		return
	}

	for _, field := range fields {
		r.observer.OnT42Field(field)
	}
}
