// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/live2t42/pkg/base"
)

// OnTsPayload
//
// @param payload: 回调结束后，TsDemuxer会复用这块内存，上层如需持有需自行拷贝
//
// @param isStart: payload_unit_start_indicator，原样透传
//
type OnTsPayload func(payload []byte, isStart bool)

type TsDemuxerStat struct {
	PacketNum    uint64 // 所有完整的188字节packet
	BadSyncNum   uint64
	PidPacketNum uint64 // PID匹配的packet
	PayloadNum   uint64 // PID匹配并且有payload的packet
}

// TsDemuxer 输入任意切分的TS字节流，按188字节一个packet处理，过滤出指定PID的payload
//
// 注意：
//   - 首字节不是0x47的packet直接丢弃，不做重新同步，下一个188字节继续
//   - 不检查continuity_counter
//
type TsDemuxer struct {
	pid       uint16
	onPayload OnTsPayload

	remain *base.Buffer // 上次输入末尾不足188字节的部分
	stat   TsDemuxerStat
}

func NewTsDemuxer(pid uint16, onPayload OnTsPayload) *TsDemuxer {
	return &TsDemuxer{
		pid:       pid,
		onPayload: onPayload,
		remain:    base.NewBuffer(TsPacketSize),
	}
}

// FeedBytes
//
// @param b: 任意长度。函数调用结束后，内部不持有`b`
//
func (d *TsDemuxer) FeedBytes(b []byte) {
	if d.remain.Len() > 0 {
		need := TsPacketSize - d.remain.Len()
		if len(b) < need {
			_, _ = d.remain.Write(b)
			return
		}
		_, _ = d.remain.Write(b[:need])
		d.feedPacket(d.remain.Bytes())
		d.remain.Reset()
		b = b[need:]
	}

	for len(b) >= TsPacketSize {
		d.feedPacket(b[:TsPacketSize])
		b = b[TsPacketSize:]
	}

	if len(b) > 0 {
		_, _ = d.remain.Write(b)
	}
}

// Dispose 输入结束，末尾不足188字节的数据直接丢弃
//
func (d *TsDemuxer) Dispose() {
	if d.remain.Len() > 0 {
		Log.Debugf("drop trailing partial ts packet. len=%d", d.remain.Len())
		d.remain.Reset()
	}
}

func (d *TsDemuxer) Stat() TsDemuxerStat {
	return d.stat
}

func (d *TsDemuxer) feedPacket(packet []byte) {
	d.stat.PacketNum++

	if packet[0] != SyncByte {
		d.stat.BadSyncNum++
		Log.Warnf("packet without sync byte. sync=0x%02x, packet=%d", packet[0], d.stat.PacketNum)
		return
	}

	h := ParseTsPacketHeader(packet)
	if h.Pid != d.pid {
		return
	}
	d.stat.PidPacketNum++

	var payload []byte
	switch h.Adaptation {
	case AdaptationFieldControlNo:
		payload = packet[4:]
	case AdaptationFieldControlFollowed:
		adaptation := ParseTsPacketAdaptation(packet[4:])
		index := 5 + int(adaptation.Length)
		if index > TsPacketSize {
			index = TsPacketSize
		}
		// adaptation_field占满整个packet时，payload长度为0，仍然回调
		payload = packet[index:]
	default:
		// 仅adaptation_field或reserved，没有payload
		return
	}

	d.stat.PayloadNum++
	d.onPayload(payload, h.PayloadUnitStart == 1)
}
