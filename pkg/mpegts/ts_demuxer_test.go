// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts_test

import (
	"testing"

	"github.com/q191201771/live2t42/pkg/mpegts"
	"github.com/q191201771/naza/pkg/assert"
)

const testPid uint16 = 0x0835

type payloadItem struct {
	payload []byte
	isStart bool
}

// makePacket 构造一个188字节的TS packet，除头部外每个字节的值为其下标
func makePacket(pid uint16, pusi bool, afc uint8) []byte {
	packet := make([]byte, mpegts.TsPacketSize)
	for i := range packet {
		packet[i] = uint8(i)
	}
	packet[0] = mpegts.SyncByte
	packet[1] = uint8(pid>>8) & 0x1F
	if pusi {
		packet[1] |= 0x40
	}
	packet[2] = uint8(pid)
	packet[3] = afc<<4 | 0x07
	return packet
}

func newCollector() (*[]payloadItem, mpegts.OnTsPayload) {
	var items []payloadItem
	return &items, func(payload []byte, isStart bool) {
		// 回调之后内存会被复用，拷贝一份
		b := make([]byte, len(payload))
		copy(b, payload)
		items = append(items, payloadItem{payload: b, isStart: isStart})
	}
}

func TestParseTsPacketHeader(t *testing.T) {
	h := mpegts.ParseTsPacketHeader([]byte{0x47, 0x48, 0x35, 0x3A})
	assert.Equal(t, mpegts.SyncByte, h.Sync)
	assert.Equal(t, uint8(0), h.Err)
	assert.Equal(t, uint8(1), h.PayloadUnitStart)
	assert.Equal(t, uint16(0x0835), h.Pid)
	assert.Equal(t, mpegts.AdaptationFieldControlFollowed, h.Adaptation)
	assert.Equal(t, uint8(0x0A), h.Cc)
}

func TestTsDemuxer_AdaptationNo(t *testing.T) {
	items, onPayload := newCollector()
	d := mpegts.NewTsDemuxer(testPid, onPayload)

	packet := makePacket(testPid, true, mpegts.AdaptationFieldControlNo)
	d.FeedBytes(packet)

	assert.Equal(t, 1, len(*items))
	assert.Equal(t, packet[4:], (*items)[0].payload)
	assert.Equal(t, true, (*items)[0].isStart)
}

func TestTsDemuxer_AdaptationFollowed(t *testing.T) {
	for _, l := range []uint8{0, 1, 10, 182, 183} {
		items, onPayload := newCollector()
		d := mpegts.NewTsDemuxer(testPid, onPayload)

		packet := makePacket(testPid, false, mpegts.AdaptationFieldControlFollowed)
		packet[4] = l
		d.FeedBytes(packet)

		assert.Equal(t, 1, len(*items))
		assert.Equal(t, 183-int(l), len((*items)[0].payload))
		assert.Equal(t, false, (*items)[0].isStart)
		if l < 183 {
			assert.Equal(t, packet[5+int(l):], (*items)[0].payload)
		}
	}
}

func TestTsDemuxer_NoPayload(t *testing.T) {
	items, onPayload := newCollector()
	d := mpegts.NewTsDemuxer(testPid, onPayload)

	d.FeedBytes(makePacket(testPid, true, mpegts.AdaptationFieldControlReserved))
	d.FeedBytes(makePacket(testPid, true, mpegts.AdaptationFieldControlOnly))
	assert.Equal(t, 0, len(*items))

	stat := d.Stat()
	assert.Equal(t, uint64(2), stat.PacketNum)
	assert.Equal(t, uint64(2), stat.PidPacketNum)
	assert.Equal(t, uint64(0), stat.PayloadNum)
}

func TestTsDemuxer_PidFilter(t *testing.T) {
	items, onPayload := newCollector()
	d := mpegts.NewTsDemuxer(testPid, onPayload)

	d.FeedBytes(makePacket(0x0100, true, mpegts.AdaptationFieldControlNo))
	d.FeedBytes(makePacket(mpegts.PidPat, true, mpegts.AdaptationFieldControlNo))
	assert.Equal(t, 0, len(*items))
	assert.Equal(t, uint64(2), d.Stat().PacketNum)
	assert.Equal(t, uint64(0), d.Stat().PidPacketNum)
}

func TestTsDemuxer_BadSync(t *testing.T) {
	items, onPayload := newCollector()
	d := mpegts.NewTsDemuxer(testPid, onPayload)

	bad := makePacket(testPid, true, mpegts.AdaptationFieldControlNo)
	bad[0] = 0x48
	good := makePacket(testPid, false, mpegts.AdaptationFieldControlNo)

	var stream []byte
	stream = append(stream, bad...)
	stream = append(stream, good...)
	d.FeedBytes(stream)

	assert.Equal(t, 1, len(*items))
	assert.Equal(t, false, (*items)[0].isStart)
	assert.Equal(t, uint64(1), d.Stat().BadSyncNum)
}

func TestTsDemuxer_ArbitraryChunk(t *testing.T) {
	var stream []byte
	stream = append(stream, makePacket(testPid, true, mpegts.AdaptationFieldControlNo)...)
	stream = append(stream, makePacket(0x0100, true, mpegts.AdaptationFieldControlNo)...)
	stream = append(stream, makePacket(testPid, false, mpegts.AdaptationFieldControlFollowed)...)
	stream = append(stream, makePacket(testPid, false, mpegts.AdaptationFieldControlNo)...)

	golden, onPayload := newCollector()
	d := mpegts.NewTsDemuxer(testPid, onPayload)
	d.FeedBytes(stream)
	assert.Equal(t, 3, len(*golden))

	for _, chunkSize := range []int{1, 7, 100, 187, 189, 376, 1000} {
		items, onPayload := newCollector()
		d := mpegts.NewTsDemuxer(testPid, onPayload)
		for i := 0; i < len(stream); i += chunkSize {
			end := i + chunkSize
			if end > len(stream) {
				end = len(stream)
			}
			d.FeedBytes(stream[i:end])
		}
		assert.Equal(t, *golden, *items)
	}
}

func TestTsDemuxer_TrailingPartial(t *testing.T) {
	items, onPayload := newCollector()
	d := mpegts.NewTsDemuxer(testPid, onPayload)

	stream := makePacket(testPid, true, mpegts.AdaptationFieldControlNo)
	stream = append(stream, makePacket(testPid, false, mpegts.AdaptationFieldControlNo)[:100]...)
	d.FeedBytes(stream)
	d.Dispose()

	assert.Equal(t, 1, len(*items))
	assert.Equal(t, uint64(1), d.Stat().PacketNum)

	// Dispose之后残留数据已丢弃，后续输入从新的packet边界开始
	d.FeedBytes(makePacket(testPid, false, mpegts.AdaptationFieldControlNo))
	assert.Equal(t, 2, len(*items))
}
