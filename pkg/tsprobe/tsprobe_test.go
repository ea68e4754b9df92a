// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package tsprobe_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/mpegts"
	"github.com/q191201771/live2t42/pkg/teletext"
	"github.com/q191201771/live2t42/pkg/tsprobe"
	"github.com/q191201771/naza/pkg/assert"
)

const (
	pmtPid      uint16 = 0x1000
	videoPid    uint16 = 0x0100
	teletextPid uint16 = 0x0835
)

// makeStream PAT/PMT重复多次，后面跟随teletext数据
func makeStream(withTeletext bool) []byte {
	streams := []mpegts.PmtStream{
		{StreamType: 0x1B, Pid: videoPid},
	}
	if withTeletext {
		var descriptors []byte
		descriptors = append(descriptors, teletext.PackDescriptor("deu", 0x02, 0, 0x88)...)
		streams = append(streams, mpegts.PmtStream{
			StreamType:  mpegts.StreamTypePrivateData,
			Pid:         teletextPid,
			Descriptors: descriptors,
		})
	}

	var patCc, pmtCc, ttxCc uint8
	var out []byte
	for i := 0; i < 3; i++ {
		out = append(out, mpegts.PackPsi(mpegts.PidPat, &patCc, mpegts.PackPat(1, pmtPid))...)
		out = append(out, mpegts.PackPsi(pmtPid, &pmtCc, mpegts.PackPmt(1, videoPid, streams))...)
	}
	for i := 0; i < 4; i++ {
		line := make([]byte, teletext.LineSize)
		unit := teletext.PackDataUnit(teletext.DataUnitIdEbuTeletextSubtitle, uint8(i&1), 7, line)
		out = append(out, mpegts.PackTsPackets(teletextPid, &ttxCc, teletext.PackPes([][]byte{unit}))...)
	}
	return out
}

func TestProbe(t *testing.T) {
	streams, err := tsprobe.Probe(context.Background(), bytes.NewReader(makeStream(true)), 0)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(streams))
	s := streams[0]
	assert.Equal(t, uint16(1), s.ProgramNumber)
	assert.Equal(t, teletextPid, s.Pid)
	assert.Equal(t, mpegts.StreamTypePrivateData, s.StreamType)
	assert.Equal(t, 1, len(s.Pages))
	assert.Equal(t, "deu", s.Pages[0].Language)
	assert.Equal(t, uint8(0x02), s.Pages[0].Type)
	assert.Equal(t, 888, s.Pages[0].Number())
	assert.Equal(t, false, s.Pages[0].IsVbi)
}

func TestProbe_NotFound(t *testing.T) {
	_, err := tsprobe.Probe(context.Background(), bytes.NewReader(makeStream(false)), 0)
	assert.Equal(t, base.ErrTeletextNotFound, err)

	// 只读取第一个PAT，此时还无法解析出PMT
	streams, err := tsprobe.Probe(context.Background(), bytes.NewReader(makeStream(true)), 1)
	assert.IsNotNil(t, err)
	assert.Equal(t, 0, len(streams))
}

func TestProbeAndReplay(t *testing.T) {
	stream := makeStream(true)
	streams, replay, err := tsprobe.ProbeAndReplay(context.Background(), bytes.NewReader(stream), 0)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(streams))

	b, err := io.ReadAll(replay)
	assert.Equal(t, nil, err)
	assert.Equal(t, stream, b)
}

func TestTeletextPage(t *testing.T) {
	p := tsprobe.TeletextPage{Language: "eng", Type: 2, Magazine: 1, Page: 0}
	assert.Equal(t, 100, p.Number())
	assert.Equal(t, "eng/100/type=2", p.String())
}
