// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package remux

import (
	"bytes"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/mpegts"
	"github.com/q191201771/live2t42/pkg/teletext"
)

type T42ToTsPackerOption struct {
	ProgramNumber uint16
	PmtPid        uint16

	// 写入PMT中teletext_descriptor的信息
	Language string
	Page     int // 三位页号，比如888
}

var defaultT42ToTsPackerOption = T42ToTsPackerOption{
	ProgramNumber: 1,
	PmtPid:        0x1000,
	Language:      "eng",
	Page:          888,
}

type ModT42ToTsPackerOption func(option *T42ToTsPackerOption)

// T42ToTsPacker 将T42 field打包成TS流，是 Ts2T42Remuxer 的逆过程
//
// 每个field打包成一个PES，field_parity从1开始交替。全0的行不打包。
// 用于生成测试流，以及将T42文件重新封装成TS。
//
type T42ToTsPacker struct {
	pid    uint16
	option T42ToTsPackerOption

	patCc       uint8
	pmtCc       uint8
	cc          uint8
	fieldParity uint8
}

func NewT42ToTsPacker(pid uint16, modOptions ...ModT42ToTsPackerOption) *T42ToTsPacker {
	option := defaultT42ToTsPackerOption
	for _, fn := range modOptions {
		fn(&option)
	}
	return &T42ToTsPacker{
		pid:         pid,
		option:      option,
		fieldParity: 1,
	}
}

// PackPatPmt PAT和PMT各一个TS packet
//
func (p *T42ToTsPacker) PackPatPmt() []byte {
	magazine := uint8(p.option.Page/100) & 0x07
	page := p.option.Page % 100
	bcd := uint8(page/10)<<4 | uint8(page%10)

	pmt := mpegts.PackPmt(p.option.ProgramNumber, p.pid, []mpegts.PmtStream{
		{
			StreamType:  mpegts.StreamTypePrivateData,
			Pid:         p.pid,
			Descriptors: teletext.PackDescriptor(p.option.Language, teletext.TeletextTypeSubtitlePage, magazine, bcd),
		},
	})

	out := mpegts.PackPsi(mpegts.PidPat, &p.patCc, mpegts.PackPat(p.option.ProgramNumber, p.option.PmtPid))
	return append(out, mpegts.PackPsi(p.option.PmtPid, &p.pmtCc, pmt)...)
}

// PackField
//
// @param field: 672字节的T42 field
//
// @return: 一个或多个TS packet。内存块为独立申请
//
func (p *T42ToTsPacker) PackField(field []byte) []byte {
	var units [][]byte
	zeroLine := make([]byte, teletext.LineSize)
	for i := 0; i < base.T42FieldLineNum; i++ {
		line := field[i*teletext.LineSize : (i+1)*teletext.LineSize]
		if bytes.Equal(line, zeroLine) {
			continue
		}
		units = append(units, teletext.PackDataUnit(teletext.DataUnitIdEbuTeletextSubtitle, p.fieldParity, teletext.LineOffsetMin+uint8(i), line))
	}
	// 至少需要一个数据单元，接收端才能感知到field_parity的变化
	if len(units) == 0 {
		units = append(units, teletext.PackDataUnit(teletext.DataUnitIdEbuTeletextSubtitle, p.fieldParity, teletext.LineOffsetMin, zeroLine))
	}
	p.fieldParity ^= 1

	return mpegts.PackTsPackets(p.pid, &p.cc, teletext.PackPes(units))
}

// PackFlush 接收端只有在field_parity变化时才会输出field，并且只有收到下一个PES才会处理当前PES，
// 所以在流的末尾追加一个field_parity翻转的数据单元，以及一个不包含teletext数据的PES，使得最后一个field能被输出
//
func (p *T42ToTsPacker) PackFlush() []byte {
	zeroLine := make([]byte, teletext.LineSize)
	out := mpegts.PackTsPackets(p.pid, &p.cc, teletext.PackPes([][]byte{
		teletext.PackDataUnit(teletext.DataUnitIdEbuTeletextSubtitle, p.fieldParity, teletext.LineOffsetMin, zeroLine),
	}))
	return append(out, mpegts.PackTsPackets(p.pid, &p.cc, teletext.PackPes(nil))...)
}
