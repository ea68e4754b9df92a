// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/naza/pkg/bele"
)

// 打包相关的函数，用于生成测试流（见 app/demo/gents 以及各package的单元测试）

// PackTsPackets 将一个PES（或者其他payload）切分打包成一个或多个188字节的TS packet
//
// 第一个packet设置payload_unit_start_indicator，最后一个packet不足184字节时，使用adaptation_field填充
//
// 注意，内部会增加`cc`的值
//
// @return: 内存块为独立申请，调用结束后内部不再持有
//
func PackTsPackets(pid uint16, cc *uint8, payload []byte) []byte {
	n := (len(payload) + 183) / 184
	if n == 0 {
		n = 1
	}
	out := make([]byte, n*TsPacketSize)

	lpos := 0
	for i := 0; i < n; i++ {
		packet := out[i*TsPacketSize : (i+1)*TsPacketSize]
		packet[0] = SyncByte
		packet[1] = uint8(pid>>8) & 0x1F
		if i == 0 {
			packet[1] |= 0x40
		}
		packet[2] = uint8(pid)

		remain := len(payload) - lpos
		if remain >= 184 {
			packet[3] = AdaptationFieldControlNo<<4 | (*cc & 0x0F)
			copy(packet[4:], payload[lpos:lpos+184])
			lpos += 184
		} else {
			// stuffing为adaptation_field占用的字节数，包含adaptation_field_length自身1字节
			stuffing := 184 - remain
			packet[3] = AdaptationFieldControlFollowed<<4 | (*cc & 0x0F)
			packet[4] = uint8(stuffing - 1)
			if stuffing > 1 {
				packet[5] = 0x00
				for j := 6; j < 4+stuffing; j++ {
					packet[j] = 0xFF
				}
			}
			copy(packet[4+stuffing:], payload[lpos:])
			lpos = len(payload)
		}
		*cc = (*cc + 1) & 0x0F
	}
	return out
}

// PackPsi 将一个PSI section打包成一个TS packet，section需小于等于183字节
//
func PackPsi(pid uint16, cc *uint8, section []byte) []byte {
	out := make([]byte, TsPacketSize)
	out[0] = SyncByte
	out[1] = 0x40 | uint8(pid>>8)&0x1F
	out[2] = uint8(pid)
	out[3] = AdaptationFieldControlNo<<4 | (*cc & 0x0F)
	out[4] = 0 // pointer_field
	n := copy(out[5:], section)
	for i := 5 + n; i < TsPacketSize; i++ {
		out[i] = 0xFF
	}
	*cc = (*cc + 1) & 0x0F
	return out
}

// PackPat 只包含一个节目的PAT section
//
func PackPat(programNumber uint16, pmtPid uint16) []byte {
	// table_id(1) + section_length前的2字节 + 5字节固定 + 4字节节目 + 4字节crc
	section := make([]byte, 3+5+4+4)
	section[0] = TableIdPat
	bele.BePutUint16(section[1:], 0xB000|uint16(len(section)-3))
	bele.BePutUint16(section[3:], 1) // transport_stream_id
	section[5] = 0xC1                // version_number 0, current_next_indicator 1
	section[6] = 0
	section[7] = 0
	bele.BePutUint16(section[8:], programNumber)
	bele.BePutUint16(section[10:], 0xE000|pmtPid)
	putCrc32(section)
	return section
}

type PmtStream struct {
	StreamType  uint8
	Pid         uint16
	Descriptors []byte // 已经编码好的descriptor，可以为空
}

// PackPmt 生成PMT section
//
func PackPmt(programNumber uint16, pcrPid uint16, streams []PmtStream) []byte {
	esLen := 0
	for _, s := range streams {
		esLen += 5 + len(s.Descriptors)
	}
	section := make([]byte, 3+9+esLen+4)
	section[0] = TableIdPmt
	bele.BePutUint16(section[1:], 0xB000|uint16(len(section)-3))
	bele.BePutUint16(section[3:], programNumber)
	section[5] = 0xC1
	section[6] = 0
	section[7] = 0
	bele.BePutUint16(section[8:], 0xE000|pcrPid)
	bele.BePutUint16(section[10:], 0xF000) // program_info_length 0

	i := 12
	for _, s := range streams {
		section[i] = s.StreamType
		bele.BePutUint16(section[i+1:], 0xE000|s.Pid)
		bele.BePutUint16(section[i+3:], 0xF000|uint16(len(s.Descriptors)))
		copy(section[i+5:], s.Descriptors)
		i += 5 + len(s.Descriptors)
	}
	putCrc32(section)
	return section
}

func putCrc32(section []byte) {
	crc := CalcCrc32(0xFFFFFFFF, section[:len(section)-4])
	bele.BePutUint32(section[len(section)-4:], crc)
}
