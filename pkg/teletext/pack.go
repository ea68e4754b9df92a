// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package teletext

import (
	"github.com/q191201771/live2t42/pkg/mpegts"
	"github.com/q191201771/naza/pkg/bele"
)

// 打包相关的函数，是 Decoder 的逆过程，用于生成测试流

const (
	framingCode uint8 = 0xE4

	// pesHeaderDataLength EBU teletext的PES header固定为45字节，使得PES数据区与TS packet对齐
	pesHeaderDataLength = 0x24

	DescriptorTagTeletext uint8 = 0x56
)

// PackDataUnit 打包一个teletext数据单元，返回46字节
//
// @param line: T42格式（高位在前）的一行数据，42字节，内部会反转比特序
//
func PackDataUnit(unitId uint8, fieldParity uint8, lineOffset uint8, line []byte) []byte {
	unit := make([]byte, DataUnitSize)
	unit[0] = unitId
	unit[1] = DataFieldSize
	unit[2] = 0xC0 | (fieldParity&1)<<5 | lineOffset&0x1F
	unit[3] = framingCode
	for i := 0; i < LineSize && i < len(line); i++ {
		unit[4+i] = ReverseBits(line[i])
	}
	return unit
}

// PackPes 将多个数据单元打包成一个完整的PES
//
func PackPes(units [][]byte) []byte {
	dataLen := 1
	for _, u := range units {
		dataLen += len(u)
	}

	out := make([]byte, 9+pesHeaderDataLength+dataLen)
	bele.BePutUint24(out, 1)
	out[3] = mpegts.StreamIdPrivateStream1
	bele.BePutUint16(out[4:], uint16(len(out)-6))
	out[6] = 0x80
	out[7] = 0x00
	out[8] = pesHeaderDataLength
	for i := 9; i < 9+pesHeaderDataLength; i++ {
		out[i] = 0xFF
	}

	i := 9 + pesHeaderDataLength
	out[i] = DataIdentifierEbuMin
	i++
	for _, u := range units {
		i += copy(out[i:], u)
	}
	return out
}

// PackDescriptor 打包只包含一项的teletext_descriptor
//
// @param page: BCD编码，比如0x88表示888页的后两位
//
func PackDescriptor(language string, typ uint8, magazine uint8, page uint8) []byte {
	d := make([]byte, 7)
	d[0] = DescriptorTagTeletext
	d[1] = 5
	copy(d[2:5], language)
	d[5] = typ<<3 | magazine&0x07
	d[6] = page
	return d
}
