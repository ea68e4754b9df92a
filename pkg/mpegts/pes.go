// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/naza/pkg/bele"
)

const pesFixedHeaderSize = 9

// -----------------------------------------------------------
// <iso13818-1.pdf>
// <2.4.3.6 PES packet> <page 49/174>
// packet_start_code_prefix  [24b] *** always 0x00, 0x00, 0x01
// stream_id                 [8b]  *   teletext为0xBD
// PES_packet_length         [16b] **  0表示不限制长度，一直到PES结束
// '10'                      [2b]
// PES_scrambling_control    [2b]
// PES_priority              [1b]
// data_alignment_indicator  [1b]
// copyright                 [1b]
// original_or_copy          [1b]  *
// PTS_DTS_flags             [2b]
// ESCR_flag                 [1b]
// ES_rate_flag              [1b]
// DSM_trick_mode_flag       [1b]
// additional_copy_info_flag [1b]
// PES_CRC_flag              [1b]
// PES_extension_flag        [1b]  *
// PES_header_data_length    [8b]  *   后面的可选字段不解析，直接跳过
// -----------------------------------------------------------
type Pes struct {
	Sid              uint8
	PacketLength     uint16
	HeaderDataLength uint8

	// Data PES header之后的数据区，引用输入的内存块，不拷贝
	// 当header_data_length超出数据区末尾时为空
	Data []byte
}

// ParsePes 解析一个完整的PES包，返回数据区
//
// 错误：
//   - base.ErrPesTooShort        不足9字节
//   - base.ErrPesMissingHeader   packet_start_code_prefix不为0x000001
//   - base.ErrPesInvalidStreamId stream_id不是private_stream_1
//   - base.ErrPesTruncated       PES_packet_length超出了输入的长度
//
func ParsePes(b []byte) (pes Pes, err error) {
	if len(b) < pesFixedHeaderSize {
		return pes, base.NewErrPesTooShort(len(b))
	}

	prefix := bele.BeUint24(b)
	if prefix != 1 {
		return pes, base.NewErrPesMissingHeader(prefix)
	}

	pes.Sid = b[3]
	if pes.Sid != StreamIdPrivateStream1 {
		return pes, base.NewErrPesInvalidStreamId(pes.Sid)
	}

	pes.PacketLength = bele.BeUint16(b[4:])
	pes.HeaderDataLength = b[8]

	start := pesFixedHeaderSize + int(pes.HeaderDataLength)
	end := len(b)
	if pes.PacketLength > 0 {
		end = 6 + int(pes.PacketLength)
	}
	if end > len(b) {
		return pes, base.NewErrPesTruncated(start, end, len(b))
	}

	if start < end {
		pes.Data = b[start:end]
	}
	return pes, nil
}
