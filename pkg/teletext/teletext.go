// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package teletext 解析PES中承载的EBU teletext数据单元，按field输出T42数据
//
// 参考 <ETSI EN 300 472> <4.3 Syntax for PES data field>
package teletext

import (
	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/naza/pkg/nazalog"
)

var Log = nazalog.GetGlobalLogger()

// ---------------------------------------------------------------------------------------------------------------------
// PES_data_field
// data_identifier        [8b]  * 0x10~0x1F为EBU data
// -----loop-----
// data_unit_id           [8b]  * 0x02 EBU teletext non-subtitle data, 0x03 EBU teletext subtitle data
// data_unit_length       [8b]  * 固定0x2C
// data_field             [44B] 44字节
//   reserved_future_use  [2b]
//   field_parity         [1b]
//   line_offset          [5b]  * 7~22
//   framing_code         [8b]
//   magazine_and_packet_address [16b]
//   data_block           [320b] 40字节
// --------------
// ---------------------------------------------------------------------------------------------------------------------

const (
	DataIdentifierEbuMin uint8 = 0x10
	DataIdentifierEbuMax uint8 = 0x1F

	DataUnitIdEbuTeletextNonSubtitle uint8 = 0x02
	DataUnitIdEbuTeletextSubtitle    uint8 = 0x03
)

const (
	// DataUnitSize 每个数据单元的固定长度，包含data_unit_id和data_unit_length
	DataUnitSize = 0x2E

	// DataFieldSize data_field的长度
	DataFieldSize = 0x2C

	LineOffsetMin uint8 = 7
	LineOffsetMax uint8 = 22

	LineSize  = base.T42LineSize
	FieldSize = base.T42FieldSize
)

// teletext_type，见 <ETSI EN 300 468> <6.2.43 Teletext descriptor>
const (
	TeletextTypeInitialPage  uint8 = 0x01
	TeletextTypeSubtitlePage uint8 = 0x02
)
