// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package mpegts TS解复用，以及PES的拼接与解析
//
// 只处理指定PID，不解析PAT/PMT（PID的自动探测见 pkg/tsprobe）
package mpegts

import (
	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/naza/pkg/nazalog"
)

var Log = nazalog.GetGlobalLogger()

const SyncByte uint8 = 0x47

// 每个TS packet的固定长度
const TsPacketSize = base.TsPacketSize

// ------------------------------------------------
// adaptation_field_control
// 0x00 reserved
// 0x01 无adaptation_field，仅payload
// 0x02 仅adaptation_field，无payload
// 0x03 adaptation_field后面跟随payload
// ------------------------------------------------
const (
	AdaptationFieldControlReserved uint8 = 0
	AdaptationFieldControlNo       uint8 = 1
	AdaptationFieldControlOnly     uint8 = 2
	AdaptationFieldControlFollowed uint8 = 3
)

const (
	PidPat uint16 = 0

	// PidMax PID是13位
	PidMax uint16 = 0x1FFF
)

const (
	// StreamIdPrivateStream1 EBU teletext承载在private_stream_1中
	StreamIdPrivateStream1 uint8 = 0xBD
)

const (
	TableIdPat uint8 = 0x00 // program_association_section
	TableIdPmt uint8 = 0x02 // TS_program_map_section
)

const (
	// StreamTypePrivateData PES packets containing private data，teletext使用该类型
	StreamTypePrivateData uint8 = 0x06
)
