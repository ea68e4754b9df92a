// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import "github.com/q191201771/naza/pkg/nazalog"

var Log = nazalog.GetGlobalLogger()

// ----- ts --------------------
const (
	// TsPacketSize 一个TS packet的固定长度
	TsPacketSize = 188

	// T42LineSize 一行teletext数据的长度
	T42LineSize = 42

	// T42FieldLineNum 一个field包含的teletext行数，对应行号7~22
	T42FieldLineNum = 16

	// T42FieldSize 输出的一个field的长度，672字节
	T42FieldSize = T42LineSize * T42FieldLineNum
)

// ----- logic --------------------
var (
	// DefaultMaxPesSize 单个PES包缓存的最大长度，超过后丢弃当前PES
	DefaultMaxPesSize = 1048576

	// DefaultReadBufSize 每次从输入源读取的大小
	DefaultReadBufSize = TsPacketSize * 100

	// DefaultOutChanSize 输入协程与输出协程之间的channel大小，满时阻塞输入
	DefaultOutChanSize = 16

	// DefaultProgressFieldNum 每输出多少个field打印一次进度日志
	DefaultProgressFieldNum = 50

	// DefaultProbeMaxPackets 自动探测teletext PID时，最多读取的TS packet数量
	DefaultProbeMaxPackets = 20000
)
