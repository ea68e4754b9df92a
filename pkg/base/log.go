// Copyright 2022, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"encoding/hex"
	"fmt"

	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazalog"
)

// PacketDump 将PES之类的数据包以hex形式打印到日志，用于排查输入流的问题
//
// 日志级别为trace时每个包都打印，为debug时只打印前`debugMaxNum`个，更高级别时不打印。
// 每个包最多打印前`maxBytes`字节。
//
type PacketDump struct {
	log         nazalog.Logger
	debugMaxNum int
	maxBytes    int

	debugCount int
}

func NewPacketDump(log nazalog.Logger, debugMaxNum int, maxBytes int) PacketDump {
	return PacketDump{
		log:         log,
		debugMaxNum: debugMaxNum,
		maxBytes:    maxBytes,
	}
}

// Dump 不需要打印时直接返回，不会有hex编码的开销
//
// @param name: 数据包类型，比如"pes"
//
func (d *PacketDump) Dump(uk string, name string, b []byte) {
	if !d.shouldDump() {
		return
	}
	s := fmt.Sprintf("[%s] %s. len=%d, hex=\n%s", uk, name, len(b), hex.Dump(nazabytes.Prefix(b, d.maxBytes)))
	d.log.Out(d.log.GetOption().Level, 2, s)
}

func (d *PacketDump) shouldDump() bool {
	switch d.log.GetOption().Level {
	case nazalog.LevelTrace:
		return true
	case nazalog.LevelDebug:
		if d.debugCount >= d.debugMaxNum {
			return false
		}
		d.debugCount++
		return true
	}
	return false
}
