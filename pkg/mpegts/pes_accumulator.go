// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/live2t42/pkg/base"
)

const initialPesBufSize = 4096

// PesAccumulator 将属于同一个PID的TS payload拼接成完整的PES
//
// 以payload_unit_start_indicator作为PES的边界，收到下一个start时，之前缓存的数据才作为一个完整的PES返回。
// 内部不限制缓存大小，需要限制的话由上层通过 Len 判断并调用 Reset。
//
type PesAccumulator struct {
	buf     *base.Buffer
	started bool
}

func NewPesAccumulator() *PesAccumulator {
	return &PesAccumulator{
		buf: base.NewBuffer(initialPesBufSize),
	}
}

// Feed
//
// @param payload: 函数内部会拷贝，调用结束后不持有
//
// @return pes: 完整的PES，没有时为nil。内存块为独立申请，所有权交给上层
//
func (a *PesAccumulator) Feed(payload []byte, isStart bool) (pes []byte) {
	if isStart {
		if a.buf.Len() > 0 {
			pes = make([]byte, a.buf.Len())
			copy(pes, a.buf.Bytes())
		}
		a.buf.Reset()
		_, _ = a.buf.Write(payload)
		a.started = true
		return
	}

	// 还没有收到过start，说明是从PES中间开始接收的，丢弃
	if !a.started {
		return nil
	}
	_, _ = a.buf.Write(payload)
	return nil
}

// Len 当前缓存的PES的长度
//
func (a *PesAccumulator) Len() int {
	return a.buf.Len()
}

// Reset 丢弃当前缓存，等待下一个start
//
func (a *PesAccumulator) Reset() {
	a.buf.Reset()
	a.started = false
}
