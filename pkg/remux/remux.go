// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package remux 串联 mpegts 与 teletext，输入TS字节流，输出T42 field
//
// TsDemuxer -> PesAccumulator -> ParsePes -> teletext.Decoder -> ITs2T42RemuxerObserver
package remux

var _ ITs2T42RemuxerObserver = (*T42FieldObserverFunc)(nil)

// T42FieldObserverFunc 函数适配成 ITs2T42RemuxerObserver
type T42FieldObserverFunc func(field []byte)

func (f T42FieldObserverFunc) OnT42Field(field []byte) {
	f(field)
}
