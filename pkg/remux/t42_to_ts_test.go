// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package remux_test

import (
	"testing"

	"github.com/q191201771/live2t42/pkg/remux"
	"github.com/q191201771/live2t42/pkg/teletext"
	"github.com/q191201771/naza/pkg/assert"
)

func TestT42ToTsPacker(t *testing.T) {
	var golden [][]byte
	for i := 0; i < 5; i++ {
		field := make([]byte, teletext.FieldSize)
		// 第3个field全0，其他field只有部分行有数据
		if i != 2 {
			for lo := teletext.LineOffsetMin; lo <= teletext.LineOffsetMax; lo += uint8(i + 1) {
				copy(field[int(lo-teletext.LineOffsetMin)*teletext.LineSize:], makeLine(i, lo))
			}
		}
		golden = append(golden, field)
	}

	packer := remux.NewT42ToTsPacker(testPid)
	stream := packer.PackPatPmt()
	for _, field := range golden {
		stream = append(stream, packer.PackField(field)...)
	}

	// 没有flush时，最后一个PES要等下一个PUSI才会被解析，而倒数第二个field要靠最后一个PES的parity变化才输出，
	// 所以最后两个field都不会输出
	fields, _ := feed(t, testPid, stream, 1000)
	assert.Equal(t, len(golden)-2, len(fields))
	for i := range fields {
		assert.Equal(t, golden[i], fields[i])
	}

	stream = append(stream, packer.PackFlush()...)
	fields, stat := feed(t, testPid, stream, 1000)
	assert.Equal(t, len(golden), len(fields))
	for i := range golden {
		assert.Equal(t, golden[i], fields[i])
	}
	assert.Equal(t, uint64(0), stat.BadPesNum)
}
