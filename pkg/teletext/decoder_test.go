// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package teletext_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/mpegts"
	"github.com/q191201771/live2t42/pkg/teletext"
	"github.com/q191201771/naza/pkg/assert"
)

func makeLine(seed uint8) []byte {
	line := make([]byte, teletext.LineSize)
	for i := range line {
		line[i] = seed + uint8(i)
	}
	return line
}

func unit(fp, lo uint8, line []byte) []byte {
	return teletext.PackDataUnit(teletext.DataUnitIdEbuTeletextSubtitle, fp, lo, line)
}

// makeData 生成PES数据区：data_identifier + 数据单元
func makeData(units ...[]byte) []byte {
	data := []byte{teletext.DataIdentifierEbuMin}
	for _, u := range units {
		data = append(data, u...)
	}
	return data
}

func row(field []byte, lo uint8) []byte {
	i := int(lo-teletext.LineOffsetMin) * teletext.LineSize
	return field[i : i+teletext.LineSize]
}

func TestDecoder_FieldEmission(t *testing.T) {
	d := teletext.NewDecoder()
	l7 := makeLine(0x10)
	l8 := makeLine(0x80)

	fields, err := d.Decode(makeData(unit(1, 7, l7), unit(1, 8, l8)))
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(fields))
	assert.Equal(t, uint8(8), d.LineOffset())

	l7b := makeLine(0x33)
	fields, err = d.Decode(makeData(unit(0, 7, l7b)))
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(fields))

	field := fields[0]
	assert.Equal(t, teletext.FieldSize, len(field))
	assert.Equal(t, l7, row(field, 7))
	assert.Equal(t, l8, row(field, 8))
	// 其他行全部为0
	assert.Equal(t, make([]byte, teletext.FieldSize-2*teletext.LineSize), field[2*teletext.LineSize:])

	assert.Equal(t, uint8(0), d.FieldParity())
	assert.Equal(t, uint8(7), d.LineOffset())
	assert.Equal(t, uint64(1), d.Stat().FieldNum)
}

func TestDecoder_OneDecodeMultiField(t *testing.T) {
	d := teletext.NewDecoder()
	fields, err := d.Decode(makeData(
		unit(1, 7, makeLine(1)),
		unit(0, 7, makeLine(2)),
		unit(1, 7, makeLine(3)),
		unit(1, 22, makeLine(4)),
	))
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(fields))
	assert.Equal(t, makeLine(1), row(fields[0], 7))
	assert.Equal(t, makeLine(2), row(fields[1], 7))

	// 输出的field互相独立
	assert.Equal(t, false, &fields[0][0] == &fields[1][0])
}

func TestDecoder_InitialParity(t *testing.T) {
	// 初始field_parity为1，首个数据单元的parity为0时，先输出一个全0的field
	d := teletext.NewDecoder()
	fields, err := d.Decode(makeData(unit(0, 7, makeLine(1))))
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(fields))
	assert.Equal(t, make([]byte, teletext.FieldSize), fields[0])
}

func TestDecoder_NoFlushAtEnd(t *testing.T) {
	d := teletext.NewDecoder()
	var all [][]byte
	for lo := teletext.LineOffsetMin; lo <= teletext.LineOffsetMax; lo++ {
		fields, err := d.Decode(makeData(unit(1, lo, makeLine(lo))))
		assert.Equal(t, nil, err)
		all = append(all, fields...)
	}
	assert.Equal(t, 0, len(all))
	assert.Equal(t, uint64(16), d.Stat().TeletextUnitNum)
}

func TestDecoder_InvalidLineOffset(t *testing.T) {
	d := teletext.NewDecoder()
	_, _ = d.Decode(makeData(unit(1, 9, makeLine(9))))

	for _, lo := range []uint8{0, 6, 23, 31} {
		// parity不同，但line_offset非法，不会触发field输出
		fields, err := d.Decode(makeData(unit(0, lo, makeLine(lo))))
		assert.Equal(t, nil, err)
		assert.Equal(t, 0, len(fields))
		assert.Equal(t, uint8(9), d.LineOffset())
		assert.Equal(t, uint8(1), d.FieldParity())
	}
	assert.Equal(t, uint64(4), d.Stat().InvalidLineOffsetNum)

	fields, _ := d.Decode(makeData(unit(0, 7, makeLine(0))))
	assert.Equal(t, 1, len(fields))
	// 只有第9行有数据
	golden := make([]byte, teletext.FieldSize)
	copy(golden[2*teletext.LineSize:], makeLine(9))
	assert.Equal(t, golden, fields[0])
}

func TestDecoder_DecreasingLineOffset(t *testing.T) {
	d := teletext.NewDecoder()
	_, _ = d.Decode(makeData(unit(1, 10, makeLine(1)), unit(1, 8, makeLine(2)), unit(1, 10, makeLine(3))))
	assert.Equal(t, uint64(1), d.Stat().DecreasingLineOffsetNum)
	assert.Equal(t, uint8(10), d.LineOffset())

	fields, _ := d.Decode(makeData(unit(0, 7, makeLine(0))))
	assert.Equal(t, 1, len(fields))
	assert.Equal(t, makeLine(2), row(fields[0], 8))
	// 后写入的覆盖先写入的
	assert.Equal(t, makeLine(3), row(fields[0], 10))
}

func TestDecoder_SkipUnit(t *testing.T) {
	d := teletext.NewDecoder()

	stuffing := bytes.Repeat([]byte{0xFF}, teletext.DataUnitSize)
	nonSubtitle := teletext.PackDataUnit(teletext.DataUnitIdEbuTeletextNonSubtitle, 1, 12, makeLine(12))
	data := makeData(stuffing, unit(1, 7, makeLine(7)), nonSubtitle)
	// 末尾不完整的数据单元被丢弃
	data = append(data, unit(0, 8, makeLine(8))[:teletext.DataUnitSize-1]...)

	fields, err := d.Decode(data)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(fields))
	assert.Equal(t, uint64(2), d.Stat().TeletextUnitNum)
	assert.Equal(t, uint8(1), d.FieldParity())
	assert.Equal(t, uint8(12), d.LineOffset())
}

func TestDecoder_DataIdentifier(t *testing.T) {
	d := teletext.NewDecoder()

	_, err := d.Decode(nil)
	assert.Equal(t, base.ErrEmptyDataRegion, err)

	for _, id := range []uint8{0x00, 0x0F, 0x20, 0x99, 0xFF} {
		data := makeData(unit(0, 7, makeLine(7)))
		data[0] = id
		fields, err := d.Decode(data)
		assert.Equal(t, true, errors.Is(err, base.ErrNotEbuData))
		assert.Equal(t, 0, len(fields))
	}
	// 被忽略的PES不改变状态
	assert.Equal(t, uint8(1), d.FieldParity())
	assert.Equal(t, uint64(0), d.Stat().TeletextUnitNum)

	for _, id := range []uint8{0x10, 0x1F} {
		data := makeData(unit(1, 7, makeLine(7)))
		data[0] = id
		_, err := d.Decode(data)
		assert.Equal(t, nil, err)
	}
}

func TestDecoder_WithPes(t *testing.T) {
	d := teletext.NewDecoder()
	pes := teletext.PackPes([][]byte{unit(1, 7, makeLine(7)), unit(1, 8, makeLine(8)), unit(0, 7, makeLine(9))})
	p, err := mpegts.ParsePes(pes)
	assert.Equal(t, nil, err)
	fields, err := d.Decode(p.Data)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(fields))
	assert.Equal(t, makeLine(8), row(fields[0], 8))
}
