// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package teletext

import (
	"github.com/q191201771/live2t42/pkg/base"
)

type DecoderStat struct {
	TeletextUnitNum         uint64 // data_unit_id为teletext，并且line_offset合法的数据单元
	InvalidLineOffsetNum    uint64
	DecreasingLineOffsetNum uint64
	FieldNum                uint64 // 已输出的field
}

// Decoder 将teletext行写入当前field，field_parity变化时输出整个field
//
// 一个Decoder对应一路流，状态在整个生命周期内保持，多路流需要各自创建。
//
// 注意：
//   - 只有field_parity变化才会输出，输入结束时正在拼装的field不会输出
//   - 同一个field内line_offset变小时只打印日志，数据仍然写入对应的行
//
type Decoder struct {
	fieldParity uint8
	lineOffset  uint8
	field       []byte

	stat DecoderStat
}

func NewDecoder() *Decoder {
	return &Decoder{
		fieldParity: 1,
		field:       make([]byte, FieldSize),
	}
}

// Decode
//
// @param data: PES的数据区，以data_identifier开头。函数调用结束后，内部不持有
//
// @return fields: 0个或多个完整的field，每个长度为672字节，所有权交给上层
//
// @return err: base.ErrEmptyDataRegion 或 base.ErrNotEbuData，此时整个PES被忽略
//
func (d *Decoder) Decode(data []byte) (fields [][]byte, err error) {
	if len(data) < 1 {
		return nil, base.ErrEmptyDataRegion
	}
	if data[0] < DataIdentifierEbuMin || data[0] > DataIdentifierEbuMax {
		return nil, base.NewErrNotEbuData(data[0])
	}

	for i := 1; i+DataUnitSize <= len(data); i += DataUnitSize {
		unit := data[i : i+DataUnitSize]
		if unit[0] != DataUnitIdEbuTeletextNonSubtitle && unit[0] != DataUnitIdEbuTeletextSubtitle {
			continue
		}

		// 跳过data_unit_id和data_unit_length
		dataField := unit[2:]
		if len(dataField) < DataFieldSize {
			continue
		}

		fp := (dataField[0] >> 5) & 1
		lo := dataField[0] & 0x1F
		if lo < LineOffsetMin || lo > LineOffsetMax {
			d.stat.InvalidLineOffsetNum++
			Log.Warnf("invalid line offset. lo=%d", lo)
			continue
		}
		d.stat.TeletextUnitNum++

		if fp != d.fieldParity {
			fields = append(fields, d.field)
			d.stat.FieldNum++
			d.fieldParity = fp
			d.field = make([]byte, FieldSize)
			d.lineOffset = 0
		}

		if lo < d.lineOffset {
			d.stat.DecreasingLineOffsetNum++
			Log.Warnf("line offset decreased. from=%d, to=%d", d.lineOffset, lo)
		}

		row := d.field[int(lo-LineOffsetMin)*LineSize:]
		for j := 0; j < LineSize; j++ {
			row[j] = ReverseBits(dataField[2+j])
		}
		d.lineOffset = lo
	}
	return fields, nil
}

// FieldParity 当前正在拼装的field的field_parity
//
func (d *Decoder) FieldParity() uint8 {
	return d.fieldParity
}

// LineOffset 最后一次写入的line_offset，field切换后为0
//
func (d *Decoder) LineOffset() uint8 {
	return d.lineOffset
}

func (d *Decoder) Stat() DecoderStat {
	return d.stat
}
