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
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/q191201771/naza/pkg/bele"
	"github.com/q191201771/naza/pkg/nazabytes"
)

// DumpFile 按读取时的切分，记录输入的原始数据，用于复现问题
//
// 每次 Write 写入一条消息：
// ver       [4B] 固定1
// typ       [4B] 见 DumpTypeXxx
// len       [4B] body长度
// timestamp [4B] unix时间戳，单位秒
// body
//
type DumpFile struct {
	file *os.File

	typ     uint32
	pending []byte // Read 时，上一条消息未读完的部分
}

const (
	DumpFileVer uint32 = 1

	DumpTypeTsChunk uint32 = 1
)

const dumpFileHeaderSize = 16

type DumpFileMessage struct {
	Ver       uint32
	Typ       uint32
	Len       uint32
	Timestamp uint32
	Body      []byte
}

func NewDumpFile() *DumpFile {
	return &DumpFile{
		typ: DumpTypeTsChunk,
	}
}

func (d *DumpFile) OpenToWrite(filename string) (err error) {
	dir := filepath.Dir(filename)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	d.file, err = os.Create(filename)
	return
}

func (d *DumpFile) OpenToRead(filename string) (err error) {
	d.file, err = os.Open(filename)
	return
}

// Write 写入一条消息，实现 io.Writer
//
func (d *DumpFile) Write(b []byte) (int, error) {
	if _, err := d.file.Write(d.pack(b)); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (d *DumpFile) ReadOneMessage() (m DumpFileMessage, err error) {
	m.Ver, err = bele.ReadBeUint32(d.file)
	if err != nil {
		return
	}
	m.Typ, err = bele.ReadBeUint32(d.file)
	if err != nil {
		return
	}
	m.Len, err = bele.ReadBeUint32(d.file)
	if err != nil {
		return
	}
	m.Timestamp, err = bele.ReadBeUint32(d.file)
	if err != nil {
		return
	}
	if m.Ver != DumpFileVer {
		err = fmt.Errorf("%w. ver=%d", ErrDumpFile, m.Ver)
		return
	}
	m.Body = make([]byte, m.Len)
	if _, err = io.ReadFull(d.file, m.Body); err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return
}

// Read 依次读取每条消息的body，实现 io.Reader。所有消息读取完后返回io.EOF
//
// 每次最多返回一条消息的body，也即读取到的切分与写入时一致（`b`足够大时）
//
func (d *DumpFile) Read(b []byte) (int, error) {
	if len(d.pending) == 0 {
		m, err := d.ReadOneMessage()
		if err != nil {
			return 0, err
		}
		d.pending = m.Body
	}
	n := copy(b, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *DumpFile) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// ---------------------------------------------------------------------------------------------------------------------

func (m *DumpFileMessage) DebugString() string {
	return fmt.Sprintf("ver: %d, typ: %d, len: %d, timestamp: %d, len: %d, hex: %s",
		m.Ver, m.Typ, m.Len, m.Timestamp, len(m.Body), hex.Dump(nazabytes.Prefix(m.Body, 16)))
}

// ---------------------------------------------------------------------------------------------------------------------

func (d *DumpFile) pack(b []byte) []byte {
	ret := make([]byte, len(b)+dumpFileHeaderSize)
	bele.BePutUint32(ret, DumpFileVer)
	bele.BePutUint32(ret[4:], d.typ)
	bele.BePutUint32(ret[8:], uint32(len(b)))
	bele.BePutUint32(ret[12:], uint32(time.Now().Unix()))
	copy(ret[16:], b)
	return ret
}
