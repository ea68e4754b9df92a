// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

const growRoundThreshold = 1048576 // 1MB

// Buffer 可扩容的拼接buffer，只追加写，整体读，读完后 Reset
//
// 用于两处：
//   - ts demuxer中，缓存输入数据末尾不足188字节的部分，等待下次输入拼接
//   - pes accumulator中，拼接属于同一个PES的多个TS payload
//
// 写入
//   n, err := Write(buf)
//
// 读取
//   buf := Bytes()
//   ... // 使用buf的内容
//   Reset()
//
type Buffer struct {
	core []byte
	wpos int
}

func NewBuffer(initCap int) *Buffer {
	return &Buffer{
		core: make([]byte, initCap),
	}
}

// Bytes Buffer中所有数据，不拷贝
//
// 注意，返回的切片在下一次Write、Reset之后可能失效
//
func (b *Buffer) Bytes() []byte {
	if b.wpos == 0 {
		return nil
	}
	return b.core[:b.wpos]
}

// Write 拷贝，实现io.Writer接口，不会返回错误
//
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.grow(len(p))
	n = copy(b.core[b.wpos:], p)
	b.wpos += n
	return n, nil
}

// Reset 清空数据
//
// 注意，并不会释放内存块，PES长度一般比较稳定，内存块可以复用
//
func (b *Buffer) Reset() {
	b.wpos = 0
}

func (b *Buffer) Len() int {
	return b.wpos
}

// grow 确保至少有`n`大小的空间可写
func (b *Buffer) grow(n int) {
	if len(b.core)-b.wpos >= n {
		return
	}

	needed := b.wpos + n
	if needed < growRoundThreshold {
		needed = roundUpPowerOfTwo(needed)
	}

	core := make([]byte, needed)
	copy(core, b.core[:b.wpos])
	b.core = core
}

func roundUpPowerOfTwo(n int) int {
	if n <= 2 {
		return 2
	}

	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
