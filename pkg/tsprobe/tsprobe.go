// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package tsprobe 解析PAT/PMT，找出承载teletext的PID
package tsprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astits"
	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/naza/pkg/nazalog"
)

var Log = nazalog.GetGlobalLogger()

type TeletextPage struct {
	Language string
	Type     uint8 // teletext_type，比如0x02表示字幕页
	Magazine uint8
	Page     uint8 // 十进制，已从BCD转换
	IsVbi    bool  // 来自VBI_teletext_descriptor
}

// Number 三位的页号，magazine为0时表示8，比如888
//
func (p TeletextPage) Number() int {
	m := int(p.Magazine)
	if m == 0 {
		m = 8
	}
	return m*100 + int(p.Page)
}

func (p TeletextPage) String() string {
	return fmt.Sprintf("%s/%d/type=%d", p.Language, p.Number(), p.Type)
}

type TeletextStream struct {
	ProgramNumber uint16
	Pid           uint16
	StreamType    uint8
	Pages         []TeletextPage
}

// Probe 读取TS流，直到所有节目的PMT都解析完成，或者读取了`maxPackets`个TS packet，或者输入结束
//
// @param maxPackets: 最多读取的TS packet数量，0表示不限制
//
// @return streams: 按PMT中的顺序排列。没有找到时返回 base.ErrTeletextNotFound
//
func Probe(ctx context.Context, r io.Reader, maxPackets int) (streams []TeletextStream, err error) {
	if maxPackets > 0 {
		r = io.LimitReader(r, int64(maxPackets)*base.TsPacketSize)
	}

	demuxer := astits.NewDemuxer(ctx, r)

	var pat *astits.PATData
	pmts := make(map[uint16]*astits.PMTData)
	for {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		d, err := demuxer.NextData()
		if err != nil {
			if errors.Is(err, astits.ErrNoMorePackets) {
				break
			}
			// 读取失败或者packet格式错误，探测直接结束，使用已经找到的结果
			Log.Warnf("probe ts failed. err=%+v", err)
			break
		}

		if d.PAT != nil {
			pat = d.PAT
			Log.Debugf("probe got pat. programs=%d", len(pat.Programs))
			continue
		}

		if d.PMT != nil {
			if _, exist := pmts[d.PMT.ProgramNumber]; exist {
				continue
			}
			pmts[d.PMT.ProgramNumber] = d.PMT
			streams = append(streams, teletextStreamsOfPmt(d.PMT)...)
			Log.Debugf("probe got pmt. program=%d, streams=%d", d.PMT.ProgramNumber, len(d.PMT.ElementaryStreams))

			if pat != nil && gotAllPmts(pat, pmts) {
				break
			}
		}
	}

	if len(streams) == 0 {
		return nil, base.ErrTeletextNotFound
	}
	return streams, nil
}

// ProbeAndReplay 与 Probe 相同，区别是探测过程中读取的数据都会保留下来
//
// @return replay: 先返回探测过程中读取的数据，再继续读取`r`，也即上层从`replay`读取到的就是完整的输入流
//
func ProbeAndReplay(ctx context.Context, r io.Reader, maxPackets int) (streams []TeletextStream, replay io.Reader, err error) {
	var probed bytes.Buffer
	streams, err = Probe(ctx, io.TeeReader(r, &probed), maxPackets)
	Log.Debugf("probe done. probed bytes=%d", probed.Len())
	return streams, io.MultiReader(&probed, r), err
}

func teletextStreamsOfPmt(pmt *astits.PMTData) (streams []TeletextStream) {
	for _, es := range pmt.ElementaryStreams {
		var pages []TeletextPage
		found := false
		for _, d := range es.ElementaryStreamDescriptors {
			switch {
			case d.Tag == astits.DescriptorTagTeletext && d.Teletext != nil:
				found = true
				pages = append(pages, teletextPages(d.Teletext, false)...)
			case d.Tag == astits.DescriptorTagVBITeletext && d.VBITeletext != nil:
				found = true
				pages = append(pages, teletextPages(d.VBITeletext, true)...)
			}
		}
		if !found {
			continue
		}

		s := TeletextStream{
			ProgramNumber: pmt.ProgramNumber,
			Pid:           es.ElementaryPID,
			StreamType:    uint8(es.StreamType),
			Pages:         pages,
		}
		Log.Infof("found teletext stream. program=%d, pid=0x%04x, pages=%v", s.ProgramNumber, s.Pid, s.Pages)
		streams = append(streams, s)
	}
	return
}

func teletextPages(d *astits.DescriptorTeletext, isVbi bool) (pages []TeletextPage) {
	for _, item := range d.Items {
		pages = append(pages, TeletextPage{
			Language: string(item.Language),
			Type:     item.Type,
			Magazine: item.Magazine,
			Page:     item.Page,
			IsVbi:    isVbi,
		})
	}
	return
}

func gotAllPmts(pat *astits.PATData, pmts map[uint16]*astits.PMTData) bool {
	for _, p := range pat.Programs {
		// program_number为0的是network_PID
		if p.ProgramNumber == 0 {
			continue
		}
		if _, ok := pmts[p.ProgramNumber]; !ok {
			return false
		}
	}
	return true
}
