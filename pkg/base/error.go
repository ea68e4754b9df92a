// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"errors"
	"fmt"
)

// ----- 通用的 ---------------------------------------------------------------------------------------------------------

var (
	ErrInvalidPid        = errors.New("live2t42: invalid pid")
	ErrSessionNotStarted = errors.New("live2t42: session has not been started yet")
)

var ErrDumpFile = errors.New("live2t42: invalid dump file")

func NewErrInvalidPid(pid string) error {
	return fmt.Errorf("%w. pid=%s", ErrInvalidPid, pid)
}

// ----- pkg/mpegts ----------------------------------------------------------------------------------------------------

var (
	ErrPesTooShort        = errors.New("live2t42.mpegts: pes too short")
	ErrPesMissingHeader   = errors.New("live2t42.mpegts: missing pes header")
	ErrPesInvalidStreamId = errors.New("live2t42.mpegts: invalid stream id")
	ErrPesTruncated       = errors.New("live2t42.mpegts: pes truncated")
)

func NewErrPesTooShort(actual int) error {
	return fmt.Errorf("%w. need=9, actual=%d", ErrPesTooShort, actual)
}

func NewErrPesMissingHeader(prefix uint32) error {
	return fmt.Errorf("%w. prefix=0x%06x", ErrPesMissingHeader, prefix)
}

func NewErrPesInvalidStreamId(sid uint8) error {
	return fmt.Errorf("%w. sid=0x%02x", ErrPesInvalidStreamId, sid)
}

func NewErrPesTruncated(start, end, actual int) error {
	return fmt.Errorf("%w. start=%d, end=%d, actual=%d", ErrPesTruncated, start, end, actual)
}

// ----- pkg/teletext --------------------------------------------------------------------------------------------------

var (
	ErrEmptyDataRegion = errors.New("live2t42.teletext: empty data region")
	ErrNotEbuData      = errors.New("live2t42.teletext: not ebu teletext data")
)

func NewErrNotEbuData(dataIdentifier uint8) error {
	return fmt.Errorf("%w. data_identifier=0x%02x", ErrNotEbuData, dataIdentifier)
}

// ----- pkg/remux -----------------------------------------------------------------------------------------------------

// ErrPesBufferOverflow 驱动层的保护，不属于PES解析本身的错误
var ErrPesBufferOverflow = errors.New("live2t42.remux: pes buffer overflow")

func NewErrPesBufferOverflow(size, max int) error {
	return fmt.Errorf("%w. size=%d, max=%d", ErrPesBufferOverflow, size, max)
}

// ----- pkg/httpts ----------------------------------------------------------------------------------------------------

var ErrHttpTsStatus = errors.New("live2t42.httpts: unexpected http status")

func NewErrHttpTsStatus(code int) error {
	return fmt.Errorf("%w. code=%d", ErrHttpTsStatus, code)
}

// ----- pkg/srt -------------------------------------------------------------------------------------------------------

var ErrSrtInvalidUrl = errors.New("live2t42.srt: invalid url")

func NewErrSrtInvalidUrl(rawUrl string, reason string) error {
	return fmt.Errorf("%w. url=%s, reason=%s", ErrSrtInvalidUrl, rawUrl, reason)
}

// ----- pkg/tsprobe ---------------------------------------------------------------------------------------------------

var ErrTeletextNotFound = errors.New("live2t42.tsprobe: teletext stream not found")

// ----- pkg/logic -----------------------------------------------------------------------------------------------------

var ErrConfig = errors.New("live2t42.logic: invalid config")

func NewErrConfig(field string, value interface{}) error {
	return fmt.Errorf("%w. %s=%v", ErrConfig, field, value)
}

// ---------------------------------------------------------------------------------------------------------------------
