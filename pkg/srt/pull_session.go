// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package srt

import (
	"errors"
	"io"
	"sync"

	"github.com/haivision/srtgo"
	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/naza/pkg/nazaatomic"
	"github.com/q191201771/naza/pkg/nazaerrors"
)

// PullSession Pull 成功后，可以当成 io.ReadCloser 读取TS数据
//
type PullSession struct {
	UniqueKey string

	urlCtx UrlContext
	socket *srtgo.SrtSocket

	readBytes   nazaatomic.Uint64
	disposeOnce sync.Once
}

func NewPullSession() *PullSession {
	uk := base.GenUkSrtPullSession()
	Log.Infof("[%s] lifecycle new srt PullSession.", uk)
	return &PullSession{
		UniqueKey: uk,
	}
}

// Pull 阻塞直到连接成功或失败
//
func (session *PullSession) Pull(rawUrl string) error {
	urlCtx, err := ParseSrtUrl(rawUrl)
	if err != nil {
		return err
	}
	session.urlCtx = urlCtx

	Log.Debugf("[%s] > srt connect. host=%s, port=%d, options=%+v", session.UniqueKey, urlCtx.Host, urlCtx.Port, urlCtx.Options)
	socket := srtgo.NewSrtSocket(urlCtx.Host, urlCtx.Port, urlCtx.Options)
	if socket == nil {
		return base.NewErrSrtInvalidUrl(rawUrl, "create socket failed")
	}
	if err = socket.Connect(); err != nil {
		socket.Close()
		return nazaerrors.Wrap(err)
	}
	Log.Debugf("[%s] < srt connected.", session.UniqueKey)

	session.socket = socket
	return nil
}

// Read 实现 io.Reader。对端断开时返回 io.EOF
//
func (session *PullSession) Read(b []byte) (int, error) {
	if session.socket == nil {
		return 0, base.ErrSessionNotStarted
	}
	n, err := session.socket.Read(b)
	session.readBytes.Add(uint64(n))
	if err != nil && errors.Is(err, srtgo.EConnLost) {
		Log.Infof("[%s] srt connection lost. readBytes=%d", session.UniqueKey, session.readBytes.Load())
		return n, io.EOF
	}
	return n, err
}

// ReadBytes 已读取的字节数，可以在任意协程调用
//
func (session *PullSession) ReadBytes() uint64 {
	return session.readBytes.Load()
}

func (session *PullSession) Close() error {
	return session.Dispose()
}

func (session *PullSession) Dispose() error {
	session.disposeOnce.Do(func() {
		Log.Infof("[%s] lifecycle dispose srt PullSession. readBytes=%d", session.UniqueKey, session.readBytes.Load())
		if session.socket != nil {
			session.socket.Close()
		}
	})
	return nil
}
