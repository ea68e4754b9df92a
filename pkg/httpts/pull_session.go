// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package httpts 通过http(s)拉取TS流
package httpts

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/naza/pkg/nazaatomic"
	"github.com/q191201771/naza/pkg/nazaerrors"
)

type PullSessionOption struct {
	// ConnectTimeoutMs 建立连接以及等待http响应头的超时，单位毫秒，如果为0，则不设置超时
	//
	// 注意，读取body（也即TS数据）不设置超时，由上层通过 Dispose 结束
	//
	ConnectTimeoutMs int
}

var defaultPullSessionOption = PullSessionOption{
	ConnectTimeoutMs: 10000,
}

type ModPullSessionOption func(option *PullSessionOption)

// PullSession 拉取http-ts流。Pull 成功后，可以当成 io.ReadCloser 读取TS数据
//
type PullSession struct {
	UniqueKey string

	option PullSessionOption
	client *http.Client
	resp   *http.Response

	readBytes   nazaatomic.Uint64
	disposeOnce sync.Once
}

func NewPullSession(modOptions ...ModPullSessionOption) *PullSession {
	option := defaultPullSessionOption
	for _, fn := range modOptions {
		fn(&option)
	}

	timeout := time.Duration(option.ConnectTimeoutMs) * time.Millisecond
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}

	uk := base.GenUkHttpTsPullSession()
	Log.Infof("[%s] lifecycle new httpts PullSession. option=%+v", uk, option)
	return &PullSession{
		UniqueKey: uk,
		option:    option,
		client: &http.Client{
			Transport: transport,
		},
	}
}

// Pull 发送http请求，并检查响应状态码，成功后立即返回，不读取body
//
// @param rawUrl: 比如 http://127.0.0.1:8080/live/test.ts
//
// @param ctx: 取消后，正在进行中的请求以及后续的 Read 都会失败
//
func (session *PullSession) Pull(ctx context.Context, rawUrl string) error {
	Log.Debugf("[%s] > http request. GET %s", session.UniqueKey, rawUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawUrl, nil)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	req.Header.Set("User-Agent", base.Live2t42HttpTsPullSessionUa)
	req.Header.Set("Accept", "*/*")

	resp, err := session.client.Do(req)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	Log.Debugf("[%s] < http response. status=%s, content-type=%s", session.UniqueKey, resp.Status, resp.Header.Get("Content-Type"))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return base.NewErrHttpTsStatus(resp.StatusCode)
	}

	session.resp = resp
	return nil
}

// Read 读取TS数据，实现 io.Reader
//
func (session *PullSession) Read(b []byte) (int, error) {
	if session.resp == nil {
		return 0, base.ErrSessionNotStarted
	}
	n, err := session.resp.Body.Read(b)
	session.readBytes.Add(uint64(n))
	return n, err
}

// ReadBytes 已读取的字节数，可以在任意协程调用
//
func (session *PullSession) ReadBytes() uint64 {
	return session.readBytes.Load()
}

// Close 同 Dispose，实现 io.Closer
//
func (session *PullSession) Close() error {
	return session.Dispose()
}

// Dispose 可以在任意协程调用，用于打断阻塞中的 Read
//
func (session *PullSession) Dispose() error {
	var err error
	session.disposeOnce.Do(func() {
		Log.Infof("[%s] lifecycle dispose httpts PullSession. readBytes=%d", session.UniqueKey, session.readBytes.Load())
		if session.resp != nil {
			err = session.resp.Body.Close()
		}
	})
	return err
}
