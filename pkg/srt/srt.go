// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package srt 以caller模式连接srt服务端，拉取TS流
//
// 依赖libsrt（cgo）
package srt

import (
	"net/url"
	"strconv"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/naza/pkg/nazalog"
)

var Log = nazalog.GetGlobalLogger()

// 透传给srtgo的参数，url query中其他字段忽略
var passThroughOptions = []string{"streamid", "latency", "passphrase", "pbkeylen", "conntimeo"}

type UrlContext struct {
	RawUrl  string
	Host    string
	Port    uint16
	Options map[string]string
}

// ParseSrtUrl
//
// @param rawUrl: 比如 srt://127.0.0.1:6001?streamid=%23!::h=test110,m=request&latency=200 ，注意streamid中的#需要转义
//
func ParseSrtUrl(rawUrl string) (ctx UrlContext, err error) {
	ctx.RawUrl = rawUrl

	u, err := url.Parse(rawUrl)
	if err != nil {
		return ctx, base.NewErrSrtInvalidUrl(rawUrl, err.Error())
	}
	if u.Scheme != "srt" {
		return ctx, base.NewErrSrtInvalidUrl(rawUrl, "scheme")
	}

	ctx.Host = u.Hostname()
	if ctx.Host == "" {
		return ctx, base.NewErrSrtInvalidUrl(rawUrl, "host")
	}
	port, err := strconv.ParseUint(u.Port(), 10, 16)
	if err != nil || port == 0 {
		return ctx, base.NewErrSrtInvalidUrl(rawUrl, "port")
	}
	ctx.Port = uint16(port)

	ctx.Options = map[string]string{
		"mode":      "caller",
		"transtype": "live",
	}
	query := u.Query()
	for _, k := range passThroughOptions {
		if v := query.Get(k); v != "" {
			ctx.Options[k] = v
		}
	}
	return ctx, nil
}
