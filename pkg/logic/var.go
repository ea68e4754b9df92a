// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

import "github.com/q191201771/naza/pkg/nazalog"

var Log = nazalog.GetGlobalLogger()

// 计算输入码率的时间窗口
var inBitrateWindowMs = 5000

// 输出文件为空或者为该值时，写入stdout
const stdioFilename = "-"

// 使用 base.DumpFile 回放时的输入前缀
const tsDumpUrlPrefix = "tsdump://"
