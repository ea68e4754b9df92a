// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package logic 配置加载，输入输出的打开，以及串联整个转换流程的 Converter
package logic

import "io"

var (
	_ io.WriteCloser = nopWriteCloser{}
	_ io.ReadCloser  = &onceCloser{}
)
