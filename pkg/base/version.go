// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

// 版本信息相关
// 一部分版本信息使用了naza.bininfo，另外一些信息在本文件提供

// Live2t42Version 整个工程的版本号。注意，该变量由外部脚本修改维护，不要手动在代码中修改
//
const Live2t42Version = "v0.1.0"

var (
	Live2t42LibraryName = "live2t42"
	Live2t42GithubRepo  = "github.com/q191201771/live2t42"
	Live2t42GithubSite  = "https://github.com/q191201771/live2t42"

	// Live2t42FullInfo e.g. live2t42 v0.1.0 (github.com/q191201771/live2t42)
	Live2t42FullInfo = Live2t42LibraryName + " " + Live2t42Version + " (" + Live2t42GithubRepo + ")"

	// Live2t42HttpTsPullSessionUa e.g. live2t42/0.1.0
	Live2t42HttpTsPullSessionUa = Live2t42LibraryName + "/" + Live2t42Version[1:]
)
