// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import "github.com/q191201771/naza/pkg/unique"

const (
	UkPreTs2T42Remuxer     = "TS2T42"
	UkPreConverter         = "CONVERTER"
	UkPreHttpTsPullSession = "HTTPTSPULL"
	UkPreSrtPullSession    = "SRTPULL"
)

func GenUkTs2T42Remuxer() string {
	return siUkTs2T42Remuxer.GenUniqueKey()
}

func GenUkConverter() string {
	return siUkConverter.GenUniqueKey()
}

func GenUkHttpTsPullSession() string {
	return siUkHttpTsPullSession.GenUniqueKey()
}

func GenUkSrtPullSession() string {
	return siUkSrtPullSession.GenUniqueKey()
}

var (
	siUkTs2T42Remuxer     *unique.SingleGenerator
	siUkConverter         *unique.SingleGenerator
	siUkHttpTsPullSession *unique.SingleGenerator
	siUkSrtPullSession    *unique.SingleGenerator
)

func init() {
	siUkTs2T42Remuxer = unique.NewSingleGenerator(UkPreTs2T42Remuxer)
	siUkConverter = unique.NewSingleGenerator(UkPreConverter)
	siUkHttpTsPullSession = unique.NewSingleGenerator(UkPreHttpTsPullSession)
	siUkSrtPullSession = unique.NewSingleGenerator(UkPreSrtPullSession)
}
