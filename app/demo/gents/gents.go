// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/logic"
	"github.com/q191201771/live2t42/pkg/remux"
	"github.com/q191201771/naza/pkg/nazalog"
)

// 生成包含EBU teletext的TS文件，用于测试live2t42
//
// 不指定`-i`时，生成`-n`个field的测试数据，并将期望的T42输出写入`-g`。
// 指定`-i`时，将已有的T42文件重新封装成TS。
//
// 比如：
//   ./bin/gents -o test.ts -g test.t42 -n 100
//   ./bin/live2t42 -i test.ts -o out.t42
//   cmp test.t42 out.t42

func main() {
	_ = nazalog.Init(func(option *nazalog.Option) {
		option.AssertBehavior = nazalog.AssertFatal
	})
	defer nazalog.Sync()

	inT42, outTs, goldenT42, pidStr, fieldNum, page := parseFlag()

	pid, err := logic.ParsePid(pidStr)
	nazalog.Assert(nil, err)

	var fields [][]byte
	if inT42 != "" {
		content, err := os.ReadFile(inT42)
		nazalog.Assert(nil, err)
		for len(content) >= base.T42FieldSize {
			fields = append(fields, content[:base.T42FieldSize])
			content = content[base.T42FieldSize:]
		}
		if len(content) > 0 {
			nazalog.Warnf("drop trailing partial field. len=%d", len(content))
		}
	} else {
		for i := 0; i < fieldNum; i++ {
			fields = append(fields, makeField(i))
		}
	}

	packer := remux.NewT42ToTsPacker(pid, func(option *remux.T42ToTsPackerOption) {
		option.Page = page
	})
	var ts []byte
	var golden []byte
	for i, field := range fields {
		// 每25个field（半秒）插入一次PAT/PMT
		if i%25 == 0 {
			ts = append(ts, packer.PackPatPmt()...)
		}
		ts = append(ts, packer.PackField(field)...)
		golden = append(golden, field...)
	}
	ts = append(ts, packer.PackFlush()...)

	err = os.WriteFile(outTs, ts, 0666)
	nazalog.Assert(nil, err)
	nazalog.Infof("write ts succ. filename=%s, fields=%d, len=%d", outTs, len(fields), len(ts))

	if goldenT42 != "" {
		err = os.WriteFile(goldenT42, golden, 0666)
		nazalog.Assert(nil, err)
		nazalog.Infof("write golden t42 succ. filename=%s, len=%d", goldenT42, len(golden))
	}
}

// makeField 每行的第一个字节是行号，后面是field序号与列号组成的数据
func makeField(index int) []byte {
	field := make([]byte, base.T42FieldSize)
	for row := 0; row < base.T42FieldLineNum; row++ {
		line := field[row*base.T42LineSize : (row+1)*base.T42LineSize]
		line[0] = uint8(row + 7)
		for col := 1; col < base.T42LineSize; col++ {
			line[col] = uint8(index + col)
		}
	}
	return field
}

func parseFlag() (inT42, outTs, goldenT42, pid string, fieldNum int, page int) {
	i := flag.String("i", "", "specify input t42 file, optional")
	o := flag.String("o", "", "specify output ts file")
	g := flag.String("g", "", "specify golden t42 file, optional")
	p := flag.String("p", "0835", "specify teletext pid in hex")
	n := flag.Int("n", 100, "specify number of fields while -i not set")
	pg := flag.Int("page", 888, "specify teletext page in teletext_descriptor")
	flag.Parse()
	if *o == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  %s -o test.ts -g test.t42 -n 100
  %s -i in.t42 -o out.ts -p 0835
`, os.Args[0], os.Args[0])
		base.OsExitAndWaitPressIfWindows(1)
	}
	return *i, *o, *g, *p, *n, *pg
}
