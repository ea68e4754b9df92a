// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/mpegts"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazajson"
	"github.com/q191201771/naza/pkg/nazalog"
)

type Config struct {
	// InputUrl 支持 http(s)://, srt://, 本地文件路径, 以及"-"表示stdin
	InputUrl string `json:"input_url"`

	// Pid 十六进制，比如"0835"或"0x0835"。为空时自动探测
	Pid string `json:"pid"`

	// OutputFilename 为空或"-"时写入stdout
	OutputFilename string `json:"output_filename"`

	// DumpFilename 不为空时，将读取到的原始输入按读取时的切分记录到该文件中，之后可以通过 tsdump://<DumpFilename> 回放
	DumpFilename string `json:"dump_filename"`

	MaxPesSize           int `json:"max_pes_size"`
	OutChanSize          int `json:"out_chan_size"`
	ReadBufSize          int `json:"read_buf_size"`
	ProgressFieldNum     int `json:"progress_field_num"`
	ProbeMaxPackets      int `json:"probe_max_packets"`
	HttpConnectTimeoutMs int `json:"http_connect_timeout_ms"`

	LogConfig nazalog.Option `json:"log"`
}

// LoadConfFromFile
//
// @param confFile: 为空时全部使用默认值
//
func LoadConfFromFile(confFile string) (*Config, error) {
	if confFile == "" {
		return LoadConf([]byte("{}"))
	}
	rawContent, err := os.ReadFile(confFile)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	return LoadConf(rawContent)
}

// LoadConf 解析json格式的配置，没有配置的字段使用默认值
//
func LoadConf(rawContent []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(rawContent, &config); err != nil {
		return nil, nazaerrors.Wrap(err)
	}

	j, err := nazajson.New(rawContent)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}

	if !j.Exist("max_pes_size") {
		config.MaxPesSize = base.DefaultMaxPesSize
	}
	if !j.Exist("out_chan_size") {
		config.OutChanSize = base.DefaultOutChanSize
	}
	if !j.Exist("read_buf_size") {
		config.ReadBufSize = base.DefaultReadBufSize
	}
	if !j.Exist("progress_field_num") {
		config.ProgressFieldNum = base.DefaultProgressFieldNum
	}
	if !j.Exist("probe_max_packets") {
		config.ProbeMaxPackets = base.DefaultProbeMaxPackets
	}
	if !j.Exist("http_connect_timeout_ms") {
		config.HttpConnectTimeoutMs = 10000
	}

	if !j.Exist("log.level") {
		config.LogConfig.Level = nazalog.LevelInfo
	}
	if !j.Exist("log.filename") {
		config.LogConfig.Filename = "./logs/live2t42.log"
	}
	// T42数据可能写入stdout，所以默认日志不输出到stdout
	if !j.Exist("log.is_to_stdout") {
		config.LogConfig.IsToStdout = false
	}
	if !j.Exist("log.is_rotate_daily") {
		config.LogConfig.IsRotateDaily = true
	}
	if !j.Exist("log.short_file_flag") {
		config.LogConfig.ShortFileFlag = true
	}
	if !j.Exist("log.assert_behavior") {
		config.LogConfig.AssertBehavior = nazalog.AssertError
	}

	if err = config.Check(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Check 检查配置项的合法性。修改配置后（比如使用命令行参数覆盖），需要重新调用
//
func (c *Config) Check() error {
	if c.Pid != "" {
		if _, err := ParsePid(c.Pid); err != nil {
			return err
		}
	}
	if c.MaxPesSize < 0 {
		return base.NewErrConfig("max_pes_size", c.MaxPesSize)
	}
	if c.OutChanSize < 0 {
		return base.NewErrConfig("out_chan_size", c.OutChanSize)
	}
	if c.ReadBufSize <= 0 {
		return base.NewErrConfig("read_buf_size", c.ReadBufSize)
	}
	if c.ProgressFieldNum < 0 {
		return base.NewErrConfig("progress_field_num", c.ProgressFieldNum)
	}
	if c.ProbeMaxPackets < 0 {
		return base.NewErrConfig("probe_max_packets", c.ProbeMaxPackets)
	}
	return nil
}

// IsOutputStdout T42数据是否写入stdout
//
func (c *Config) IsOutputStdout() bool {
	return c.OutputFilename == "" || c.OutputFilename == stdioFilename
}

// ParsePid 解析十六进制的PID，"0835"、"0x0835"、"0X835"都表示0x835
//
func ParsePid(s string) (uint16, error) {
	v := strings.TrimSpace(s)
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		v = v[2:]
	}
	pid, err := strconv.ParseUint(v, 16, 16)
	if err != nil || uint16(pid) > mpegts.PidMax {
		return 0, base.NewErrInvalidPid(s)
	}
	return uint16(pid), nil
}
