// Copyright 2025, Chef.  All rights reserved.
// https://github.com/q191201771/live2t42
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package httpts_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/q191201771/live2t42/pkg/base"
	"github.com/q191201771/live2t42/pkg/httpts"
	"github.com/q191201771/naza/pkg/assert"
)

func TestPullSession(t *testing.T) {
	content := make([]byte, 188*10)
	for i := range content {
		content[i] = uint8(i)
	}

	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.UserAgent()
		if r.URL.Path != "/live/test.ts" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "video/mp2t")
		_, _ = w.Write(content)
	}))
	defer srv.Close()

	session := httpts.NewPullSession(func(option *httpts.PullSessionOption) {
		option.ConnectTimeoutMs = 1000
	})
	err := session.Pull(context.Background(), srv.URL+"/live/test.ts")
	assert.Equal(t, nil, err)
	assert.Equal(t, base.Live2t42HttpTsPullSessionUa, ua)

	b, err := io.ReadAll(session)
	assert.Equal(t, nil, err)
	assert.Equal(t, content, b)
	assert.Equal(t, nil, session.Dispose())
	// 重复调用
	assert.Equal(t, nil, session.Close())

	session = httpts.NewPullSession()
	err = session.Pull(context.Background(), srv.URL+"/live/notexist.ts")
	assert.Equal(t, true, errors.Is(err, base.ErrHttpTsStatus))
	_, err = session.Read(make([]byte, 188))
	assert.Equal(t, base.ErrSessionNotStarted, err)
}

func TestPullSession_DisposeWhileReading(t *testing.T) {
	content := make([]byte, 188*10)
	stop := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp2t")
		_, _ = w.Write(content)
		w.(http.Flusher).Flush()
		// 模拟直播流，后续没有数据
		select {
		case <-stop:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(stop)

	session := httpts.NewPullSession()
	err := session.Pull(context.Background(), srv.URL+"/live/test.ts")
	assert.Equal(t, nil, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := io.Copy(io.Discard, session)
		errCh <- err
	}()

	for i := 0; session.ReadBytes() < uint64(len(content)) && i < 500; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, uint64(len(content)), session.ReadBytes())
	assert.Equal(t, nil, session.Dispose())

	select {
	case err := <-errCh:
		assert.IsNotNil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("read not return after dispose")
	}
	assert.Equal(t, uint64(len(content)), session.ReadBytes())
}
