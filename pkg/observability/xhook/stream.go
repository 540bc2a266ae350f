package xhook

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// lineWriter 把每次 Write 的内容（去掉末尾空白）作为一条记录上报
type lineWriter struct {
	router   *Router
	kind     Kind
	level    xlog.Level
	codepath string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.emit(string(p))
	return len(p), nil
}

func (w *lineWriter) emit(text string) {
	text = strings.TrimRight(text, " \t\r\n")
	if text == "" {
		return
	}
	w.router.report(context.Background(), Event{
		Kind:     w.kind,
		Level:    w.level,
		Codepath: w.codepath,
		Message:  text,
	})
}

// streamBufSize 管道读缓冲大小
const streamBufSize = 64 * 1024

// pipeRedirect 用管道替换一个 *os.File 变量，后台逐行读取
type pipeRedirect struct {
	target **os.File
	prev   *os.File
	w      *os.File
	done   chan struct{}
}

func (r *Router) redirect(target **os.File, kind Kind, level xlog.Level, codepath string) (*pipeRedirect, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("xhook: redirect %s: %w", codepath, err)
	}
	p := &pipeRedirect{target: target, prev: *target, w: pw, done: make(chan struct{})}
	lw := &lineWriter{router: r, kind: kind, level: level, codepath: codepath}

	go func() {
		defer close(p.done)
		defer pr.Close()
		reader := bufio.NewReaderSize(pr, streamBufSize)
		for {
			line, err := reader.ReadString('\n')
			lw.emit(line)
			if err != nil {
				if err != io.EOF {
					// 读端异常后继续排空，写端不能因管道满而阻塞
					_, _ = io.Copy(io.Discard, pr)
				}
				return
			}
		}
	}()

	*target = pw
	return p, nil
}

// restore 恢复原来的文件并等待剩余内容上报完
func (p *pipeRedirect) restore() {
	*p.target = p.prev
	_ = p.w.Close()
	<-p.done
}

func (r *Router) redirectStdStreams() (func(), error) {
	var once sync.Once
	out, err := r.redirect(&os.Stdout, KindStdout, xlog.LevelWarning, CodepathStdout)
	if err != nil {
		return nil, err
	}
	errp, err := r.redirect(&os.Stderr, KindStderr, xlog.LevelError, CodepathStderr)
	if err != nil {
		out.restore()
		return nil, err
	}
	return func() {
		once.Do(func() {
			errp.restore()
			out.restore()
		})
	}, nil
}
