/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIsClientGone(t *testing.T) {
	Convey("Given write errors", t, func() {
		So(isClientGone(io.ErrClosedPipe), ShouldBeTrue)
		So(isClientGone(fmt.Errorf("write: %w", io.ErrClosedPipe)), ShouldBeTrue)
		So(isClientGone(errors.New("write tcp 127.0.0.1:8080: broken pipe")), ShouldBeTrue)
		So(isClientGone(errors.New("read: connection reset by peer")), ShouldBeTrue)
		So(isClientGone(errors.New("template: no such file")), ShouldBeFalse)
	})
}

func TestReport(t *testing.T) {
	Convey("Given a full error channel", t, func() {
		errs := make(chan error, 1)
		report(errs, errors.New("first"))

		Convey("Then reporting again does not block", func() {
			done := make(chan struct{})
			go func() {
				report(errs, errors.New("second"))
				close(done)
			}()

			blocked := true
			select {
			case <-done:
				blocked = false
			case <-time.After(time.Second):
			}
			So(blocked, ShouldBeFalse)
			So((<-errs).Error(), ShouldEqual, "first")
		})
	})
}

func TestLogErrors(t *testing.T) {
	Convey("Given the error drain", t, func() {
		var buf bytes.Buffer
		cfg := validConfig()
		cfg.logJSON = true
		configureLogging(cfg)
		log.SetOutput(&buf)
		Reset(func() { configureLogging(validConfig()) })

		ctx, cancel := context.WithCancel(context.Background())
		errs := make(chan error)
		stopped := make(chan struct{})
		go func() {
			logErrors(ctx, cfg, errs)
			close(stopped)
		}()

		Convey("When a handler fails", func() {
			errs <- errors.New("asset missing")
			errs <- errors.New("broken pipe")
			cancel()
			<-stopped

			Convey("Then real failures are logged as json", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"level":"error"`)
				So(out, ShouldContainSubstring, "asset missing")
			})

			Convey("Then disconnects stay quiet unless verbose", func() {
				So(strings.Contains(buf.String(), "broken pipe"), ShouldBeFalse)
			})
		})
	})
}

func TestMetricsNil(t *testing.T) {
	Convey("Given no metrics", t, func() {
		var m *Metrics

		So(func() {
			m.ladderGenerated(4)
			m.drawn()
			m.sessionOpened()
			m.sessionClosed()
			m.clientConnected()
			m.clientDisconnected()
		}, ShouldNotPanic)
	})
}
