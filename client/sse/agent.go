//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package sse is the HTTP transport of the client. It posts a run request
// and reads the response as Server-Sent Events, or as length-prefixed
// protobuf frames when that content type was negotiated.
package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"trpc.group/trpc-go/trpc-agui-go/client"
	"trpc.group/trpc-go/trpc-agui-go/encoding"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/log"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4 << 10

// Option configures an Agent.
type Option func(*options)

type options struct {
	header     http.Header
	accept     string
	httpClient *http.Client
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.header.Add(key, value)
	}
}

// WithAccept sets the Accept header. Use encoding.ContentTypeProtobuf to ask
// for protobuf frames.
func WithAccept(accept string) Option {
	return func(o *options) {
		o.accept = accept
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// Agent runs a remote AG-UI agent over HTTP.
type Agent struct {
	url  string
	opts options
}

var _ client.Agent = (*Agent)(nil)

// NewAgent creates an Agent posting to rawURL.
func NewAgent(rawURL string, opts ...Option) (*Agent, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, client.NewError(client.KindConfig, "invalid url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, client.NewError(client.KindConfig, fmt.Sprintf("invalid url %q", rawURL), nil)
	}
	o := options{
		header:     make(http.Header),
		accept:     encoding.ContentTypeSSE,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		return nil, client.NewError(client.KindConfig, "http client must not be nil", nil)
	}
	return &Agent{url: u.String(), opts: o}, nil
}

// Run posts input and streams the response events. The stream ends when
// the response body ends; read failures are delivered as the last item.
func (a *Agent) Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, client.NewError(client.KindSerialization, "encode run input", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, client.NewError(client.KindConfig, "build request", err)
	}
	for k, vs := range a.opts.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", a.opts.accept)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := a.opts.httpClient.Do(req)
	if err != nil {
		return nil, client.NewError(client.KindTransport, "post run", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, client.NewError(client.KindTransport,
			fmt.Sprintf("http status %d: %s", resp.StatusCode, bytes.TrimSpace(raw)), nil)
	}

	next := NewReader(resp.Body).Next
	if isProtobuf(resp.Header.Get("Content-Type")) {
		next = protoReader(resp.Body)
	}
	log.Debugf("sse: run %s: streaming %s", input.RunID, resp.Header.Get("Content-Type"))

	out := make(chan event.StreamItem)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		for {
			e, err := next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				event.Send(ctx, out, event.StreamItem{Err: classify(err)})
				return
			}
			if !event.Send(ctx, out, event.StreamItem{Event: e}) {
				return
			}
		}
	}()
	return out, nil
}

func protoReader(r io.Reader) func() (event.Event, error) {
	return func() (event.Event, error) {
		frame, err := encoding.ReadProtoFrame(r)
		if err != nil {
			return nil, err
		}
		return encoding.UnmarshalProto(frame)
	}
}

func isProtobuf(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == encoding.ContentTypeProtobuf
}

// classify wraps read failures that are not already typed as transport
// errors. Decode failures keep their serialization classification.
func classify(err error) error {
	var (
		de *event.DecodeError
		ee *encoding.Error
		tl *encoding.TooLargeError
	)
	switch {
	case errors.As(err, &de), errors.As(err, &tl):
		return client.NewError(client.KindSerialization, "decode event", err)
	case errors.As(err, &ee):
		if ee.Op == "read frame" {
			return client.NewError(client.KindTransport, "read body", err)
		}
		return client.NewError(client.KindSerialization, "decode event", err)
	}
	return client.NewError(client.KindTransport, "read body", err)
}
