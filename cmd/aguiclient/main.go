//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Command aguiclient sends one message to an AG-UI endpoint and prints the
// streamed reply.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agui-go/client"
	"trpc.group/trpc-go/trpc-agui-go/client/sse"
	"trpc.group/trpc-go/trpc-agui-go/encoding"
	"trpc.group/trpc-go/trpc-agui-go/log"
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/middleware/toolfilter"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

type flags struct {
	url        string
	message    string
	threadID   string
	headers    map[string]string
	allowTools []string
	blockTools []string
	protobuf   bool
	noVerify   bool
	state      string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:          "aguiclient",
		Short:        "Run an AG-UI agent once and print its reply",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.SetLevel(f.logLevel)
			res, err := run(cmd.Context(), f, out)
			if err != nil {
				return err
			}
			if res.RunError != nil {
				return fmt.Errorf("agent reported %s: %s", res.RunError.Code, res.RunError.Message)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&f.url, "url", "u", "http://localhost:8080/", "AG-UI endpoint")
	fs.StringVarP(&f.message, "message", "m", "", "user message to send")
	fs.StringVar(&f.threadID, "thread", "", "thread id, random when empty")
	fs.StringToStringVarP(&f.headers, "header", "H", nil, "extra request headers as key=value")
	fs.StringSliceVar(&f.allowTools, "allow-tool", nil, "only keep calls to these tools")
	fs.StringSliceVar(&f.blockTools, "block-tool", nil, "drop calls to these tools")
	fs.BoolVar(&f.protobuf, "proto", false, "ask for the protobuf encoding")
	fs.BoolVar(&f.noVerify, "no-verify", false, "skip protocol verification")
	fs.StringVar(&f.state, "state", "", "initial state as a JSON object")
	fs.StringVar(&f.logLevel, "log-level", "warn", "log level")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func run(ctx context.Context, f *flags, out io.Writer) (*client.RunResult[map[string]any], error) {
	var agentOpts []sse.Option
	for k, v := range f.headers {
		agentOpts = append(agentOpts, sse.WithHeader(k, v))
	}
	if f.protobuf {
		agentOpts = append(agentOpts, sse.WithAccept(encoding.ContentTypeProtobuf))
	}
	agent, err := sse.NewAgent(f.url, agentOpts...)
	if err != nil {
		return nil, err
	}

	runnerOpts, err := runnerOptions(f)
	if err != nil {
		return nil, err
	}
	r, err := client.NewRunner[map[string]any](agent, runnerOpts...)
	if err != nil {
		return nil, err
	}
	params := client.RunParams[map[string]any]{
		Messages: []model.Message{model.NewUserMessage(model.NewMessageID(), f.message)},
		State:    map[string]any{},
	}
	if f.state != "" {
		if err := json.Unmarshal([]byte(f.state), &params.State); err != nil {
			return nil, client.NewError(client.KindConfig, "parse --state", err)
		}
	}
	return r.Run(ctx, params, newPrinter(out))
}

func runnerOptions(f *flags) ([]client.Option, error) {
	var opts []client.Option
	if f.threadID != "" {
		opts = append(opts, client.WithThreadID(model.ThreadIDFrom(f.threadID)))
	}
	if f.noVerify {
		opts = append(opts, client.WithoutVerification())
	}
	var filterOpts []toolfilter.Option
	if len(f.allowTools) > 0 {
		filterOpts = append(filterOpts, toolfilter.WithAllowed(f.allowTools...))
	}
	if len(f.blockTools) > 0 {
		filterOpts = append(filterOpts, toolfilter.WithBlocked(f.blockTools...))
	}
	filter, err := toolfilter.New(filterOpts...)
	if err != nil {
		return nil, client.NewError(client.KindConfig, "tool filter", err)
	}
	opts = append(opts, client.WithTransformers(middleware.ExpandChunks(), filter))
	return opts, nil
}
