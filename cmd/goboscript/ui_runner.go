package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"goboscript/internal/buildpipeline"
	"goboscript/internal/ui"
)

type buildOutcome struct {
	result buildpipeline.BuildResult
	err    error
}

// runBuildWithUI runs the build under the progress UI. Diagnostics are held
// back until the UI has exited so they do not tear its frame.
func runBuildWithUI(ctx context.Context, title string, files []string, req *buildpipeline.BuildRequest) (buildpipeline.BuildResult, error) {
	if req == nil {
		return buildpipeline.BuildResult{}, fmt.Errorf("missing build request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	var held bytes.Buffer
	out := req.Out
	if out == nil {
		out = os.Stderr
	}

	go func() {
		reqCopy := *req
		reqCopy.Out = &held
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Build(ctx, &reqCopy)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// UI мог выйти раньше сборки — дочитываем события, чтобы она не встала на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if _, err := io.Copy(out, &held); err != nil && outcome.err == nil {
		outcome.err = err
	}
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
