package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls [][2]string
	err   error
}

func (f *fakeFetcher) Download(_ context.Context, fileID, output string) (int64, error) {
	f.calls = append(f.calls, [2]string{fileID, output})
	return 42, f.err
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestDefaultRegistryRunsImportData(t *testing.T) {
	f := &fakeFetcher{}
	reg := Default(f, nil, quietLogger())
	params := Params{ParamDriveFileID: " abc ", ParamDriveOutputPath: "data/01_raw/x.csv"}

	require.NoError(t, reg.Run(context.Background(), "", params))
	require.NoError(t, reg.Run(context.Background(), "import_data", params))
	assert.Equal(t, [][2]string{{"abc", "data/01_raw/x.csv"}, {"abc", "data/01_raw/x.csv"}}, f.calls)
	assert.Equal(t, []string{DefaultName, "import_data", "import_local"}, reg.Names())
}

func TestRunImportLocal(t *testing.T) {
	var got [2]string
	cp := func(src, dst string) (int64, error) {
		got = [2]string{src, dst}
		return 7, nil
	}
	reg := Default(&fakeFetcher{}, cp, quietLogger())
	err := reg.Run(context.Background(), "import_local", Params{ParamLocalSource: "in.csv", ParamLocalDestination: "out/in.csv"})
	require.NoError(t, err)
	assert.Equal(t, [2]string{"in.csv", "out/in.csv"}, got)
}

func TestRunMissingParamsFailsBeforeIO(t *testing.T) {
	f := &fakeFetcher{}
	reg := Default(f, nil, quietLogger())
	err := reg.Run(context.Background(), "import_data", Params{ParamDriveFileID: "abc", ParamDriveOutputPath: "  "})
	require.ErrorIs(t, err, ErrMissingParam)
	assert.Contains(t, err.Error(), ParamDriveOutputPath)
	assert.Empty(t, f.calls)
}

func TestRunUnknownPipeline(t *testing.T) {
	reg := Default(&fakeFetcher{}, nil, quietLogger())
	err := reg.Run(context.Background(), "train_model", Params{})
	require.ErrorIs(t, err, ErrUnknownPipeline)
	assert.Contains(t, err.Error(), "import_local")
}

func TestRunStopsOnNodeError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	reg := NewRegistry(quietLogger())
	reg.Register(Pipeline{Name: "p", Nodes: []Node{
		{Name: "a", Run: func(context.Context, Params) error { ran = append(ran, "a"); return boom }},
		{Name: "b", Run: func(context.Context, Params) error { ran = append(ran, "b"); return nil }},
	}})
	err := reg.Run(context.Background(), "p", nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "node a")
	assert.Equal(t, []string{"a"}, ran)
}

func TestRunCanceled(t *testing.T) {
	f := &fakeFetcher{}
	reg := Default(f, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := reg.Run(ctx, "import_data", Params{ParamDriveFileID: "a", ParamDriveOutputPath: "b"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.calls)
}

func TestPipelineInputsDeduplicated(t *testing.T) {
	p := Pipeline{Nodes: []Node{{Inputs: []string{"x", "y"}}, {Inputs: []string{"y", "z"}}}}
	assert.Equal(t, []string{"x", "y", "z"}, p.Inputs())
	assert.Equal(t, []string{"y"}, Params{"x": "1", "z": "2"}.Missing("x", "y", "z"))
}

func TestBuiltinsAcceptNilLogger(t *testing.T) {
	reg := NewRegistry(quietLogger())
	reg.Register(ImportData(&fakeFetcher{}, nil))
	reg.Register(ImportLocal(func(src, dst string) (int64, error) { return 7, nil }, nil))

	assert.NotPanics(t, func() {
		require.NoError(t, reg.Run(context.Background(), "import_data",
			Params{ParamDriveFileID: "abc", ParamDriveOutputPath: "out.csv"}))
		require.NoError(t, reg.Run(context.Background(), "import_local",
			Params{ParamLocalSource: "in.csv", ParamLocalDestination: "out.csv"}))
	})
}
