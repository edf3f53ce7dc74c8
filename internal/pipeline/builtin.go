package pipeline

import (
	"context"
	"log/slog"
)

// Parameter keys read by the built-in pipelines.
const (
	ParamDriveFileID      = "drive.file_id"
	ParamDriveOutputPath  = "drive.output_path"
	ParamLocalSource      = "local.source"
	ParamLocalDestination = "local.destination"
)

// Fetcher downloads a remote file id to a local path.
type Fetcher interface {
	Download(ctx context.Context, fileID, output string) (int64, error)
}

// CopyFunc copies a local file, creating the destination's parents.
type CopyFunc func(src, dst string) (int64, error)

// ImportData downloads drive.file_id into drive.output_path. A nil log
// means slog.Default().
func ImportData(f Fetcher, log *slog.Logger) Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return Pipeline{
		Name: "import_data",
		Nodes: []Node{{
			Name:   "download_dataset_node",
			Inputs: []string{ParamDriveOutputPath, ParamDriveFileID},
			Run: func(ctx context.Context, p Params) error {
				n, err := f.Download(ctx, p.Get(ParamDriveFileID), p.Get(ParamDriveOutputPath))
				if err != nil {
					return err
				}
				log.Info("dataset downloaded", "path", p.Get(ParamDriveOutputPath), "bytes", n)
				return nil
			},
		}},
	}
}

// ImportLocal copies local.source to local.destination.
func ImportLocal(cp CopyFunc, log *slog.Logger) Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return Pipeline{
		Name: "import_local",
		Nodes: []Node{{
			Name:   "copy_local_node",
			Inputs: []string{ParamLocalSource, ParamLocalDestination},
			Run: func(_ context.Context, p Params) error {
				n, err := cp(p.Get(ParamLocalSource), p.Get(ParamLocalDestination))
				if err != nil {
					return err
				}
				log.Info("dataset copied", "path", p.Get(ParamLocalDestination), "bytes", n)
				return nil
			},
		}},
	}
}

// Default returns a registry with import_data and import_local, and
// __default__ aliased to import_data.
func Default(f Fetcher, cp CopyFunc, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	r := NewRegistry(log)
	r.Register(ImportData(f, log))
	r.Register(ImportLocal(cp, log))
	r.Alias(DefaultName, "import_data")
	return r
}
