package tarball

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/gzip"

	"github.com/distpack/distpack/pkg/utils/permissions"
)

// Build archives sourceDir into a gzip-compressed tar at outputPath,
// rooting every entry under baseName and normalizing permissions:
// directories 0755, regular files 0755 when ExecutablePath matches their
// relative path and 0644 otherwise. It returns the size in bytes of the
// finished archive.
//
// The output is not written atomically: a failure mid-stream can leave a
// partial file behind.
func Build(sourceDir, outputPath, baseName string, logger hclog.Logger) (int64, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if baseName == "" {
		baseName = DefaultBaseName
	}

	src, err := filepath.Abs(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("resolving source path: %w", err)
	}
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return 0, fmt.Errorf("%w: %s", ErrSourceNotFound, src)
	}
	if err != nil {
		return 0, fmt.Errorf("inspecting source: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", ErrSourceNotDir, src)
	}

	logger.Debug("creating archive", "source", src, "output", outputPath, "base", baseName)

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer out.Close()

	gzw := gzip.NewWriter(out)
	tw := tar.NewWriter(gzw)

	if err := writeTree(tw, src, info, baseName, logger); err != nil {
		return 0, fmt.Errorf("creating tar: %w", err)
	}

	if err := tw.Close(); err != nil {
		return 0, fmt.Errorf("closing tar writer: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return 0, fmt.Errorf("closing gzip writer: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("flushing %s: %w", outputPath, err)
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		return 0, fmt.Errorf("output tar file was not created: %w", err)
	}
	logger.Debug("archive complete", "path", outputPath, "bytes", stat.Size())
	return stat.Size(), nil
}

// writeTree emits the base directory entry followed by every file and
// directory under src, renamed to live under baseName.
func writeTree(tw *tar.Writer, src string, srcInfo os.FileInfo, baseName string, logger hclog.Logger) error {
	// Base directory entry first, so extraction always has a root to land
	// in. Metadata comes from the source directory itself.
	hdr, err := tar.FileInfoHeader(srcInfo, "")
	if err != nil {
		return err
	}
	hdr.Name = baseName + "/"
	hdr.Mode = permissions.DirMode
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == src {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		fi, err := d.Info()
		if err != nil {
			return err
		}
		var link string
		if fi.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(p); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(fi, link)
		if err != nil {
			return err
		}
		hdr.Name = path.Join(baseName, rel)

		switch {
		case d.IsDir():
			hdr.Name += "/"
			hdr.Mode = permissions.DirMode
		case ExecutablePath(rel):
			hdr.Mode = permissions.ExecMode
		default:
			hdr.Mode = permissions.FileMode
		}

		logger.Trace("adding entry", "name", hdr.Name, "mode", permissions.FormatOctal(hdr.Mode))

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("archiving %s: %w", rel, err)
		}
		return nil
	})
}
