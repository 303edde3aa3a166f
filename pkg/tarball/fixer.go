package tarball

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/gzip"

	"github.com/distpack/distpack/internal/scratch"
	"github.com/distpack/distpack/pkg/utils/permissions"
)

// Fix rewrites the archive at archivePath with normalized entry modes:
// directories 0755, regular files 0755 under go/bin/ and go/pkg/tool/ and
// 0644 elsewhere, other entry types keeping their recorded mode. Owner,
// group, time and link metadata carry through untouched.
//
// The original file is replaced only after the rewrite completes; on
// failure it is left exactly as found and the scratch file is removed.
func Fix(archivePath string, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if _, err := os.Stat(archivePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrArchiveNotFound, archivePath)
		}
		return fmt.Errorf("inspecting archive: %w", err)
	}

	src, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer src.Close()

	dst, err := scratch.New(archivePath)
	if err != nil {
		return err
	}
	defer dst.Cleanup()

	logger.Debug("fixing archive", "path", archivePath, "scratch", dst.Name())

	if err := rewrite(src, dst, logger); err != nil {
		return fmt.Errorf("fixing tar: %w", err)
	}
	if err := src.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return dst.Commit()
}

// rewrite streams every entry of the source archive into dst with its mode
// recomputed.
func rewrite(src io.Reader, dst io.Writer, logger hclog.Logger) error {
	gzr, err := gzip.NewReader(src)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	gzw := gzip.NewWriter(dst)
	tw := tar.NewWriter(gzw)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading entry: %w", err)
		}

		out := remodel(hdr)
		logger.Trace("rewriting entry", "name", out.Name, "mode", permissions.FormatOctal(out.Mode))

		if err := tw.WriteHeader(out); err != nil {
			return fmt.Errorf("writing entry %s: %w", out.Name, err)
		}
		if out.Size > 0 {
			if _, err := io.Copy(tw, tr); err != nil {
				return fmt.Errorf("copying entry %s: %w", out.Name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar writer: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("closing gzip writer: %w", err)
	}
	return nil
}

// remodel copies an entry header, keeping identity, time and link metadata
// and recomputing the mode. Classification sees the normalized name; the
// written name stays as recorded.
func remodel(hdr *tar.Header) *tar.Header {
	out := &tar.Header{
		Name:     hdr.Name,
		Typeflag: hdr.Typeflag,
		Linkname: hdr.Linkname,
		Size:     hdr.Size,
		Uid:      hdr.Uid,
		Gid:      hdr.Gid,
		Uname:    hdr.Uname,
		Gname:    hdr.Gname,
		ModTime:  hdr.ModTime,
		Devmajor: hdr.Devmajor,
		Devminor: hdr.Devminor,
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		out.Mode = permissions.DirMode
	case tar.TypeReg:
		if ExecutableEntry(NormalizeName(hdr.Name)) {
			out.Mode = permissions.ExecMode
		} else {
			out.Mode = permissions.FileMode
		}
	default:
		out.Mode = hdr.Mode
		if out.Mode == 0 {
			out.Mode = permissions.FileMode
		}
	}
	return out
}
