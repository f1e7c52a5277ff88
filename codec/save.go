package codec

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// FileFormat is an image file encoding supported by Save.
type FileFormat uint8

// Supported file formats.
const (
	FilePNG FileFormat = iota + 1
	FileBMP
	FileTIFF
	FileJPEG
)

func (f FileFormat) String() string {
	switch f {
	case FilePNG:
		return "png"
	case FileBMP:
		return "bmp"
	case FileTIFF:
		return "tiff"
	case FileJPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("FileFormat(%d)", f)
	}
}

// FormatFromExt maps a file extension, with or without the leading dot, to
// a file format.
func FormatFromExt(ext string) (FileFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return FilePNG, nil
	case "bmp":
		return FileBMP, nil
	case "tif", "tiff":
		return FileTIFF, nil
	case "jpg", "jpeg":
		return FileJPEG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownExtension, ext)
}

// Save writes img to path, choosing the encoding from the extension.
func Save(img image.Image, path string) (err error) {
	f, err := FormatFromExt(filepath.Ext(path))
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(file)
	if err := Write(w, img, f); err != nil {
		return fmt.Errorf("codec: save %s: %w", path, err)
	}
	return w.Flush()
}

// Write encodes img to w in format f.
func Write(w io.Writer, img image.Image, f FileFormat) error {
	switch f {
	case FilePNG:
		return png.Encode(w, img)
	case FileBMP:
		return bmp.Encode(w, img)
	case FileTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FileJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownExtension, f)
	}
}
