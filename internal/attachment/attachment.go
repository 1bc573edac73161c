// Package attachment turns a small résumé file into the inline data URL stored on
// an application record, and back.
package attachment

import (
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yoockh/jobtrack/internal/utils"
)

// MaxBytes keeps a record under the store's ~1 MiB document limit once the
// payload has been base64 encoded and the other fields are added.
const MaxBytes = 800 * 1024

const (
	TooLargeMessage   = "File is too large. For database storage, please choose a file under 800KB."
	ReadFailedMessage = "Failed to read file."

	maxMIMELen = 255
)

var (
	ErrTooLarge = errors.New("attachment exceeds size limit")
	ErrRead     = errors.New("attachment could not be read")
	ErrDataURL  = errors.New("not a base64 data url")
)

// Source is one selected file. Size must be known without reading the content.
type Source interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type fileSource struct {
	path string
	size int64
}

// FromPath describes a local file. Only its metadata is touched.
func FromPath(path string) (Source, error) {
	const op = "attachment.FromPath"

	fi, err := os.Stat(path)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, ReadFailedMessage, errors.Join(ErrRead, err))
	}
	if fi.IsDir() {
		return nil, utils.E(utils.CodeInvalidArgument, op, ReadFailedMessage, errors.Join(ErrRead, errors.New(path+" is a directory")))
	}
	return &fileSource{path: path, size: fi.Size()}, nil
}

func (f *fileSource) Name() string                 { return filepath.Base(f.path) }
func (f *fileSource) Size() int64                  { return f.size }
func (f *fileSource) Open() (io.ReadCloser, error) { return os.Open(f.path) }

// Check rejects files over MaxBytes.
func Check(size int64) error {
	if size > MaxBytes {
		return utils.E(utils.CodeInvalidArgument, "attachment.Check", TooLargeMessage, ErrTooLarge)
	}
	return nil
}

// Encode reads src and returns its file name and data URL. The size check runs
// before the file is opened.
func Encode(src Source) (fileName string, dataURL string, err error) {
	const op = "attachment.Encode"

	if err := Check(src.Size()); err != nil {
		return "", "", err
	}

	rc, err := src.Open()
	if err != nil {
		return "", "", utils.E(utils.CodeInternal, op, ReadFailedMessage, errors.Join(ErrRead, err))
	}
	defer rc.Close()

	// the reported size may be stale; never read more than the limit allows
	raw, err := io.ReadAll(io.LimitReader(rc, MaxBytes+1))
	if err != nil {
		return "", "", utils.E(utils.CodeInternal, op, ReadFailedMessage, errors.Join(ErrRead, err))
	}
	if err := Check(int64(len(raw))); err != nil {
		return "", "", err
	}

	return src.Name(), DataURL(DetectMIME(raw), raw), nil
}

// DetectMIME sniffs the content type, without parameters.
func DetectMIME(raw []byte) string {
	mt, _, _ := strings.Cut(mimetype.Detect(raw).String(), ";")
	if mt == "" {
		return "application/octet-stream"
	}
	return mt
}

func DataURL(mime string, raw []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// Decode splits a data URL produced by Encode into its MIME type and content.
func Decode(dataURL string) (mime string, raw []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, ErrDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrDataURL
	}
	mime, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrDataURL
	}
	raw, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrDataURL, err)
	}
	if mime == "" {
		mime = "text/plain"
	}
	return mime, raw, nil
}

// MaxEncodedLen is the longest data URL Encode can produce.
func MaxEncodedLen() int {
	return len("data:") + maxMIMELen + len(";base64,") + base64.StdEncoding.EncodedLen(MaxBytes)
}
