package host

import (
	"os"

	"github.com/spf13/afero"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

// DefaultAttachmentLimit is the largest file an attachment read accepts.
const DefaultAttachmentLimit int64 = 150 << 20

// AttachmentReader reads files referenced from notes.
type AttachmentReader struct {
	fs    afero.Fs
	limit int64
}

// NewAttachmentReader returns a reader that refuses files above limit bytes.
// A non-positive limit selects DefaultAttachmentLimit.
func NewAttachmentReader(fs afero.Fs, limit int64) *AttachmentReader {
	if limit <= 0 {
		limit = DefaultAttachmentLimit
	}
	return &AttachmentReader{fs: fs, limit: limit}
}

// Read returns the file contents.
func (r *AttachmentReader) Read(path string) ([]byte, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NotFoundf("file %s not found", path)
		}
		return nil, models.IOFailure(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, models.InvalidInputf("%s is a directory", path)
	}
	if info.Size() > r.limit {
		return nil, models.InvalidInputf("file %s is %d bytes, larger than the %d byte limit", path, info.Size(), r.limit)
	}
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, models.IOFailure(err, "read %s", path)
	}
	return data, nil
}
