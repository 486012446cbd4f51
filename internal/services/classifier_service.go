package services

import (
	"errors"
	"io"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-fileprobe/internal/parsers/signature"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// ClassifierService classifies files on a filesystem by content and name
type ClassifierService struct {
	fs         afero.Fs
	classifier *signature.Classifier
}

// NewClassifierService creates a new classifier service
func NewClassifierService(fs afero.Fs, classifier *signature.Classifier) *ClassifierService {
	if classifier == nil {
		classifier = signature.NewClassifier()
	}
	return &ClassifierService{fs: fs, classifier: classifier}
}

// Classify reads the leading bytes of path and returns its FileType.
// Directories classify as Unknown.
func (cs *ClassifierService) Classify(path string) (types.FileType, error) {
	if path == "" {
		return types.FileTypeUnknown, types.InvalidArgument("classify", "path is required")
	}

	info, err := cs.fs.Stat(path)
	if err != nil {
		return types.FileTypeUnknown, types.IOError("classify", path, err)
	}
	if info.IsDir() {
		return types.FileTypeUnknown, nil
	}

	prefix, err := readPrefix(cs.fs, path, signature.MaxPrefixLength)
	if err != nil {
		return types.FileTypeUnknown, types.IOError("classify", path, err)
	}

	return cs.classifier.ClassifyBytes(path, prefix), nil
}

// ClassifyBytes classifies an already-read prefix
func (cs *ClassifierService) ClassifyBytes(name string, prefix []byte) types.FileType {
	return cs.classifier.ClassifyBytes(name, prefix)
}

// readPrefix reads up to n leading bytes. Short files return what they have.
func readPrefix(fs afero.Fs, path string, n int) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:read], nil
}
