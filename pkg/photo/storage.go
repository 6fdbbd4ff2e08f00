package photo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"droscher.com/BreweryFinder/configs"
	"droscher.com/BreweryFinder/pkg/model"
)

// Stored describes a processed photo. Data is nil in filesystem mode, where
// the thumbnail bytes live at a path derived from Name instead.
type Stored struct {
	Name string
	Data []byte
}

// Storage is the two-variant photo placement strategy, selected once at
// startup from configuration.
type Storage interface {
	Store(suggestedName string, data []byte) (*Stored, error)
	Retrieve(photo *model.BeerPhoto) ([]byte, error)
	Remove(photo *model.BeerPhoto) error
}

func NewStorage(conf *configs.Config, logger *zap.Logger) Storage {
	if conf.Photos.StorageType == "filesystem" {
		return &FilesystemStorage{Dir: conf.Photos.UploadDir, Logger: logger}
	}

	return &DatabaseStorage{}
}

// DatabaseStorage keeps the thumbnail inline as a blob.
type DatabaseStorage struct{}

func (s *DatabaseStorage) Store(suggestedName string, data []byte) (*Stored, error) {
	thumb, err := Thumbnail(data)
	if err != nil {
		return nil, err
	}

	return &Stored{Name: CleanFilename(suggestedName), Data: thumb}, nil
}

func (s *DatabaseStorage) Retrieve(photo *model.BeerPhoto) ([]byte, error) {
	return photo.Data, nil
}

func (s *DatabaseStorage) Remove(*model.BeerPhoto) error {
	return nil
}

// FilesystemStorage writes thumbnails under Dir with a collision-resistant
// timestamped name.
type FilesystemStorage struct {
	Dir    string
	Logger *zap.Logger
}

func (s *FilesystemStorage) Store(suggestedName string, data []byte) (*Stored, error) {
	thumb, err := Thumbnail(data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(CleanFilename(suggestedName), Ext)
	name := fmt.Sprintf("%s_%s_%s%s", base, timestamp(), uuid.NewString()[:8], Ext)

	if err := os.WriteFile(filepath.Join(s.Dir, name), thumb, 0o644); err != nil {
		return nil, err
	}

	return &Stored{Name: name}, nil
}

func (s *FilesystemStorage) Retrieve(photo *model.BeerPhoto) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, filepath.Base(photo.PhotoName)))
}

// Remove deletes the backing file best-effort. A failure is logged and
// reported but must never abort the surrounding database transaction.
func (s *FilesystemStorage) Remove(photo *model.BeerPhoto) error {
	path := filepath.Join(s.Dir, filepath.Base(photo.PhotoName))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		if s.Logger != nil {
			s.Logger.Warn("unable to remove photo from filesystem", zap.String("path", path), zap.Error(err))
		}

		return err
	}

	return nil
}
