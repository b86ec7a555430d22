package filestorage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apperrors "claim-system/pkg/errors"
)

const (
	imageExt        = ".jpg"
	maxSaveAttempts = 20
)

var imageNamePattern = regexp.MustCompile(`^(\d{2,})\.jpg$`)

// ImageStorage - фото заказов на диске: <baseDir>/<orderID>/NN.jpg.
type ImageStorage struct {
	baseDir string
}

func NewImageStorage(baseDir string) (*ImageStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию изображений: %w", err)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	return &ImageStorage{baseDir: abs}, nil
}

// Dir возвращает абсолютный путь папки заказа, создавая её при необходимости.
func (s *ImageStorage) Dir(orderID uint64) (string, error) {
	dir := filepath.Join(s.baseDir, strconv.FormatUint(orderID, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("не удалось создать папку заказа %d: %w", orderID, err)
	}
	return dir, nil
}

// List - имена снимков заказа по возрастанию номера. Нет папки - пустой список.
func (s *ImageStorage) List(orderID uint64) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, strconv.FormatUint(orderID, 10)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), imageExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		ni, iok := imageSeq(names[i])
		nj, jok := imageSeq(names[j])
		if iok && jok && ni != nj {
			return ni < nj
		}
		return names[i] < names[j]
	})
	return names, nil
}

// Save записывает снимок под следующим свободным номером и возвращает имя файла.
// O_EXCL гарантирует, что параллельная запись не перетрёт чужой файл.
func (s *ImageStorage) Save(orderID uint64, src io.Reader) (string, error) {
	dir, err := s.Dir(orderID)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		next, err := s.nextSeq(orderID)
		if err != nil {
			return "", err
		}
		name := fmt.Sprintf("%02d%s", next, imageExt)

		dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", err
		}

		_, copyErr := io.Copy(dst, src)
		closeErr := dst.Close()
		if copyErr != nil || closeErr != nil {
			_ = os.Remove(filepath.Join(dir, name))
			return "", fmt.Errorf("не удалось записать %s: %w", name, errors.Join(copyErr, closeErr))
		}
		return name, nil
	}
	return "", fmt.Errorf("не удалось подобрать имя файла для заказа %d", orderID)
}

// Path - абсолютный путь существующего снимка. Имя проверяется, выйти из папки нельзя.
func (s *ImageStorage) Path(orderID uint64, name string) (string, error) {
	if !imageNamePattern.MatchString(name) {
		return "", apperrors.ErrInvalidFileName
	}
	full := filepath.Join(s.baseDir, strconv.FormatUint(orderID, 10), name)
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.ErrFileNotFound
		}
		return "", err
	}
	if info.IsDir() {
		return "", apperrors.ErrFileNotFound
	}
	return full, nil
}

func (s *ImageStorage) nextSeq(orderID uint64) (int, error) {
	names, err := s.List(orderID)
	if err != nil {
		return 0, err
	}
	maxSeq := 0
	for _, n := range names {
		if seq, ok := imageSeq(n); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

func imageSeq(name string) (int, bool) {
	m := imageNamePattern.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}
