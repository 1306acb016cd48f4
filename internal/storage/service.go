// Package storage сохраняет выгрузки сессий интервью в JSON файлы.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ai-interview/internal/interview"
)

const (
	filePrefix = "interview_"
	fileSuffix = ".json"
)

// Results хранит выгрузки в одной директории, по файлу на сессию
type Results struct {
	dir string
}

// NewResults создает экспорт результатов в каталог dir
func NewResults(dir string) *Results {
	return &Results{dir: dir}
}

func (r *Results) path(interviewID string) string {
	return filepath.Join(r.dir, filePrefix+interviewID+fileSuffix)
}

// SaveResult сохраняет выгрузку завершенной или прерванной сессии и
// возвращает путь к файлу. Повторная выгрузка перезаписывает файл.
func (r *Results) SaveResult(sess *interview.Session) (string, error) {
	if !sess.Status.Terminal() {
		return "", fmt.Errorf("%w: session %s is %s, only finished sessions can be exported",
			interview.ErrInvalidState, sess.ID, sess.Status)
	}

	jsonData, err := json.MarshalIndent(FromSession(sess, time.Now()), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result %s: %w", sess.ID, err)
	}

	path := r.path(sess.ID)
	if err := lockAndWrite(path, jsonData); err != nil {
		return "", err
	}
	return path, nil
}

// LoadResult загружает выгрузку сессии из JSON файла
func (r *Results) LoadResult(interviewID string) (*InterviewResult, error) {
	data, err := os.ReadFile(r.path(interviewID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: result %q", interview.ErrNotFound, interviewID)
	}
	if err != nil {
		return nil, fmt.Errorf("read result %s: %w", interviewID, err)
	}

	var result InterviewResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: result %s: %v", interview.ErrCorruptDocument, interviewID, err)
	}
	return &result, nil
}

// ListResults возвращает отсортированные идентификаторы сохраненных выгрузок
func (r *Results) ListResults() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", r.dir, err)
	}

	results := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		results = append(results, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
	}
	sort.Strings(results)
	return results, nil
}
