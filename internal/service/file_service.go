package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/andy/tasktimer/internal/repository"
	"github.com/andy/tasktimer/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	// sniffLen is how much content is inspected to guess the content type
	sniffLen = 512

	pdfContentType = "application/pdf"
)

// FileService attaches PDF documents to tasks
type FileService interface {
	Attach(ctx context.Context, taskID int64, name string, r io.Reader) (*domain.TaskFile, error)
	List(ctx context.Context, taskID int64) ([]*domain.TaskFile, error)
	ListAll(ctx context.Context) ([]*domain.TaskFile, error)

	// Open returns the attachment metadata and a reader for its content.
	// The caller closes the reader.
	Open(ctx context.Context, id int64) (*domain.TaskFile, io.ReadCloser, error)
	Delete(ctx context.Context, id int64) error
}

type fileService struct {
	fileRepo repository.FileRepository
	taskRepo repository.TaskRepository
	store    storage.FileStore
	log      logrus.FieldLogger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repository.FileRepository,
	taskRepo repository.TaskRepository,
	store storage.FileStore,
	log logrus.FieldLogger,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		taskRepo: taskRepo,
		store:    store,
		log:      log,
	}
}

func (s *fileService) Attach(ctx context.Context, taskID int64, name string, r io.Reader) (*domain.TaskFile, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	if contentType := http.DetectContentType(head); contentType != pdfContentType {
		return nil, fmt.Errorf("%w: %s looks like %s", ErrNotPDF, filepath.Base(name), contentType)
	}

	key, size, err := s.store.Put(br)
	if err != nil {
		return nil, err
	}

	file := &domain.TaskFile{
		TaskID:      taskID,
		Name:        filepath.Base(name),
		ObjectKey:   key,
		ContentType: pdfContentType,
		Size:        size,
		CreatedAt:   time.Now(),
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		if rmErr := s.store.Remove(key); rmErr != nil {
			s.log.WithError(rmErr).WithField("object_key", key).Warn("failed to remove orphaned blob")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"file_id": file.ID,
		"task_id": taskID,
		"size":    size,
	}).Info("file attached")
	return file, nil
}

func (s *fileService) List(ctx context.Context, taskID int64) ([]*domain.TaskFile, error) {
	return s.fileRepo.ListByTask(ctx, taskID)
}

func (s *fileService) ListAll(ctx context.Context) ([]*domain.TaskFile, error) {
	return s.fileRepo.ListAll(ctx)
}

func (s *fileService) Open(ctx context.Context, id int64) (*domain.TaskFile, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, ErrFileNotFound)
	}
	rc, err := s.store.Open(file.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return file, rc, nil
}

func (s *fileService) Delete(ctx context.Context, id int64) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrFileNotFound)
	}
	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrFileNotFound)
	}
	if err := s.store.Remove(file.ObjectKey); err != nil {
		s.log.WithError(err).WithField("object_key", file.ObjectKey).Warn("failed to remove attachment blob")
	}
	s.log.WithField("file_id", id).Info("file deleted")
	return nil
}
