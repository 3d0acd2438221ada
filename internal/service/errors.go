package service

import (
	"errors"
	"fmt"

	"github.com/andy/tasktimer/internal/repository"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrSessionNotFound = errors.New("time session not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidPassword = errors.New("incorrect password")
	ErrNotPDF          = errors.New("only PDF files can be attached")
)

// notFound maps a repository miss onto the service sentinel
func notFound(err error, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}
