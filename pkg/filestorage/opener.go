package filestorage

import (
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// Opener открывает файл или папку в оболочке ОС на машине сервера.
type Opener interface {
	Open(path string) error
}

// NewOpener: при enabled=false вызовы только логируются.
func NewOpener(enabled bool, logger *zap.Logger) Opener {
	if !enabled {
		return noopOpener{logger: logger}
	}
	return shellOpener{logger: logger}
}

type shellOpener struct {
	logger *zap.Logger
}

func (o shellOpener) Open(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("не удалось открыть %s: %w", path, err)
	}
	// не ждём закрытия окна, но забираем процесс
	go func() { _ = cmd.Wait() }()
	o.logger.Debug("Открыто на хосте", zap.String("path", path))
	return nil
}

type noopOpener struct {
	logger *zap.Logger
}

func (o noopOpener) Open(path string) error {
	o.logger.Debug("Открытие на хосте отключено", zap.String("path", path))
	return nil
}
