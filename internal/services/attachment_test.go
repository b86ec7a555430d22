package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"claim-system/internal/repositories/repotest"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/filestorage"
)

type recordingOpener struct {
	opened []string
}

func (o *recordingOpener) Open(path string) error {
	o.opened = append(o.opened, path)
	return nil
}

func newTestAttachmentService(t *testing.T) (AttachmentServiceInterface, *repotest.OrderRepo, *recordingOpener) {
	t.Helper()
	images, err := filestorage.NewImageStorage(t.TempDir())
	require.NoError(t, err)
	orders := repotest.NewOrderRepo()
	opener := &recordingOpener{}
	return NewAttachmentService(orders, images, opener, zap.NewNop()), orders, opener
}

func TestAttachmentService_SaveAndList(t *testing.T) {
	svc, orders, _ := newTestAttachmentService(t)
	seedOrder(orders, 4, "ORD4")
	ctx := context.Background()

	empty, err := svc.ListImages(ctx, "ORD4")
	require.NoError(t, err)
	assert.Empty(t, empty)

	saved, err := svc.SaveImage(ctx, "ORD4", strings.NewReader("one"))
	require.NoError(t, err)
	assert.Equal(t, "01.jpg", saved.Filename)
	assert.Equal(t, "4", filepath.Base(filepath.Dir(saved.Path)))

	saved, err = svc.SaveImage(ctx, "ORD4", strings.NewReader("two"))
	require.NoError(t, err)
	assert.Equal(t, "02.jpg", saved.Filename)

	names, err := svc.ListImages(ctx, "ORD4")
	require.NoError(t, err)
	assert.Equal(t, []string{"01.jpg", "02.jpg"}, names)
}

func TestAttachmentService_UnknownOrder(t *testing.T) {
	svc, _, opener := newTestAttachmentService(t)
	ctx := context.Background()

	_, err := svc.SaveImage(ctx, "NOPE", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.ListImages(ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.OpenFolder(ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, opener.opened)
}

func TestAttachmentService_Open(t *testing.T) {
	svc, orders, opener := newTestAttachmentService(t)
	seedOrder(orders, 9, "ORD9")
	ctx := context.Background()

	saved, err := svc.SaveImage(ctx, "ORD9", strings.NewReader("x"))
	require.NoError(t, err)

	path, err := svc.OpenImage(ctx, "ORD9", saved.Filename)
	require.NoError(t, err)
	assert.Equal(t, saved.Path, path)

	folder, err := svc.OpenFolder(ctx, "ORD9")
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(saved.Path), folder)
	assert.Equal(t, []string{saved.Path, folder}, opener.opened)

	_, err = svc.OpenImage(ctx, "ORD9", "../../etc/passwd")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileName)
	_, err = svc.ImagePath(ctx, "ORD9", "05.jpg")
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}
