package utils

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	pg, err := ParsePagination("", "", 10, 100)
	require.NoError(t, err)
	assert.Equal(t, Pagination{Limit: 10, Offset: 0}, pg)

	pg, err = ParsePagination("25", "50", 10, 100)
	require.NoError(t, err)
	assert.Equal(t, Pagination{Limit: 25, Offset: 50}, pg)

	pg, err = ParsePagination("500", "", 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, pg.Limit)

	_, err = ParsePagination("ten", "", 10, 100)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = ParsePagination("0", "", 10, 100)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = ParsePagination("", "-1", 10, 100)
	assert.ErrorIs(t, err, ErrInvalidOffset)

	_, err = ParsePagination("", "1.5", 10, 100)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "4.2"} {
		_, ok := ParseID(raw)
		assert.False(t, ok, raw)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Electronics", "Computers"}, SplitList("Electronics, Computers,"))
	assert.Equal(t, []string{}, SplitList(""))
}

func TestNormalizePasswordHash(t *testing.T) {
	empty, err := NormalizePasswordHash("")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.False(t, CheckPassword(empty, ""))

	hashed, err := NormalizePasswordHash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)
	assert.True(t, CheckPassword(hashed, "secret1"))

	again, err := NormalizePasswordHash(hashed)
	require.NoError(t, err)
	assert.Equal(t, hashed, again)
}

func fileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, contentType := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("data-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["images"]
}

func TestUploadStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewUploadStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	paths, err := store.Save(fileHeaders(t, map[string]string{"front.PNG": "image/png"}))
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, strings.HasPrefix(paths[0], "uploads/"))
	assert.True(t, strings.HasSuffix(paths[0], ".png"))

	stored := filepath.Join(dir, filepath.Base(paths[0]))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "data-front.PNG", string(data))

	store.Remove(paths)
	_, err = os.Stat(stored)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUploadStoreRejectsNonImages(t *testing.T) {
	dir := t.TempDir()
	store, err := NewUploadStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, err = store.Save(fileHeaders(t, map[string]string{
		"photo.jpg": "image/jpeg",
		"notes.txt": "text/plain",
	}))
	assert.ErrorIs(t, err, ErrNotImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
