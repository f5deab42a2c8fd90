package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knockout-cup/models"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	body, _ := io.ReadAll(reader)
	args := m.Called(key, contentType, string(body))
	res, _ := args.Get(0).(*UploadResult)
	return res, args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

func (m *mockUploader) GetPublicURL(key string) string {
	return m.Called(key).String(0)
}

func TestSnapshotArchive_Store(t *testing.T) {
	snap := &models.TournamentSnapshot{ID: "abc", Name: "Cup", GroupCount: 1, Stage: models.StageComplete}
	want, err := json.Marshal(snap)
	require.NoError(t, err)

	up := new(mockUploader)
	up.On("Upload", "tournaments/abc/final.json", "application/json", string(want)).
		Return(&UploadResult{Key: "tournaments/abc/final.json", Location: "https://cdn/x"}, nil)

	res, err := NewSnapshotArchive(up).Store(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x", res.Location)
	up.AssertExpectations(t)
}

func TestSnapshotArchive_StoreError(t *testing.T) {
	up := new(mockUploader)
	up.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := NewSnapshotArchive(up).Store(context.Background(), &models.TournamentSnapshot{ID: "abc"})
	assert.EqualError(t, err, "boom")
}

func TestSnapshotArchive_RemoveAndURL(t *testing.T) {
	up := new(mockUploader)
	up.On("Delete", "tournaments/abc/final.json").Return(nil)
	up.On("GetPublicURL", "tournaments/abc/final.json").Return("https://cdn/tournaments/abc/final.json")

	archive := NewSnapshotArchive(up)
	require.NoError(t, archive.Remove(context.Background(), "abc"))
	assert.Equal(t, "https://cdn/tournaments/abc/final.json", archive.URL("abc"))
	up.AssertExpectations(t)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{base: "https://cdn.example.com", key: "tournaments/a/final.json", want: "https://cdn.example.com/tournaments/a/final.json"},
		{base: "https://cdn.example.com/", key: "/tournaments/a/final.json", want: "https://cdn.example.com/tournaments/a/final.json"},
		{base: "https://cdn.example.com/cup", key: "tournaments/a/final.json", want: "https://cdn.example.com/cup/tournaments/a/final.json"},
		{base: "https://cdn.example.com", key: "", want: ""},
	}
	for _, tt := range tests {
		base, err := url.Parse(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, publicURL(base, tt.key))
	}
	assert.Empty(t, publicURL(nil, "x"))
}
