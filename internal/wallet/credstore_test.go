package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCredentialStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet_data.json")
	store := NewFileCredentialStore(path)

	// 首次运行没有文件, 不算错误
	data, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, data)

	blob := []byte(`{"opaque":"blob"}`)
	require.NoError(t, store.Save(blob))

	data, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, blob, data)

	// 覆盖写
	require.NoError(t, store.Save([]byte("v2")))
	data, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}
