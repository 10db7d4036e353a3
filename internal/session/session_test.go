package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MemoryStore_TokenLifecycle(t *testing.T) {
	store := NewMemoryStore()
	assert.Empty(t, store.Token())

	store.SetToken("secret")
	assert.Equal(t, "secret", store.Token())

	store.Clear()
	assert.Empty(t, store.Token())
}

func Test_MemoryStore_User(t *testing.T) {
	store := NewMemoryStore()
	_, ok := store.User()
	assert.False(t, ok)

	store.SetUser(Profile{ID: 1, Email: "a@b.c"})
	user, ok := store.User()
	assert.True(t, ok)
	assert.Equal(t, int64(1), user.ID)

	store.Clear()
	_, ok = store.User()
	assert.False(t, ok)
}

func Test_MemoryStore_WatchFiresOnEveryChange(t *testing.T) {
	store := NewMemoryStore()
	var changes int
	cancel := store.Watch(func() { changes++ })

	store.SetToken("secret")
	store.SetUser(Profile{ID: 1})
	store.Clear()
	assert.Equal(t, 3, changes)

	cancel()
	store.SetToken("again")
	assert.Equal(t, 3, changes)
}
