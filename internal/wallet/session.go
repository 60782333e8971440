package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// The session cache holds unlocked private keys so a mint-then-set-primary
// flow signs twice with one keychain prompt. It lives in the user cache dir
// with 0600 perms:
//
//	Linux:   ~/.cache/subctl/session.json
//	macOS:   ~/Library/Caches/subctl/session.json
//	Windows: %LocalAppData%\subctl\session.json
type sessionFile struct {
	path string
}

func openSession() sessionFile {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return sessionFile{path: filepath.Join(dir, "subctl", "session.json")}
}

// read returns the cached key map. Any error (missing file, corrupt JSON)
// yields an empty map; a broken cache must never block signing.
func (f sessionFile) read() map[string]string {
	keys := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		return keys
	}
	if err := json.Unmarshal(data, &keys); err != nil {
		return make(map[string]string)
	}
	return keys
}

// write persists the key map with owner-only permissions. The Chmod after
// WriteFile re-tightens a file created earlier with a looser umask.
func (f sessionFile) write(keys map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return err
	}
	return os.Chmod(f.path, 0600)
}

// mutate applies fn to the key map in one read+write cycle.
func (f sessionFile) mutate(fn func(map[string]string)) {
	keys := f.read()
	fn(keys)
	_ = f.write(keys) // best effort; the keychain remains the source of truth
}

// sessionFilePath is kept as a helper for tests and diagnostics.
func sessionFilePath() string {
	return openSession().path
}

func loadSessionKeys() map[string]string {
	return openSession().read()
}

// GetSessionKey returns the cached key for a keystore ref.
func GetSessionKey(ref string) (string, bool) {
	v, ok := openSession().read()[ref]
	return v, ok
}

// GetSessionKeyCached reports whether the named wallet is unlocked. It takes
// the plain wallet name and derives the keystore ref itself.
func GetSessionKeyCached(name string) bool {
	_, ok := GetSessionKey(keychainService + "." + name)
	return ok
}

// PutSessionKey caches one unlocked key.
func PutSessionKey(ref, hexKey string) {
	openSession().mutate(func(keys map[string]string) {
		keys[ref] = hexKey
	})
}

// BulkPutSessionKeys merges several unlocked keys in a single read+write,
// for `wallet unlock --all`.
func BulkPutSessionKeys(add map[string]string) {
	if len(add) == 0 {
		return
	}
	openSession().mutate(func(keys map[string]string) {
		for ref, hexKey := range add {
			keys[ref] = hexKey
		}
	})
}

// LoadSessionSnapshot returns a copy of the whole session in one read, so
// multi-wallet loops do not re-read the file per wallet.
func LoadSessionSnapshot() map[string]string {
	return openSession().read()
}

// RemoveSessionKey evicts one wallet's key. Keystore.Delete calls this so a
// removed wallet cannot keep signing from the cache.
func RemoveSessionKey(ref string) {
	f := openSession()
	keys := f.read()
	if _, ok := keys[ref]; !ok {
		return
	}
	delete(keys, ref)
	_ = f.write(keys)
}

// ClearSession locks every wallet by deleting the session file.
func ClearSession() error {
	err := os.Remove(sessionFilePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SessionActive reports whether any wallet is currently unlocked.
func SessionActive() bool {
	return len(openSession().read()) > 0
}
