package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AudioCache keeps synthesized speech clips as <key>.wav so re-running a
// report does not pay for the same narration twice.
type AudioCache struct {
	Dir         string
	StrictPerms bool
}

// SpeechKey identifies a clip by everything that changes its audio.
func SpeechKey(model, voice, format, text string) string {
	h := sha256.Sum256([]byte(model + "\n" + voice + "\n" + format + "\n\n" + text))
	return hex.EncodeToString(h[:])
}

// Path returns where the clip for key lives, whether or not it exists.
func (c *AudioCache) Path(key string) string {
	return filepath.Join(c.Dir, key+".wav")
}

// Lookup reports whether a clip exists for key.
func (c *AudioCache) Lookup(_ context.Context, key string) (string, bool) {
	if c == nil || c.Dir == "" {
		return "", false
	}
	p := c.Path(key)
	info, err := os.Stat(p)
	if err != nil || info.Size() == 0 {
		return "", false
	}
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return p, true
}

// Save stores data under key and returns the clip path. Concurrent saves of
// the same key each write their own temp file; the last rename wins.
func (c *AudioCache) Save(_ context.Context, key string, data []byte) (string, error) {
	if err := ensureDir(c.Dir, c.StrictPerms); err != nil {
		return "", err
	}
	p := c.Path(key)
	f, err := os.CreateTemp(c.Dir, key+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create clip: %w", err)
	}
	tmp := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmp, fileMode(c.StrictPerms))
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write clip: %w", werr)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("store clip: %w", err)
	}
	return p, nil
}
